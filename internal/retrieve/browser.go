package retrieve

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/chromedp/chromedp"
)

const (
	DefaultPageLoadTimeout = 45 * time.Second
	DefaultSettleDelay     = 5 * time.Second
)

var browserUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36",
}

// BrowserConfig configures BrowserRetriever.
type BrowserConfig struct {
	// ExecPath overrides the Chrome binary; empty lets chromedp locate it.
	ExecPath        string
	PageLoadTimeout time.Duration
	// SettleDelay is how long scripts get to build the DOM after navigation.
	SettleDelay time.Duration
	MaxRetries  uint64
	UserAgent   string
}

func (c BrowserConfig) withDefaults() BrowserConfig {
	if c.PageLoadTimeout <= 0 {
		c.PageLoadTimeout = DefaultPageLoadTimeout
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	return c
}

// BrowserRetriever renders pages in a fresh headless Chrome per call.
type BrowserRetriever struct {
	cfg BrowserConfig
}

// NewBrowser creates a BrowserRetriever.
func NewBrowser(cfg BrowserConfig) *BrowserRetriever {
	return &BrowserRetriever{cfg: cfg.withDefaults()}
}

// Retrieve implements Retriever. The browser process is started, used and
// shut down within the call; failed cycles are retried with exponential backoff.
func (b *BrowserRetriever) Retrieve(ctx context.Context, url string) (*goquery.Document, error) {
	var rendered string

	op := func() error {
		html, err := b.render(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		rendered = html
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), b.cfg.MaxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, failed(url, err)
	}

	doc, err := parseDocument(strings.NewReader(rendered), "text/html; charset=utf-8")
	if err != nil {
		return nil, failed(url, err)
	}
	return doc, nil
}

func (b *BrowserRetriever) render(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(b.userAgent()),
	)
	if b.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.cfg.PageLoadTimeout+b.cfg.SettleDelay)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(b.cfg.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return html, nil
}

func (b *BrowserRetriever) userAgent() string {
	if b.cfg.UserAgent != "" {
		return b.cfg.UserAgent
	}
	return browserUserAgents[rand.Intn(len(browserUserAgents))]
}
