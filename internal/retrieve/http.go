package retrieve

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/govolunteer/govolunteer-api/internal/logger"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
	DefaultReferer   = "https://www.google.com/"
	DefaultTimeout   = 15 * time.Second
)

// HTTPConfig configures HTTPRetriever.
type HTTPConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	UserAgent    string
	Referer      string
}

func (c HTTPConfig) withDefaults() HTTPConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryWait <= 0 {
		c.RetryWait = 500 * time.Millisecond
	}
	if c.RetryMaxWait < c.RetryWait {
		c.RetryMaxWait = 4 * c.RetryWait
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Referer == "" {
		c.Referer = DefaultReferer
	}
	return c
}

// HTTPRetriever fetches pages with a plain GET request.
type HTTPRetriever struct {
	client *resty.Client
}

// NewHTTP creates an HTTPRetriever. Transport errors and 5xx responses are
// retried up to MaxRetries times; 4xx responses fail immediately.
func NewHTTP(cfg HTTPConfig) *HTTPRetriever {
	cfg = cfg.withDefaults()

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Referer", cfg.Referer).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetLogger(restyLogger{}).
		AddRetryCondition(retryable)

	return &HTTPRetriever{client: client}
}

// retryable replaces resty's default condition, so transport errors are
// listed explicitly alongside 5xx responses.
func retryable(r *resty.Response, err error) bool {
	return err != nil || (r != nil && r.StatusCode() >= http.StatusInternalServerError)
}

// restyLogger routes resty's retry and error messages through logger.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), logger.Fields{"component": "resty"}, nil)
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)), logger.Fields{"component": "resty"})
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), logger.Fields{"component": "resty"})
}

// Retrieve implements Retriever.
func (h *HTTPRetriever) Retrieve(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := h.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, failed(url, fmt.Errorf("fetching page: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, failed(url, fmt.Errorf("unexpected status code: %d", resp.StatusCode()))
	}

	doc, err := parseDocument(bytes.NewReader(resp.Body()), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, failed(url, err)
	}
	return doc, nil
}
