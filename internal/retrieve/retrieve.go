// Package retrieve obtains parsed HTML documents for the extractors.
//
// Two interchangeable strategies implement Retriever: HTTPRetriever issues a
// plain GET with retries, BrowserRetriever renders the page in headless Chrome
// so script-built markup is present. Extractors only ever see the resulting
// *goquery.Document. Every failure wraps ErrRetrievalFailed and no partial
// document is returned.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// ErrRetrievalFailed reports that a document could not be obtained at all.
var ErrRetrievalFailed = errors.New("retrieval failed")

// Mode names a retrieval strategy.
type Mode string

const (
	ModeHTTP    Mode = "http"
	ModeBrowser Mode = "browser"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeHTTP:
		return ModeHTTP, nil
	case ModeBrowser:
		return ModeBrowser, nil
	default:
		return "", fmt.Errorf("unknown retrieval mode: %q", s)
	}
}

// Retriever fetches a URL and returns the parsed document.
type Retriever interface {
	Retrieve(ctx context.Context, url string) (*goquery.Document, error)
}

// New builds the retriever for mode.
func New(mode Mode, httpCfg HTTPConfig, browserCfg BrowserConfig) (Retriever, error) {
	switch mode {
	case ModeHTTP, "":
		return NewHTTP(httpCfg), nil
	case ModeBrowser:
		return NewBrowser(browserCfg), nil
	default:
		return nil, fmt.Errorf("unknown retrieval mode: %q", mode)
	}
}

// failed wraps err so callers can match ErrRetrievalFailed and the cause.
func failed(url string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRetrievalFailed, url, err)
}

// parseDocument decodes body using the declared content type and parses it.
func parseDocument(body io.Reader, contentType string) (*goquery.Document, error) {
	r, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("decoding charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
