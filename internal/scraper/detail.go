package scraper

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ErrContentNotFound reports a page that was retrieved but lacks the post
// content widget.
var ErrContentNotFound = errors.New("article content not found")

const (
	contentWidgetSelector    = ".elementor-widget-theme-post-content"
	contentContainerSelector = ".elementor-widget-container"
)

// ExtractContent returns the outer HTML of the article's content widget,
// narrowed to its inner container when there is one.
func ExtractContent(doc *goquery.Document) (string, error) {
	widget := doc.Find(contentWidgetSelector).First()
	if widget.Length() == 0 {
		return "", ErrContentNotFound
	}

	if inner := widget.Find(contentContainerSelector).First(); inner.Length() > 0 {
		widget = inner
	}

	html, err := goquery.OuterHtml(widget)
	if err != nil {
		return "", fmt.Errorf("rendering content: %w", err)
	}
	return html, nil
}
