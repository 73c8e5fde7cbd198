package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/govolunteer/govolunteer-api/internal/news"
	"github.com/govolunteer/govolunteer-api/internal/retrieve"
	"github.com/mmcdole/gofeed"
)

// FeedPath is the WordPress RSS endpoint relative to the base URL.
const FeedPath = "/feed/"

// FetchFeed lists recent articles from the site's RSS feed. Items linking
// outside the base URL are dropped and links are unique, first wins.
func (s *Scraper) FetchFeed(ctx context.Context) ([]news.ArticleSummary, error) {
	feedURL := strings.TrimRight(s.baseURL, "/") + FeedPath

	feed, err := s.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parsing feed: %w", retrieve.ErrRetrievalFailed, feedURL, err)
	}

	return feedArticles(feed, s.baseURL), nil
}

func feedArticles(feed *gofeed.Feed, baseURL string) []news.ArticleSummary {
	articles := news.NewOrderedSet(news.ArticleKey)

	for _, item := range feed.Items {
		if item == nil || !strings.HasPrefix(item.Link, baseURL) {
			continue
		}

		article := news.ArticleSummary{
			Title:    strings.TrimSpace(item.Title),
			Link:     item.Link,
			ImageURL: HighResImageURL(feedItemImage(item)),
		}
		if excerpt := plainText(item.Description); excerpt != "" {
			article.Excerpt = news.StringPtr(excerpt)
		}
		articles.Add(article)
	}

	return articles.Items()
}

func feedItemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

// plainText strips markup from an RSS description.
func plainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
