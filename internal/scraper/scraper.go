package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/govolunteer/govolunteer-api/internal/logger"
	"github.com/govolunteer/govolunteer-api/internal/news"
	"github.com/govolunteer/govolunteer-api/internal/retrieve"
	"github.com/mmcdole/gofeed"
)

const (
	UserAgent   = "govolunteer-api/1.0 (+https://govolunteerhcmc.vn)"
	FeedTimeout = 30 * time.Second
)

// Scraper fetches GoVolunteer pages and runs the extractors over them.
type Scraper struct {
	listing    retrieve.Retriever
	article    retrieve.Retriever
	baseURL    string
	feedParser *gofeed.Parser
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithBaseURL points the scraper at another site root, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(s *Scraper) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithFeedClient sets the HTTP client used for the RSS feed.
func WithFeedClient(client *http.Client) Option {
	return func(s *Scraper) {
		s.feedParser.Client = client
	}
}

// New creates a Scraper. listing retrieves the home page and article
// retrieves single posts; they may be the same retriever.
func New(listing, article retrieve.Retriever, opts ...Option) *Scraper {
	parser := gofeed.NewParser()
	parser.UserAgent = UserAgent
	parser.Client = &http.Client{Timeout: FeedTimeout}

	s := &Scraper{
		listing:    listing,
		article:    article,
		baseURL:    DefaultBaseURL,
		feedParser: parser,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the site root the scraper accepts links under.
func (s *Scraper) BaseURL() string {
	return s.baseURL
}

// ValidArticleURL reports whether url belongs to the scraped site.
func (s *Scraper) ValidArticleURL(url string) bool {
	return url != "" && strings.HasPrefix(url, s.baseURL)
}

// FetchNews retrieves the home page and extracts its category sections.
// An empty result is not an error.
func (s *Scraper) FetchNews(ctx context.Context) ([]news.CategorySection, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("news.fetch", time.Since(start)) }()

	doc, err := s.listing.Retrieve(ctx, s.baseURL)
	if err != nil {
		logger.IncrCounter("news.fetch.errors")
		return nil, fmt.Errorf("fetching news: %w", err)
	}

	sections := ExtractSections(doc, s.baseURL)
	logger.SetGauge("news.sections", float64(len(sections)))
	logger.Debug("Extracted news sections", logger.Fields{
		"sections": len(sections),
		"duration": time.Since(start).String(),
	})
	if len(sections) == 0 {
		logger.Warn("No news sections found on home page", logger.Fields{"url": s.baseURL})
	}

	return sections, nil
}

// FetchArticle retrieves one article and extracts its content. Errors wrap
// retrieve.ErrRetrievalFailed or ErrContentNotFound.
func (s *Scraper) FetchArticle(ctx context.Context, url string) (*news.ArticleDetail, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("article.fetch", time.Since(start)) }()

	doc, err := s.article.Retrieve(ctx, url)
	if err != nil {
		logger.IncrCounter("article.fetch.errors")
		return nil, fmt.Errorf("fetching article: %w", err)
	}

	content, err := ExtractContent(doc)
	if err != nil {
		logger.IncrCounter("article.content_missing")
		return nil, fmt.Errorf("extracting %s: %w", url, err)
	}

	return &news.ArticleDetail{URL: url, HTMLContent: content}, nil
}

// FetchCategory retrieves a site page such as "/skills/" and extracts its
// sections the same way as the home page.
func (s *Scraper) FetchCategory(ctx context.Context, path string) ([]news.CategorySection, error) {
	pageURL := s.baseURL + "/" + strings.Trim(path, "/") + "/"

	doc, err := s.listing.Retrieve(ctx, pageURL)
	if err != nil {
		logger.IncrCounter("category.fetch.errors")
		return nil, fmt.Errorf("fetching category: %w", err)
	}

	return ExtractSections(doc, s.baseURL), nil
}
