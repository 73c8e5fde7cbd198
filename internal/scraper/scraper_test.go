package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/govolunteer/govolunteer-api/internal/retrieve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturesDir = "../../testdata/fixtures/"

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(fixturesDir + name)
	require.NoError(t, err, "failed to load test fixture")
	return string(data)
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// stubRetriever serves canned documents keyed by URL.
type stubRetriever struct {
	pages map[string]string
	err   error
	urls  []string
}

func (r *stubRetriever) Retrieve(_ context.Context, url string) (*goquery.Document, error) {
	r.urls = append(r.urls, url)
	if r.err != nil {
		return nil, r.err
	}
	html, ok := r.pages[url]
	if !ok {
		return nil, errors.New("unexpected url " + url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func TestScraper_FetchNews(t *testing.T) {
	r := &stubRetriever{pages: map[string]string{DefaultBaseURL: loadFixture(t, "home.html")}}
	s := New(r, r)

	sections, err := s.FetchNews(context.Background())
	require.NoError(t, err)

	require.Len(t, sections, 2)
	assert.Equal(t, "Tin tức", sections[0].Category)
	assert.Len(t, sections[0].Articles, 2)
	assert.Equal(t, DefaultCategory, sections[1].Category)
	assert.Equal(t, "https://govolunteerhcmc.vn/tuyen-tinh-nguyen-vien/", sections[1].Articles[0].Link)
	assert.Equal(t, FallbackImageURL, sections[1].Articles[0].ImageURL)
	assert.Equal(t, []string{DefaultBaseURL}, r.urls)
}

func TestScraper_FetchNewsRetrievalFailure(t *testing.T) {
	cause := errors.Join(retrieve.ErrRetrievalFailed, errors.New("timeout"))
	r := &stubRetriever{err: cause}

	sections, err := New(r, r).FetchNews(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, retrieve.ErrRetrievalFailed)
	assert.Nil(t, sections)
}

func TestScraper_FetchNewsEmptyPage(t *testing.T) {
	r := &stubRetriever{pages: map[string]string{DefaultBaseURL: "<html><body></body></html>"}}

	sections, err := New(r, r).FetchNews(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestScraper_FetchArticle(t *testing.T) {
	const url = "https://govolunteerhcmc.vn/mua-he-xanh-2024/"
	r := &stubRetriever{pages: map[string]string{
		url:                        loadFixture(t, "article.html"),
		DefaultBaseURL + "/empty/": "<html><body><div class=\"entry\">Nội dung</div></body></html>",
	}}
	s := New(&stubRetriever{}, r)

	detail, err := s.FetchArticle(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, url, detail.URL)
	assert.True(t, strings.HasPrefix(detail.HTMLContent, `<div class="elementor-widget-container">`))

	_, err = s.FetchArticle(context.Background(), DefaultBaseURL+"/empty/")
	assert.ErrorIs(t, err, ErrContentNotFound)
	assert.NotErrorIs(t, err, retrieve.ErrRetrievalFailed)

	failing := New(r, &stubRetriever{err: retrieve.ErrRetrievalFailed})
	_, err = failing.FetchArticle(context.Background(), url)
	assert.ErrorIs(t, err, retrieve.ErrRetrievalFailed)
	assert.NotErrorIs(t, err, ErrContentNotFound)
}

func TestScraper_FetchCategory(t *testing.T) {
	r := &stubRetriever{pages: map[string]string{DefaultBaseURL + "/skills/": loadFixture(t, "home.html")}}

	sections, err := New(r, r).FetchCategory(context.Background(), "skills")
	require.NoError(t, err)
	assert.Len(t, sections, 2)
	assert.Equal(t, []string{DefaultBaseURL + "/skills/"}, r.urls)

	_, err = New(&stubRetriever{err: retrieve.ErrRetrievalFailed}, r).FetchCategory(context.Background(), "/ideas/")
	assert.ErrorIs(t, err, retrieve.ErrRetrievalFailed)
}

func TestScraper_ValidArticleURL(t *testing.T) {
	s := New(nil, nil)

	assert.True(t, s.ValidArticleURL("https://govolunteerhcmc.vn/bai-viet/"))
	assert.False(t, s.ValidArticleURL("https://example.com/bai-viet/"))
	assert.False(t, s.ValidArticleURL(""))

	custom := New(nil, nil, WithBaseURL("http://127.0.0.1:8080/"))
	assert.Equal(t, "http://127.0.0.1:8080", custom.BaseURL())
	assert.True(t, custom.ValidArticleURL("http://127.0.0.1:8080/a"))
}

func TestScraper_FetchFeed(t *testing.T) {
	fixture := loadFixture(t, "feed.xml")

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != FeedPath {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		body := strings.ReplaceAll(fixture, DefaultBaseURL, server.URL)
		w.Header().Set("Content-Type", "application/rss+xml; charset=UTF-8")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	s := New(nil, nil, WithBaseURL(server.URL), WithFeedClient(server.Client()))

	articles, err := s.FetchFeed(context.Background())
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "Mùa hè xanh 2024", articles[0].Title)
	assert.Equal(t, server.URL+"/wp-content/uploads/2024/05/mua-he-xanh.jpg", articles[0].ImageURL)
	require.NotNil(t, articles[0].Excerpt)
	assert.Equal(t, "Chiến dịch tình nguyện hè.", *articles[0].Excerpt)

	assert.Equal(t, server.URL+"/hien-mau-nhan-dao/", articles[1].Link)
	assert.Equal(t, FallbackImageURL, articles[1].ImageURL)
	assert.Nil(t, articles[1].Excerpt)
}

func TestScraper_FetchFeedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := New(nil, nil, WithBaseURL(server.URL), WithFeedClient(server.Client()))

	_, err := s.FetchFeed(context.Background())
	assert.ErrorIs(t, err, retrieve.ErrRetrievalFailed)
}
