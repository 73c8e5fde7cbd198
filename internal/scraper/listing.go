package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/govolunteer/govolunteer-api/internal/news"
)

const (
	// DefaultBaseURL is the site root; only links under it are kept.
	DefaultBaseURL = "https://govolunteerhcmc.vn"
	// DefaultCategory labels sections that have no heading.
	DefaultCategory = "BẢNG TIN TÌNH NGUYỆN"
)

// Elementor markup used by the home page.
const (
	sectionSelector   = "section.elementor-section.elementor-top-section"
	postSelector      = "article.elementor-post"
	titleSelector     = "h3.elementor-post__title a"
	thumbnailSelector = ".elementor-post__thumbnail img"
	excerptSelector   = ".elementor-post__excerpt p"
	headingSelector   = "h2.elementor-heading-title.elementor-size-default"
)

// ExtractSections parses the home page into category sections in document
// order. Posts without a title link, or linking outside baseURL, are skipped.
// Within a section articles are unique by link and across sections categories
// are unique; in both cases the first occurrence wins. Sections left without
// articles are not returned.
func ExtractSections(doc *goquery.Document, baseURL string) []news.CategorySection {
	sections := news.NewOrderedSet(news.SectionKey)

	doc.Find(sectionSelector).Each(func(_ int, sel *goquery.Selection) {
		articles := extractArticles(sel, baseURL)
		if len(articles) == 0 {
			return
		}
		sections.Add(news.CategorySection{
			Category: sectionCategory(sel),
			Articles: articles,
		})
	})

	return sections.Items()
}

func extractArticles(section *goquery.Selection, baseURL string) []news.ArticleSummary {
	articles := news.NewOrderedSet(news.ArticleKey)

	section.Find(postSelector).Each(func(_ int, post *goquery.Selection) {
		if a, ok := extractArticle(post, baseURL); ok {
			articles.Add(a)
		}
	})

	return articles.Items()
}

func extractArticle(post *goquery.Selection, baseURL string) (news.ArticleSummary, bool) {
	anchor := post.Find(titleSelector).First()
	if anchor.Length() == 0 {
		return news.ArticleSummary{}, false
	}

	link, _ := anchor.Attr("href")
	if link == "" || !strings.HasPrefix(link, baseURL) {
		return news.ArticleSummary{}, false
	}

	src, _ := post.Find(thumbnailSelector).First().Attr("src")

	article := news.ArticleSummary{
		Title:    strings.TrimSpace(anchor.Text()),
		Link:     link,
		ImageURL: HighResImageURL(src),
	}

	if excerpt := post.Find(excerptSelector).First(); excerpt.Length() > 0 {
		article.Excerpt = news.StringPtr(strings.TrimSpace(excerpt.Text()))
	}

	return article, true
}

func sectionCategory(section *goquery.Selection) string {
	heading := strings.TrimSpace(section.Find(headingSelector).First().Text())
	if heading == "" {
		return DefaultCategory
	}
	return heading
}
