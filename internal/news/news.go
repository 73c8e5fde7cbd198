package news

// ArticleSummary is one article preview from a listing page.
type ArticleSummary struct {
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	ImageURL string  `json:"imageUrl"`
	Excerpt  *string `json:"excerpt"`
}

// CategorySection is a named group of article previews.
type CategorySection struct {
	Category string           `json:"category"`
	Articles []ArticleSummary `json:"articles"`
}

// ArticleDetail is the content fragment of a single article page.
type ArticleDetail struct {
	URL         string `json:"-"`
	HTMLContent string `json:"html_content"`
}

// ArticleKey returns the dedup key of an article.
func ArticleKey(a ArticleSummary) string {
	return a.Link
}

// SectionKey returns the dedup key of a section.
func SectionKey(s CategorySection) string {
	return s.Category
}

// UniqueArticles drops articles whose link was already seen, keeping the first.
func UniqueArticles(articles []ArticleSummary) []ArticleSummary {
	set := NewOrderedSet(ArticleKey)
	for _, a := range articles {
		set.Add(a)
	}
	return set.Items()
}

// UniqueSections drops sections whose category was already seen, keeping the first.
func UniqueSections(sections []CategorySection) []CategorySection {
	set := NewOrderedSet(SectionKey)
	for _, s := range sections {
		set.Add(s)
	}
	return set.Items()
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
