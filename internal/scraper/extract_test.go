package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighResImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"resize token", "https://govolunteerhcmc.vn/wp-content/uploads/photo-300x200.jpg", "https://govolunteerhcmc.vn/wp-content/uploads/photo.jpg"},
		{"four digit token", "https://x.vn/a/banner-1024x1024.webp", "https://x.vn/a/banner.webp"},
		{"two digit token", "photo-60x60.png", "photo.png"},
		{"no token", "https://x.vn/a/photo.jpg", "https://x.vn/a/photo.jpg"},
		{"five digits untouched", "photo-30000x200.jpg", "photo-30000x200.jpg"},
		{"one digit untouched", "photo-3x200.jpg", "photo-3x200.jpg"},
		{"not before extension", "photo-300x200-final.jpg", "photo-300x200-final.jpg"},
		{"token in directory", "https://x.vn/300x200/photo.jpg", "https://x.vn/300x200/photo.jpg"},
		{"missing dash", "photo300x200.jpg", "photo300x200.jpg"},
		{"empty", "", FallbackImageURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighResImageURL(tt.in))
		})
	}
}

func TestExtractSections_Fixture(t *testing.T) {
	doc := parseHTML(t, loadFixture(t, "home.html"))

	sections := ExtractSections(doc, DefaultBaseURL)

	require.Len(t, sections, 2)

	latest := sections[0]
	assert.Equal(t, "Tin tức", latest.Category)
	require.Len(t, latest.Articles, 2)

	first := latest.Articles[0]
	assert.Equal(t, "Mùa hè xanh 2024", first.Title)
	assert.Equal(t, "https://govolunteerhcmc.vn/mua-he-xanh-2024/", first.Link)
	assert.Equal(t, "https://govolunteerhcmc.vn/wp-content/uploads/2024/05/mua-he-xanh.jpg", first.ImageURL)
	require.NotNil(t, first.Excerpt)
	assert.Equal(t, "Chiến dịch tình nguyện hè.", *first.Excerpt)

	second := latest.Articles[1]
	assert.Equal(t, "Hiến máu nhân đạo", second.Title)
	assert.Equal(t, "https://govolunteerhcmc.vn/wp-content/uploads/2024/06/hien-mau.png", second.ImageURL)
	assert.Nil(t, second.Excerpt)

	assert.Equal(t, DefaultCategory, sections[1].Category)
	require.Len(t, sections[1].Articles, 1)
	assert.Equal(t, "Tuyển tình nguyện viên", sections[1].Articles[0].Title)

	for _, s := range sections {
		assert.NotEqual(t, "Quảng cáo", s.Category)
		assert.NotEqual(t, "Sự kiện", s.Category)
	}
}

func TestExtractSections_TwoPostsInOneSection(t *testing.T) {
	doc := parseHTML(t, `<html><body>
<section class="elementor-section elementor-top-section">
  <h2 class="elementor-heading-title elementor-size-default">Tin tức</h2>
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="https://govolunteerhcmc.vn/a/">A</a></h3></article>
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="https://govolunteerhcmc.vn/b/">B</a></h3></article>
</section>
</body></html>`)

	sections := ExtractSections(doc, DefaultBaseURL)

	require.Len(t, sections, 1)
	assert.Equal(t, "Tin tức", sections[0].Category)
	require.Len(t, sections[0].Articles, 2)
	assert.Equal(t, "A", sections[0].Articles[0].Title)
	assert.Equal(t, "B", sections[0].Articles[1].Title)
}

func TestExtractSections_DuplicateLinkKeepsFirst(t *testing.T) {
	doc := parseHTML(t, `<html><body>
<section class="elementor-section elementor-top-section">
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="https://govolunteerhcmc.vn/a/">First</a></h3></article>
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="https://govolunteerhcmc.vn/a/">Second</a></h3>
    <div class="elementor-post__excerpt"><p>later</p></div></article>
</section>
</body></html>`)

	sections := ExtractSections(doc, DefaultBaseURL)

	require.Len(t, sections, 1)
	require.Len(t, sections[0].Articles, 1)
	assert.Equal(t, "First", sections[0].Articles[0].Title)
	assert.Nil(t, sections[0].Articles[0].Excerpt)
}

func TestExtractSections_DuplicateCategoryKeepsFirst(t *testing.T) {
	doc := parseHTML(t, `<html><body>
<section class="elementor-section elementor-top-section">
  <h2 class="elementor-heading-title elementor-size-default">Sự kiện</h2>
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="https://govolunteerhcmc.vn/1/">One</a></h3></article>
</section>
<section class="elementor-section elementor-top-section">
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="https://govolunteerhcmc.vn/2/">Two</a></h3></article>
</section>
<section class="elementor-section elementor-top-section">
  <h2 class="elementor-heading-title elementor-size-default">Sự kiện</h2>
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="https://govolunteerhcmc.vn/3/">Three</a></h3></article>
</section>
<section class="elementor-section elementor-top-section">
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="https://govolunteerhcmc.vn/4/">Four</a></h3></article>
</section>
</body></html>`)

	sections := ExtractSections(doc, DefaultBaseURL)

	require.Len(t, sections, 2)
	assert.Equal(t, "Sự kiện", sections[0].Category)
	assert.Equal(t, "One", sections[0].Articles[0].Title)
	assert.Equal(t, DefaultCategory, sections[1].Category)
	assert.Equal(t, "Two", sections[1].Articles[0].Title)
}

func TestExtractSections_CrossDomainOnlySectionDropped(t *testing.T) {
	doc := parseHTML(t, `<html><body>
<section class="elementor-section elementor-top-section">
  <h2 class="elementor-heading-title elementor-size-default">Đối tác</h2>
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="https://partner.example.com/x/">X</a></h3></article>
  <article class="elementor-post"><h3 class="elementor-post__title"><a href="/relative/">Y</a></h3></article>
</section>
</body></html>`)

	assert.Empty(t, ExtractSections(doc, DefaultBaseURL))
}

func TestExtractSections_NoSections(t *testing.T) {
	doc := parseHTML(t, `<html><body><p>Bảo trì</p></body></html>`)

	sections := ExtractSections(doc, DefaultBaseURL)
	assert.NotNil(t, sections)
	assert.Empty(t, sections)
}

func TestExtractContent(t *testing.T) {
	doc := parseHTML(t, loadFixture(t, "article.html"))

	html, err := ExtractContent(doc)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, `<div class="elementor-widget-container">`))
	assert.True(t, strings.HasSuffix(html, "</div>"))
	assert.Contains(t, html, "<p>Chiến dịch <strong>Mùa hè xanh</strong> đã chính thức khởi động.</p>")
	assert.NotContains(t, html, "Menu")
	assert.NotContains(t, html, "Footer")
}

func TestExtractContent_WidgetWithoutContainer(t *testing.T) {
	doc := parseHTML(t, `<html><body><div class="elementor-widget-theme-post-content"><p>Nội dung</p></div></body></html>`)

	html, err := ExtractContent(doc)
	require.NoError(t, err)
	assert.Equal(t, `<div class="elementor-widget-theme-post-content"><p>Nội dung</p></div>`, html)
}

func TestExtractContent_Missing(t *testing.T) {
	doc := parseHTML(t, `<html><body><article><p>Không có widget</p></article></body></html>`)

	html, err := ExtractContent(doc)
	assert.ErrorIs(t, err, ErrContentNotFound)
	assert.Empty(t, html)
}
