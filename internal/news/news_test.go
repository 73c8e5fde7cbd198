package news

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedSet_FirstWins(t *testing.T) {
	set := NewOrderedSet(func(p [2]string) string { return p[0] })

	assert.True(t, set.Add([2]string{"a", "first"}))
	assert.True(t, set.Add([2]string{"b", "only"}))
	assert.False(t, set.Add([2]string{"a", "second"}))

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("a"))
	assert.False(t, set.Contains("c"))
	assert.Equal(t, [][2]string{{"a", "first"}, {"b", "only"}}, set.Items())
}

func TestOrderedSet_ItemsNeverNil(t *testing.T) {
	set := NewOrderedSet(func(s string) string { return s })
	items := set.Items()
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestUniqueArticles(t *testing.T) {
	articles := []ArticleSummary{
		{Title: "One", Link: "https://example.com/1"},
		{Title: "Two", Link: "https://example.com/2"},
		{Title: "One again", Link: "https://example.com/1"},
	}

	got := UniqueArticles(articles)

	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Title)
	assert.Equal(t, "Two", got[1].Title)
}

func TestUniqueSections(t *testing.T) {
	sections := []CategorySection{
		{Category: "Tin tức", Articles: []ArticleSummary{{Link: "a"}}},
		{Category: "Sự kiện", Articles: []ArticleSummary{{Link: "b"}}},
		{Category: "Tin tức", Articles: []ArticleSummary{{Link: "c"}}},
	}

	got := UniqueSections(sections)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Articles[0].Link)
	assert.Equal(t, "Sự kiện", got[1].Category)
}

func TestArticleSummary_JSON(t *testing.T) {
	withExcerpt := ArticleSummary{Title: "T", Link: "L", ImageURL: "I", Excerpt: StringPtr("E")}
	data, err := json.Marshal(withExcerpt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"T","link":"L","imageUrl":"I","excerpt":"E"}`, string(data))

	data, err = json.Marshal(ArticleSummary{Title: "T", Link: "L", ImageURL: "I"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"T","link":"L","imageUrl":"I","excerpt":null}`, string(data))
}

func TestArticleDetail_JSON(t *testing.T) {
	data, err := json.Marshal(ArticleDetail{URL: "https://example.com/a", HTMLContent: "<div>x</div>"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"html_content":"<div>x</div>"}`, string(data))
}
