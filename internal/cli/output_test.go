package cli

import (
	"bytes"
	"testing"

	"github.com/govolunteer/govolunteer-api/internal/news"
	"github.com/govolunteer/govolunteer-api/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestWriteSections_Text(t *testing.T) {
	sections := []news.CategorySection{{
		Category: "Sự kiện",
		Articles: []news.ArticleSummary{
			{Title: "Hiến máu", Link: "https://govolunteerhcmc.vn/hien-mau/", ImageURL: "img", Excerpt: news.StringPtr("Ngày hội")},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteSections(&buf, sections, FormatText, false))
	out := buf.String()
	assert.Contains(t, out, "Sự kiện (1):")
	assert.Contains(t, out, "  Hiến máu\n")
	assert.NotContains(t, out, "Excerpt")

	buf.Reset()
	require.NoError(t, WriteSections(&buf, nil, FormatText, false))
	assert.Equal(t, "No articles found.\n", buf.String())
}

func TestWriteArticles_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArticles(&buf, []news.ArticleSummary{{Title: "A&B", Link: "l", ImageURL: "i"}}, FormatJSON, false))
	assert.JSONEq(t, `[{"title":"A&B","link":"l","imageUrl":"i","excerpt":null}]`, buf.String())
	assert.Contains(t, buf.String(), "A&B")
}

func TestWriteRecords_Text(t *testing.T) {
	result := records.NewResult()
	result.Certificates = []records.Record{{
		Fields: map[string]string{"Course": "Sơ cứu", "CCCD": "1", "User_Name": "A", "Année": "2024"},
		Type:   records.TypeCertificate,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, result, FormatText))
	assert.Equal(t, "\nCertificates (1):\n"+
		"  #1\n"+
		"       User_Name: A\n"+
		"       CCCD: 1\n"+
		"       Année: 2024\n"+
		"       Course: Sơ cứu\n"+
		"\nTotal: 1 records\n", buf.String())
}
