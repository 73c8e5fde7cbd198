package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/govolunteer/govolunteer-api/internal/news"
	"github.com/govolunteer/govolunteer-api/internal/records"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// WriteSections writes category sections.
func WriteSections(w io.Writer, sections []news.CategorySection, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, sections)
	}

	if len(sections) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return nil
	}

	total := 0
	for _, sec := range sections {
		fmt.Fprintf(w, "\n%s (%d):\n", sec.Category, len(sec.Articles))
		for _, a := range sec.Articles {
			writeArticleLine(w, a, verbose)
		}
		total += len(sec.Articles)
	}
	fmt.Fprintf(w, "\nTotal: %d articles across %d sections\n", total, len(sections))
	return nil
}

// WriteArticles writes a flat article list.
func WriteArticles(w io.Writer, articles []news.ArticleSummary, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, articles)
	}

	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return nil
	}

	for _, a := range articles {
		writeArticleLine(w, a, verbose)
	}
	fmt.Fprintf(w, "\nTotal: %d articles\n", len(articles))
	return nil
}

func writeArticleLine(w io.Writer, a news.ArticleSummary, verbose bool) {
	fmt.Fprintf(w, "  %s\n", a.Title)
	fmt.Fprintf(w, "       %s\n", a.Link)
	if verbose {
		fmt.Fprintf(w, "       Image: %s\n", a.ImageURL)
		if a.Excerpt != nil && *a.Excerpt != "" {
			fmt.Fprintf(w, "       Excerpt: %s\n", *a.Excerpt)
		}
	}
}

// WriteArticle writes one article's content.
func WriteArticle(w io.Writer, detail *news.ArticleDetail, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, detail)
	}
	_, err := fmt.Fprintln(w, detail.HTMLContent)
	return err
}

// WriteRecords writes lookup matches grouped by dataset.
func WriteRecords(w io.Writer, result *records.Result, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if result.Empty() {
		fmt.Fprintln(w, "No matching records found.")
		return nil
	}

	for _, group := range []struct {
		label string
		recs  []records.Record
	}{
		{"Activities", result.Activities},
		{"Certificates", result.Certificates},
	} {
		if len(group.recs) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d):\n", group.label, len(group.recs))
		for i, rec := range group.recs {
			fmt.Fprintf(w, "  #%d\n", i+1)
			writeFields(w, rec.Fields)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d records\n", len(result.Flatten()))
	return nil
}

// writeFields prints identity columns first, then the rest alphabetically.
func writeFields(w io.Writer, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != records.NameColumn && k != records.IDColumn {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	keys = append([]string{records.NameColumn, records.IDColumn}, keys...)

	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "       %s: %s\n", k, v)
	}
}
