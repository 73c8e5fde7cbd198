package records

import "strings"

// Column names. Every dataset needs NameColumn and IDColumn; the certificate
// sheet also carries the PDF request columns.
const (
	NameColumn         = "User_Name"
	IDColumn           = "CCCD"
	EmailColumn        = "Email"
	PDFRequestedColumn = "PDF_Requested"
)

// Table is a header-indexed view over spreadsheet rows.
type Table struct {
	dataset string
	headers []string
	index   map[string]int
	rows    [][]string
}

// NewTable validates the header row of rows. A table with no rows at all is
// empty rather than invalid.
func NewTable(dataset string, rows [][]string) (*Table, error) {
	t := &Table{dataset: dataset, index: make(map[string]int)}
	if len(rows) == 0 {
		return t, nil
	}

	t.headers = rows[0]
	for i, h := range t.headers {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	t.rows = rows[1:]

	if err := t.Require(NameColumn, IDColumn); err != nil {
		return nil, err
	}
	return t, nil
}

// Dataset returns the name the table was loaded under.
func (t *Table) Dataset() string {
	return t.dataset
}

// Headers returns the header row.
func (t *Table) Headers() []string {
	return t.headers
}

// Columns returns the distinct headers in the order they first appear.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.index))
	for i, h := range t.headers {
		if t.index[h] == i {
			cols = append(cols, h)
		}
	}
	return cols
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Column returns the index of header name.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Require returns a *SchemaError for the first missing column. An empty table
// has no schema to check.
func (t *Table) Require(columns ...string) error {
	if len(t.headers) == 0 {
		return nil
	}
	for _, c := range columns {
		if _, ok := t.index[c]; !ok {
			return &SchemaError{Dataset: t.dataset, Column: c}
		}
	}
	return nil
}

// MatchIndexes returns the data row indexes matching fullName and id.
// Rows too short to hold both columns never match.
func (t *Table) MatchIndexes(fullName, id string) []int {
	if len(t.headers) == 0 {
		return nil
	}

	nameCol := t.index[NameColumn]
	idCol := t.index[IDColumn]
	minLen := max(nameCol, idCol) + 1

	wantName := normalizeName(fullName)
	wantID := strings.TrimSpace(id)

	var matches []int
	for i, row := range t.rows {
		if len(row) < minLen {
			continue
		}
		if normalizeName(row[nameCol]) == wantName && strings.TrimSpace(row[idCol]) == wantID {
			matches = append(matches, i)
		}
	}
	return matches
}

// Match returns every matching row as a header to cell mapping. Cells past
// the end of a short row map to "".
func (t *Table) Match(fullName, id string) []map[string]string {
	idx := t.MatchIndexes(fullName, id)
	out := make([]map[string]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.fields(t.rows[i]))
	}
	return out
}

// fields maps headers to cells. When a header repeats, the last cell wins;
// Column still resolves to the first occurrence.
func (t *Table) fields(row []string) map[string]string {
	m := make(map[string]string, len(t.headers))
	for i, h := range t.headers {
		if i < len(row) {
			m[h] = row[i]
		} else {
			m[h] = ""
		}
	}
	return m
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
