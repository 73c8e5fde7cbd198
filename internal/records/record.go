package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RecordType tags the dataset a record came from.
type RecordType string

const (
	TypeActivity    RecordType = "activity"
	TypeCertificate RecordType = "certificate"
)

// ParseRecordType accepts the singular or plural dataset name.
func ParseRecordType(s string) (RecordType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "activity", "activities":
		return TypeActivity, nil
	case "certificate", "certificates":
		return TypeCertificate, nil
	default:
		return "", fmt.Errorf("unknown record type: %q", s)
	}
}

// RecordTypeField is the JSON key holding the record type.
const RecordTypeField = "record_type"

// Record is one matched row. Columns holds the sheet's header order and is
// the order Fields are encoded in; keys missing from Columns follow sorted.
// RecordTypeField is reserved and always carries Type.
type Record struct {
	Fields  map[string]string
	Columns []string
	Type    RecordType
}

func (r Record) keys() []string {
	keys := make([]string, 0, len(r.Fields))
	listed := make(map[string]bool, len(r.Columns))
	for _, c := range r.Columns {
		if _, ok := r.Fields[c]; ok && !listed[c] {
			listed[c] = true
			keys = append(keys, c)
		}
	}

	var rest []string
	for k := range r.Fields {
		if !listed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// MarshalJSON writes the row in column order followed by record_type.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, k := range r.keys() {
		if k == RecordTypeField {
			continue
		}
		if err := writeMember(&buf, k, r.Fields[k]); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	if err := writeMember(&buf, RecordTypeField, string(r.Type)); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key, value string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON is the inverse of MarshalJSON. Member order becomes Columns.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	fields := make(map[string]string)
	var columns []string
	var typ RecordType
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record: field %q: %w", key, err)
		}
		if key == RecordTypeField {
			typ = RecordType(value)
			continue
		}
		if _, dup := fields[key]; !dup {
			columns = append(columns, key)
		}
		fields[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	r.Fields, r.Columns, r.Type = fields, columns, typ
	return nil
}

// Result groups matches per dataset.
type Result struct {
	Activities   []Record `json:"activities"`
	Certificates []Record `json:"certificates"`
}

// NewResult returns a Result with non-nil lists.
func NewResult() *Result {
	return &Result{Activities: []Record{}, Certificates: []Record{}}
}

// Records returns the matches of one dataset.
func (r *Result) Records(t RecordType) []Record {
	switch t {
	case TypeActivity:
		return r.Activities
	case TypeCertificate:
		return r.Certificates
	default:
		return nil
	}
}

func (r *Result) add(t RecordType, recs []Record) {
	switch t {
	case TypeActivity:
		r.Activities = append(r.Activities, recs...)
	case TypeCertificate:
		r.Certificates = append(r.Certificates, recs...)
	}
}

// Empty reports whether no dataset matched.
func (r *Result) Empty() bool {
	return len(r.Activities) == 0 && len(r.Certificates) == 0
}

// Flatten returns activities followed by certificates.
func (r *Result) Flatten() []Record {
	out := make([]Record, 0, len(r.Activities)+len(r.Certificates))
	out = append(out, r.Activities...)
	return append(out, r.Certificates...)
}
