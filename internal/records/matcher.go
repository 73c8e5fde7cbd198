package records

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/govolunteer/govolunteer-api/internal/logger"
)

// Source reads the raw rows of a dataset. ref identifies the dataset within
// the source, for example a spreadsheet id or a file name.
type Source interface {
	Rows(ctx context.Context, ref string) ([][]string, error)
}

// Dataset binds a record type to its location in a Source.
type Dataset struct {
	Type RecordType
	Ref  string
}

// Matcher looks volunteers up across datasets.
type Matcher struct {
	source   Source
	datasets []Dataset
}

// NewMatcher creates a Matcher over datasets, scanned in the given order.
func NewMatcher(source Source, datasets ...Dataset) *Matcher {
	return &Matcher{source: source, datasets: datasets}
}

// Load reads and validates one dataset.
func (m *Matcher) Load(ctx context.Context, t RecordType) (*Table, error) {
	ds, err := m.dataset(t)
	if err != nil {
		return nil, err
	}
	return m.load(ctx, ds)
}

// Lookup scans every dataset. An empty Result is not an error.
func (m *Matcher) Lookup(ctx context.Context, fullName, id string) (*Result, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("lookup", time.Since(start)) }()
	logger.IncrCounter("lookup.requests")

	result := NewResult()
	for _, ds := range m.datasets {
		recs, err := m.match(ctx, ds, fullName, id)
		if err != nil {
			logger.IncrCounter("lookup.errors")
			return nil, err
		}
		result.add(ds.Type, recs)
	}

	logger.Debug("Lookup finished", logger.Fields{
		"activities":   len(result.Activities),
		"certificates": len(result.Certificates),
	})
	return result, nil
}

// LookupType scans the dataset of type t only.
func (m *Matcher) LookupType(ctx context.Context, t RecordType, fullName, id string) ([]Record, error) {
	ds, err := m.dataset(t)
	if err != nil {
		return nil, err
	}
	return m.match(ctx, ds, fullName, id)
}

func (m *Matcher) match(ctx context.Context, ds Dataset, fullName, id string) ([]Record, error) {
	table, err := m.load(ctx, ds)
	if err != nil {
		return nil, err
	}

	columns := table.Columns()
	if _, ok := table.Column(RecordTypeField); ok {
		logger.Warn("Dataset column is reserved and dropped", logger.Fields{
			"dataset": ds.Type,
			"column":  RecordTypeField,
		})
		columns = slices.DeleteFunc(columns, func(c string) bool { return c == RecordTypeField })
	}

	rows := table.Match(fullName, id)
	recs := make([]Record, 0, len(rows))
	for _, fields := range rows {
		delete(fields, RecordTypeField)
		recs = append(recs, Record{Fields: fields, Columns: columns, Type: ds.Type})
	}
	return recs, nil
}

func (m *Matcher) load(ctx context.Context, ds Dataset) (*Table, error) {
	if m.source == nil {
		return nil, Unavailable(string(ds.Type), errors.New("no source configured"))
	}

	rows, err := m.source.Rows(ctx, ds.Ref)
	if err != nil {
		if errors.Is(err, ErrDataSourceUnavailable) {
			return nil, err
		}
		return nil, Unavailable(string(ds.Type), err)
	}

	table, err := NewTable(string(ds.Type), rows)
	if err != nil {
		logger.Error("Dataset failed validation", logger.Fields{"dataset": ds.Type}, err)
		return nil, err
	}
	return table, nil
}

func (m *Matcher) dataset(t RecordType) (Dataset, error) {
	for _, ds := range m.datasets {
		if ds.Type == t {
			return ds, nil
		}
	}
	return Dataset{}, fmt.Errorf("no dataset configured for %q", t)
}
