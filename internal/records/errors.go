package records

import (
	"errors"
	"fmt"
)

var (
	// ErrDataSourceUnavailable reports a backing store that cannot be read,
	// including missing or rejected credentials.
	ErrDataSourceUnavailable = errors.New("data source unavailable")

	// ErrSchema reports a dataset without a required column.
	ErrSchema = errors.New("schema error")
)

// SchemaError names the dataset and the column it lacks.
type SchemaError struct {
	Dataset string
	Column  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset %q is missing required column %q", e.Dataset, e.Column)
}

// Is makes errors.Is(err, ErrSchema) true for every *SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Unavailable wraps err with ErrDataSourceUnavailable.
func Unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataSourceUnavailable, what, err)
}
