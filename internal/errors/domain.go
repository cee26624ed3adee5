package errors

import (
	"errors"
	"fmt"
)

// Domain errors shared by the normalization, analytics and forecasting
// packages.
var (
	// ErrEmptyInput is returned by aggregation and training operations
	// that received zero usable rows.
	ErrEmptyInput = errors.New("empty input: no usable rows")

	// ErrNoUsableRows is returned by the normalizer when every row of the
	// uploaded table was dropped during cleaning.
	ErrNoUsableRows = errors.New("no usable rows after normalization")
)

// SchemaError reports a column mapping that references a column the raw
// table does not have. It is surfaced to the caller immediately and never
// retried.
type SchemaError struct {
	Role   string // semantic role (date, product, quantity, price, sales)
	Column string // mapped column name that was not found
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: column %q mapped for role %s not found in table", e.Column, e.Role)
}

// NewSchemaError creates a SchemaError for the given role and column.
func NewSchemaError(role, column string) *SchemaError {
	return &SchemaError{Role: role, Column: column}
}

// IsEmptyInput reports whether err is (or wraps) ErrEmptyInput.
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}
