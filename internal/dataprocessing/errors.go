package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTable is returned when a table has no header row.
var ErrEmptyTable = errors.New("table has no header row")

// Resolution is the outcome of matching one canonical field.
type Resolution struct {
	Field  string `json:"field"`
	Column string `json:"column,omitempty"`
	Found  bool   `json:"found"`
}

// SchemaError reports required canonical fields that could not be located in
// a table's headers.
type SchemaError struct {
	Missing  []string     `json:"missing"`
	Attempts []Resolution `json:"attempts"`
	Headers  []string     `json:"headers"`
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	attempts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Found {
			attempts = append(attempts, fmt.Sprintf("%s=%s", a.Field, a.Column))
		} else {
			attempts = append(attempts, a.Field+"=<none>")
		}
	}
	return fmt.Sprintf("missing required columns [%s] (resolved: %s; headers: %s)",
		strings.Join(e.Missing, ", "),
		strings.Join(attempts, ", "),
		strings.Join(e.Headers, ", "))
}

// CellError reports a cell that could not be converted to its canonical type.
// Row is 1-based over data rows, excluding the header.
type CellError struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Cause  string `json:"cause"`
}

// Error implements the error interface
func (e *CellError) Error() string {
	return fmt.Sprintf("row %d column %q: %s (value %q)", e.Row, e.Column, e.Cause, e.Value)
}
