package padron

import (
	"fmt"
	"strings"
)

// FileParseError reports a template or roster file that could not be read.
// It is fatal to the current run.
type FileParseError struct {
	File  string
	Cause string
	Err   error
}

func (e *FileParseError) Error() string {
	return fmt.Sprintf("cannot read %s: %s", e.File, e.Cause)
}

func (e *FileParseError) Unwrap() error { return e.Err }

func newFileParseError(file string, err error) *FileParseError {
	return &FileParseError{File: file, Cause: err.Error(), Err: err}
}

// LookupError reports a failed identifier lookup batch. Reconciliation keeps
// no partial state when it occurs.
type LookupError struct {
	Batch int
	Size  int
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("identifier lookup batch %d (%d identifiers) failed: %v", e.Batch, e.Size, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// RowValidationError reports a record that is missing required fields at
// create time. Missing lists the field names in validation order.
type RowValidationError struct {
	Row     int
	Missing []string
}

func (e *RowValidationError) Error() string {
	return fmt.Sprintf("row %d: missing required fields: %s", e.Row, strings.Join(e.Missing, ", "))
}

// PersistenceError reports a create or update rejected by the record writer.
type PersistenceError struct {
	Row int
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("row %d: %s failed: %v", e.Row, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
