package internal

import (
	"errors"
	"fmt"

	"github.com/chrisconley/salesboard/internal/infra"
)

var (
	ErrEmptyValue   = errors.New("value is empty")
	ErrNoDigits     = errors.New("no digits")
	ErrMultipleSep  = errors.New("multiple decimal separators")
	ErrMisplacedNeg = errors.New("misplaced minus sign")
)

// DataError reports a single field that failed to normalize. The row is
// excluded from (or bucketed in) the affected aggregates and counted in the
// report diagnostics; it never aborts a run.
type DataError struct {
	Table string
	Row   int
	Field string
	Value string
	Err   error
}

func (e *DataError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s row %d: invalid %s %q: %v", e.Table, e.Row, e.Field, e.Value, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

func (e *DataError) EventType() infra.EventType { return infra.FieldRejected }

// AssemblyError reports a bundle section left empty because a table it needs
// is missing or empty.
type AssemblyError struct {
	Section string
	Table   string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("section %s: %s table is missing or empty", e.Section, e.Table)
}

func (e *AssemblyError) EventType() infra.EventType { return infra.SectionFailed }

// JoinAmbiguityWarning reports an organization name that occurs more than
// once. Joins use the first occurrence.
type JoinAmbiguityWarning struct {
	Organization string
	Occurrences  int
}

func (w *JoinAmbiguityWarning) Error() string {
	return fmt.Sprintf("organization %q occurs %d times, joining on the first", w.Organization, w.Occurrences)
}

func (w *JoinAmbiguityWarning) EventType() infra.EventType { return infra.JoinAmbiguityDetected }
