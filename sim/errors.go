package sim

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks. The concrete error types below
// unwrap to these.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrEmptyTable       = errors.New("empty result table")
	ErrMissingBaseline  = errors.New("missing baseline scenario")
)

// InvalidParameterError reports a malformed distribution bound, a
// non-positive sample count, or any other rejected input. It is fatal to
// the scenario that produced it, never to sibling scenarios.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }

func invalidParam(field, format string, args ...any) error {
	return &InvalidParameterError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// EmptyTableError is returned when statistics are requested on a table
// with zero records.
type EmptyTableError struct {
	Op string
}

func (e *EmptyTableError) Error() string {
	return fmt.Sprintf("%s: result table has no records", e.Op)
}

func (e *EmptyTableError) Unwrap() error { return ErrEmptyTable }

// MissingBaselineError is returned when a comparison needs the baseline
// scenario and it is absent (or its run failed).
type MissingBaselineError struct {
	Baseline  string
	Available []string
}

func (e *MissingBaselineError) Error() string {
	return fmt.Sprintf("baseline scenario %q not found; available: [%s]",
		e.Baseline, strings.Join(e.Available, ", "))
}

func (e *MissingBaselineError) Unwrap() error { return ErrMissingBaseline }
