package analyses

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no analysis exists for an ID.
var ErrNotFound = errors.New("resume analysis not found")

// ClientInputError reports a missing, oversized or non-PDF upload.
type ClientInputError struct {
	Reason string
}

func (e *ClientInputError) Error() string { return e.Reason }

// ExtractionError reports a PDF that yielded no usable text.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return "could not extract text from PDF"
	}
	return "could not extract text from PDF: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// AnalyzerErrorKind classifies analyzer failures.
type AnalyzerErrorKind string

const (
	AnalyzerEmptyOutput     AnalyzerErrorKind = "empty_output"
	AnalyzerMalformedOutput AnalyzerErrorKind = "malformed_output"
	AnalyzerSchemaViolation AnalyzerErrorKind = "schema_violation"
	AnalyzerBackend         AnalyzerErrorKind = "backend"
	AnalyzerTimeout         AnalyzerErrorKind = "timeout"
	AnalyzerUnavailable     AnalyzerErrorKind = "unavailable"
)

// AnalyzerError reports a failed analysis. No partial result accompanies it.
type AnalyzerError struct {
	Kind AnalyzerErrorKind
	Err  error
}

func (e *AnalyzerError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("analysis failed (%s)", e.Kind)
	}
	return fmt.Sprintf("analysis failed (%s): %v", e.Kind, e.Err)
}

func (e *AnalyzerError) Unwrap() error { return e.Err }

// StoreError reports a persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
