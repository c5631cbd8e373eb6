package kmeans

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmeans/blobstore"
	"github.com/hupe1980/kmeans/codec"
	"github.com/hupe1980/kmeans/internal/pointstore"
	"github.com/hupe1980/kmeans/internal/resource"
)

var (
	// ErrNotFound is returned when an input blob does not exist.
	ErrNotFound = blobstore.ErrNotFound

	// ErrInvalidDelimiter is returned when a delimiter cannot separate fields.
	ErrInvalidDelimiter = errors.New("invalid delimiter")

	// ErrMemoryLimitExceeded is returned by Sweep when a single run does not
	// fit the memory limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ErrDimensionMismatch indicates a point whose length differs from the
// dimensionality fixed by the first accepted point. It is only returned in
// strict mode; lenient ingestion drops such points.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	// Line is the 1-based input line, or the 1-based point index for New.
	// It is 0 for a query point.
	Line     int
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("dimension mismatch at %d: expected %d, got %d", e.Line, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrMalformedField indicates a field that is not a number. It is only
// returned in strict mode; lenient parsing substitutes the numeric prefix of
// the field, or 0.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMalformedField struct {
	Line  int
	Field int
	Value string
	cause error
}

func (e *ErrMalformedField) Error() string {
	return fmt.Sprintf("malformed field %d at line %d: %q", e.Field, e.Line, e.Value)
}

func (e *ErrMalformedField) Unwrap() error { return e.cause }

func translateError(err error, line int) error {
	if err == nil {
		return nil
	}

	var fe *codec.FieldError
	if errors.As(err, &fe) {
		return &ErrMalformedField{Line: fe.Line, Field: fe.Field, Value: fe.Value, cause: err}
	}
	var de *pointstore.DimensionError
	if errors.As(err, &de) {
		return &ErrDimensionMismatch{Line: line, Expected: de.Expected, Actual: de.Actual, cause: err}
	}

	return err
}
