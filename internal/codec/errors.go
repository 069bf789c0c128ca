package codec

import (
	"errors"
	"fmt"

	"github.com/roach88/ascent/internal/model"
)

var (
	// ErrUnencodable is returned when a value cannot be written without
	// breaking the row format.
	ErrUnencodable = errors.New("value cannot be encoded")

	// ErrMalformedRow is wrapped by every *MalformedRowError.
	ErrMalformedRow = errors.New("malformed row")

	// ErrIO is wrapped by every *IOError.
	ErrIO = errors.New("snapshot i/o failure")
)

// MalformedRowError reports a row that could not be decoded.
type MalformedRowError struct {
	Kind   model.Kind
	Path   string // empty when decoding from memory
	Line   int    // 1-based
	Reason string
}

func (e *MalformedRowError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: malformed %s row: %s", e.Path, e.Line, e.Kind, e.Reason)
	}
	return fmt.Sprintf("line %d: malformed %s row: %s", e.Line, e.Kind, e.Reason)
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}

// IOError reports a file system failure while reading or writing a snapshot.
type IOError struct {
	Op   string // "read", "write", "mkdir", ...
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both ErrIO and the underlying cause to errors.Is.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
