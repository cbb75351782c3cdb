package wavefront

import (
	"errors"
	"fmt"
)

// Wavefront loading errors.
var (
	ErrFileNotFound       = errors.New("model file not found")
	ErrEmptyFile          = errors.New("model file is empty")
	ErrMalformedNumber    = errors.New("malformed numeric token")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrUnresolvedMaterial = errors.New("unresolved material name")
	ErrMaterialLibrary    = errors.New("material library unavailable")
)

// ParseError reports a problem on a single line of a model or material library file.
type ParseError struct {
	File    string // File name (empty when parsing from a reader)
	Line    int    // 1-based line number
	Keyword string // Line keyword, e.g. "f" or "Kd"
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Keyword, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Keyword, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// fatal reports whether a per-line error must abort loading.
func fatal(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}
