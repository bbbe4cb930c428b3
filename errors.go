package pdfnumber

import (
	"errors"
	"fmt"

	"github.com/lvillar/pdfnumber/interval"
	"github.com/lvillar/pdfnumber/reader"
)

// Sentinel errors for common numbering failure conditions.
var (
	ErrInvalidParam = errors.New("pdfnumber: invalid parameter")
	ErrOverlap      = interval.ErrOverlap
	ErrEncrypted    = reader.ErrEncrypted
	ErrCorrupted    = reader.ErrCorrupted
)

// PDFError represents an error that occurred during a specific operation.
// It wraps an underlying error and includes the operation name for context.
type PDFError struct {
	Op  string // operation name, e.g. "Plan", "Number"
	Err error  // underlying error
}

func (e *PDFError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdfnumber.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pdfnumber.%s: unknown error", e.Op)
}

func (e *PDFError) Unwrap() error {
	return e.Err
}

// newPDFError creates a new PDFError wrapping the given error with operation context.
func newPDFError(op string, err error) *PDFError {
	return &PDFError{Op: op, Err: err}
}

// IsUserError reports whether err was caused by the caller's input (range
// fields or document) rather than by a failure while building the output.
func IsUserError(err error) bool {
	var te *interval.TokenError
	return errors.Is(err, ErrOverlap) ||
		errors.Is(err, ErrInvalidParam) ||
		errors.Is(err, ErrEncrypted) ||
		errors.Is(err, ErrCorrupted) ||
		errors.Is(err, reader.ErrNoPages) ||
		errors.As(err, &te)
}
