package divelog

import "github.com/cockroachdb/errors"

type Error struct {
	Type    ErrorType
	Message string
	Base    error
}

func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Base != nil {
		return e.Base.Error()
	}
	return "divelog - no error message"
}

func (e Error) Unwrap() error {
	return e.Base
}

//go:generate stringer --type=ErrorType --output=errortype_string.go
type ErrorType byte

const (
	ErrUnknown ErrorType = iota
	// ErrNoOverlap - two sources share no temporal overlap; fatal to the
	// reconcile or intersection merge that discovered it.
	ErrNoOverlap
	// ErrMalformedSegment - a segment spec string failed validation; the
	// segment is skipped, the batch continues.
	ErrMalformedSegment
	// ErrRecordBudget / ErrRowBudget - accumulation soft-stops; partial
	// results are valid and these types only appear in logs, never as
	// returned errors.
	ErrRecordBudget
	ErrRowBudget
	// ErrDegenerateWindow - a rate window spans near-zero time; the rate is
	// clamped and iteration continues.
	ErrDegenerateWindow
)

func newDerivedError(t ErrorType, base error) error {
	return Error{Type: t, Message: base.Error(), Base: base}
}

func newSimpleError(t ErrorType, msg string) error {
	return Error{Type: t, Message: msg}
}

// ErrorTypeOf classifies err, unwrapping as needed. Errors from outside the
// package classify as ErrUnknown.
func ErrorTypeOf(err error) ErrorType {
	var e Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrUnknown
}
