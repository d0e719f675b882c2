package candidate

import (
	"errors"
	"fmt"
)

// Code classifies a failed call for the caller.
type Code string

const (
	CodeUnauthenticated Code = "unauthenticated"
	CodeInvalidArgument Code = "invalid_argument"
	CodeInternal        Code = "internal"
)

const (
	msgUnauthenticated = "The function must be called while authenticated."
	msgMissingArgument = "The function must be called with all arguments having values"
	msgCodeMismatch    = "The exam code provided did not match our records"
	msgInternal        = "Something went wrong"
)

// Error is returned by every callable operation. Message is safe to show to
// the caller; Err is kept for logs only.
type Error struct {
	Code    Code
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf reports the classification of err; unclassified errors are internal.
func CodeOf(err error) Code {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return CodeInternal
}

func unauthenticated() *Error {
	return &Error{Code: CodeUnauthenticated, Message: msgUnauthenticated}
}

func missingArgument(field string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: msgMissingArgument, Field: field}
}

func codeMismatch() *Error {
	return &Error{Code: CodeInvalidArgument, Message: msgCodeMismatch, Field: "examCode"}
}

func internal(op string, err error) *Error {
	return &Error{Code: CodeInternal, Message: msgInternal, Err: fmt.Errorf("%s: %w", op, err)}
}
