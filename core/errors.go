package core

import "github.com/pkg/errors"

// ErrorKind classifies a failed request outcome. The API maps each kind onto one HTTP status.
type ErrorKind int

const (
	KindUnauthenticated ErrorKind = iota + 1
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error is a typed per-request failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

// Is reports whether target is an *Error with the same kind and message.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == err.Kind && t.Message == err.Message
}

func NewUnauthenticatedError(msg string) error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func NewForbiddenError(msg string) error       { return &Error{Kind: KindForbidden, Message: msg} }
func NewNotFoundError(msg string) error        { return &Error{Kind: KindNotFound, Message: msg} }
func NewConflictError(msg string) error        { return &Error{Kind: KindConflict, Message: msg} }
func NewInvalidInputError(msg string) error    { return &Error{Kind: KindInvalidInput, Message: msg} }

// KindOf returns the ErrorKind carried by err (or by any error it wraps), 0 if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given ErrorKind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
