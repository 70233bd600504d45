package service

import "errors"

// ErrorKind classifies operation failures so the HTTP boundary can map them
// to a status without inspecting message text.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindConflict
	KindUpstream
)

// Error is the failure type returned by the service layer. NotFound covers
// both absent entities and entities owned by another user; callers cannot
// tell the difference.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrValidation builds a client validation error.
func ErrValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// ErrAuth builds an authorization error.
func ErrAuth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// ErrNotFound builds a not-found error.
func ErrNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// ErrConflict builds a conflict error.
func ErrConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// ErrUpstream wraps a failed blob or metadata store call.
func ErrUpstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// KindOf classifies any error; non-service errors are unexpected.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnexpected
}
