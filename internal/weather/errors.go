package weather

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the forecast core.
type ErrorKind string

const (
	KindInvalidArgument   ErrorKind = "invalid_argument"
	KindTransport         ErrorKind = "transport"
	KindUpstream          ErrorKind = "upstream"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindMalformedRecord   ErrorKind = "malformed_record"
	KindNotFound          ErrorKind = "not_found"
	KindOutOfRange        ErrorKind = "out_of_range"
	KindUnknown           ErrorKind = "unknown"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrTransport         = &Error{Kind: KindTransport}
	ErrUpstream          = &Error{Kind: KindUpstream}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrMalformedRecord   = &Error{Kind: KindMalformedRecord}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrOutOfRange        = &Error{Kind: KindOutOfRange}
)

// Error is the typed error returned by the parser, the collection and the
// retrieval client.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

// NewError builds an *Error of the given kind.
func NewError(kind ErrorKind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
