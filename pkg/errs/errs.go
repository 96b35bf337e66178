// Package errs provides the error taxonomy shared across LumiDB: a small
// status enum plus an error type that annotates instead of discarding the
// cause as it crosses layers.
package errs

import "fmt"

// Status classifies the outcome of a fallible LumiDB operation.
type Status int

const (
	StatusOK Status = iota
	StatusError
	StatusNotImplemented
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "Error"
	case StatusNotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is a status-carrying error. Outer layers annotate it with
// Annotate rather than replacing it, so the original message survives as
// a suffix of the final one.
type Error struct {
	Status Status
	Msg    string
	Cause  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Cause }

// New creates a StatusError with a formatted message.
func New(format string, args ...interface{}) *Error {
	return &Error{Status: StatusError, Msg: fmt.Sprintf(format, args...)}
}

// NotImplemented creates a StatusNotImplemented error.
func NotImplemented(format string, args ...interface{}) *Error {
	return &Error{Status: StatusNotImplemented, Msg: fmt.Sprintf(format, args...)}
}

// Annotate prepends context to err, preserving its Status if it has one.
// This is the Go-idiomatic replacement for the C++ Error::add_message
// pattern: "<context>: <inner message>".
func Annotate(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	prefix := fmt.Sprintf(format, args...)
	status := StatusError
	var se *Error
	if ok := As(err, &se); ok {
		status = se.Status
	}
	return &Error{
		Status: status,
		Msg:    fmt.Sprintf("%s: %s", prefix, err.Error()),
		Cause:  err,
	}
}

// As is a tiny errors.As shim kept local so this package has no import
// cycle with the standard errors package beyond what it already needs.
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// StatusOf returns the Status of err, defaulting to StatusError for plain
// errors that never carried one.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var se *Error
	if As(err, &se) {
		return se.Status
	}
	return StatusError
}
