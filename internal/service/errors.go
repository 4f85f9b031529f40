package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the catalog reports.  The values
// are part of the tool contract and appear verbatim in the envelope.
type ErrorKind string

const (
	// KindValidation marks malformed or out-of-range input.
	KindValidation ErrorKind = "ValidationError"
	// KindNotFound marks an id-keyed operation on a missing row.
	KindNotFound ErrorKind = "NotFoundError"
	// KindStorage marks a failure of the underlying store.
	KindStorage ErrorKind = "StorageError"
)

// Error is the only error type returned by MovieStore.  Field is set for
// validation failures and names the offending parameter.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindStorage {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err.  Errors that did not come from the
// catalog are treated as storage failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// FieldOf returns the failing field of a validation error, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

func validationError(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("movie with id %d not found", id)}
}

func storageError(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: op + " failed", Err: err}
}
