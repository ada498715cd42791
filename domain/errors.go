package domain

import "errors"

// ErrorKind classifies domain errors so the HTTP layer can pick a status
// without knowing every sentinel.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindConflict      ErrorKind = "conflict"
	KindNotFound      ErrorKind = "not_found"
	KindPrecondition  ErrorKind = "precondition"
	KindForbidden     ErrorKind = "forbidden"
	KindUnauthorized  ErrorKind = "unauthorized"
	KindConfiguration ErrorKind = "configuration"
)

func (k ErrorKind) Error() string { return string(k) }

type kindError struct {
	kind    ErrorKind
	message string
}

func (e *kindError) Error() string { return e.message }

func (e *kindError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.kind
}

func Validation(message string) error    { return &kindError{KindValidation, message} }
func Conflict(message string) error      { return &kindError{KindConflict, message} }
func NotFound(message string) error      { return &kindError{KindNotFound, message} }
func Precondition(message string) error  { return &kindError{KindPrecondition, message} }
func Forbidden(message string) error     { return &kindError{KindForbidden, message} }
func Unauthorized(message string) error  { return &kindError{KindUnauthorized, message} }
func Configuration(message string) error { return &kindError{KindConfiguration, message} }

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) ErrorKind {
	for _, k := range []ErrorKind{
		KindValidation, KindConflict, KindNotFound, KindPrecondition,
		KindForbidden, KindUnauthorized, KindConfiguration,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ""
}

// FieldError ties a validation failure to the request field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func NewFieldError(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }
