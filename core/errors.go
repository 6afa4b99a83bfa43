package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrorKind classifies the expected failures of a service operation.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindNotFound
	KindConflict
	KindPrecondition
	KindDependency
	KindInvalid
	KindUnauthenticated
)

var kindNames = map[ErrorKind]string{
	KindUnexpected:      "unexpected",
	KindNotFound:        "not_found",
	KindConflict:        "conflict",
	KindPrecondition:    "precondition_failed",
	KindDependency:      "dependency_blocked",
	KindInvalid:         "invalid",
	KindUnauthenticated: "unauthenticated",
}

func (k ErrorKind) String() string { return kindNames[k] }

// Error is a domain error: an expected outcome carrying a message safe to show to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func NewNotFoundError(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func NewConflictError(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func NewPreconditionError(msg string) *Error { return &Error{Kind: KindPrecondition, Message: msg} }

func NewDependencyError(msg string) *Error { return &Error{Kind: KindDependency, Message: msg} }

func NewInvalidError(msg string) *Error { return &Error{Kind: KindInvalid, Message: msg} }

// ErrUnexpected replaces any error that is not a domain error once it reaches a service boundary.
var ErrUnexpected = &Error{Kind: KindUnexpected, Message: "something went wrong, please try again later"}

// KindOf returns the ErrorKind of err.
// Validation errors are KindInvalid, anything unknown is KindUnexpected.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return KindInvalid
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return KindInvalid
	}
	return KindUnexpected
}

// Catch is called by services on every returned error.
// Domain and validation errors pass through, anything else is logged with msg and replaced by ErrUnexpected.
func Catch(logger Logger, err error, msg string) error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return vErrs
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr
	}
	if IsShutdown(err) {
		return err
	}

	if logger != nil {
		logger.Error(msg, errors.Wrap(err, msg))
	}
	return ErrUnexpected
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
		return "invalid input"
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
