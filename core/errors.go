package core

import "github.com/pkg/errors"

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
		return ""
	}
	return err.Err.Error()
}

// notConfigured is returned by services whose upstream credentials are missing.
type notConfigured struct {
	message string
}

func NotConfigured(msg string) error {
	return &notConfigured{message: msg}
}

func (nc notConfigured) Error() string {
	return nc.message
}

func IsNotConfigured(err error) bool {
	_, ok := errors.Cause(err).(*notConfigured)
	return ok
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
