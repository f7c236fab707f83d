package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes for the failure taxonomy shared by handlers and the data layer.
const (
	CodeUnknown = iota
	CodeValidation
	CodeNotFound
	CodeInvalidStatus
	CodeInvalidFilter
	CodeFileTooLarge
	CodeUnsupportedFileType
	CodePersistence
	CodeStorage
)

// Error is a coded error carrying an optional wrapped cause.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.Err }

// WithCode creates a new coded error.
func WithCode(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCodef creates a new coded error with a formatted message.
func WithCodef(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message, preserving the chain.
func Wrap(code int, err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// GetCode returns the code of the outermost coded error, or CodeUnknown.
func GetCode(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// GetMessage returns the coded message without the wrapped cause.
func GetMessage(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code int) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}
