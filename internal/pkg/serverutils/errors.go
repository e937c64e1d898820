package serverutils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies application failures so each maps to a distinct HTTP
// status and a distinct "what should the caller do" message.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindInvalidInput
	KindInvalidState
	KindValidationFailed
	KindRenderFailed
	KindTimeout
	KindModelFatal
	KindInternal
)

// AppError is the typed error surfaced across operation boundaries. Failures
// are recovered at the boundary; none are fatal to the process.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func ValidationFailed(message string, err error) *AppError {
	return &AppError{Kind: KindValidationFailed, Message: message, Err: err}
}

func RenderFailed(message string, err error) *AppError {
	return &AppError{Kind: KindRenderFailed, Message: message, Err: err}
}

func Timeout(message string, err error) *AppError {
	return &AppError{Kind: KindTimeout, Message: message, Err: err}
}

func ModelFatal(message string, err error) *AppError {
	return &AppError{Kind: KindModelFatal, Message: message, Err: err}
}

// AsAppError unwraps err into an *AppError, or wraps it as KindInternal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindInternal, Message: "internal error", Err: err}
}

// StatusCode maps an error kind to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return 404
	case KindInvalidInput, KindInvalidState, KindValidationFailed:
		return 400
	case KindRenderFailed, KindModelFatal, KindInternal:
		return 500
	case KindTimeout:
		return 504
	default:
		return 500
	}
}
