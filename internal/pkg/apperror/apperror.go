// Package apperror classifies domain failures so transports can map them
// without knowing every sentinel.
package apperror

import (
	"errors"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindState      Kind = "state"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindUnknown    Kind = "unknown"
)

// Error is a classified domain error. Sentinels are declared once per domain
// and compared with errors.Is, so each value must be created exactly once.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func State(code, message string) *Error {
	return New(KindState, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Forbidden(code, message string) *Error {
	return New(KindForbidden, code, message)
}

// KindOf reports the kind of the first classified error in err's chain.
// Field validation failures count as KindValidation.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return KindValidation
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
