package common

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeConfig         = "CONFIG_ERROR"
	CodeInput          = "INPUT_ERROR"
	CodeExtraction     = "EXTRACTION_FAILED"
	CodeMalformedField = "MALFORMED_FIELD"
	CodeExport         = "EXPORT_FAILED"
	CodeReconciliation = "RECONCILIATION_ERROR"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrValidation     = errors.New("validation failed")
	ErrExtraction     = errors.New("extraction failed")
	ErrMalformedField = fmt.Errorf("%w: malformed numeric field", ErrExtraction)
	ErrExport         = errors.New("export failed")
	ErrReconciliation = errors.New("reconciliation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// InputError rejects a request before any processing happens.
func InputError(message string) error {
	return NewAppError(CodeInput, message, ErrInvalidInput)
}

// ExtractionError reports that no extraction strategy produced an order.
// The code is MALFORMED_FIELD when any cause is a *MalformedFieldError.
func ExtractionError(message string, causes ...error) error {
	code := CodeExtraction
	for _, c := range causes {
		var mf *MalformedFieldError
		if errors.As(c, &mf) {
			code = CodeMalformedField
			break
		}
	}
	return NewAppError(code, message, errors.Join(append([]error{ErrExtraction}, causes...)...))
}

// ReconciliationError reports a store or query fault during reconciliation.
func ReconciliationError(message string, cause error) error {
	return NewAppError(CodeReconciliation, message, errors.Join(ErrReconciliation, cause))
}

// MalformedFieldError is returned when a numeric field holds text that is not a number.
// It matches both ErrMalformedField and ErrExtraction.
type MalformedFieldError struct {
	Field string
	Value any
	Cause error
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed numeric field %q (value %q): %v", e.Field, fmt.Sprint(e.Value), e.Cause)
}

func (e *MalformedFieldError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMalformedField}
	}
	return []error{ErrMalformedField, e.Cause}
}
