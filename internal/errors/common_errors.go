package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSourceRead     ErrorType = "SOURCE_READ"
	ErrTypeNoData         ErrorType = "NO_DATA"
	ErrTypeParsing        ErrorType = "PARSING"
	ErrTypeSchemaMismatch ErrorType = "SCHEMA_MISMATCH"
	ErrTypeStorage        ErrorType = "STORAGE"
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// Sentinels for errors.Is checks on the two conditions that fail a run.
var (
	ErrNoDataAvailable = stderrors.New("no data available")
	ErrSchemaMismatch  = stderrors.New("schema mismatch")
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Fatal reports whether the error type aborts a whole run.
func (e *AppError) Fatal() bool {
	switch e.Type {
	case ErrTypeNoData, ErrTypeSchemaMismatch, ErrTypeConfig, ErrTypeStorage:
		return true
	default:
		return false
	}
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewSourceReadError reports one unreadable or malformed input source.
// It is recoverable: the run continues with the remaining sources.
func NewSourceReadError(source string, cause error) *AppError {
	return NewAppError(ErrTypeSourceRead, fmt.Sprintf("failed to read source %q", source), cause).
		WithContext("source", source)
}

// NewNoDataError reports a run without a single readable source.
func NewNoDataError(message string) *AppError {
	return NewAppError(ErrTypeNoData, message, ErrNoDataAvailable)
}

// NewSchemaMismatchError reports template columns missing from the folded records.
func NewSchemaMismatchError(missing []string) *AppError {
	return NewAppError(ErrTypeSchemaMismatch,
		fmt.Sprintf("template columns not found in consolidated records: %v", missing),
		ErrSchemaMismatch).WithContext("missing_columns", missing)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsRecoverable reports whether err can be absorbed and reported instead of failing the run.
func IsRecoverable(err error) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return !appErr.Fatal()
	}
	return false
}
