package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotLoaded     ErrorType = "NOT_LOADED"
	ErrTypeMissingColumn ErrorType = "MISSING_COLUMN"
	ErrTypeNoData        ErrorType = "NO_DATA"
	ErrTypeNetwork       ErrorType = "NETWORK"
	ErrTypeParsing       ErrorType = "PARSING"
	ErrTypeStorage       ErrorType = "STORAGE"
	ErrTypeValidation    ErrorType = "VALIDATION"
	ErrTypeNotFound      ErrorType = "NOT_FOUND"
	ErrTypeConfig        ErrorType = "CONFIG"
)

// Sentinels for errors.Is. An *AppError matches the sentinel of its Type.
var (
	ErrNotLoaded      = stderrors.New("dataset not loaded")
	ErrColumnNotFound = stderrors.New("column not found")
	ErrNoData         = stderrors.New("no usable data")
	ErrNetwork        = stderrors.New("network failure")
	ErrConfig         = stderrors.New("invalid configuration")
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

// Is reports whether target is the sentinel matching this error's type.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrNotLoaded:
		return e.Type == ErrTypeNotLoaded
	case ErrColumnNotFound:
		return e.Type == ErrTypeMissingColumn
	case ErrNoData:
		return e.Type == ErrTypeNoData
	case ErrNetwork:
		return e.Type == ErrTypeNetwork
	case ErrConfig:
		return e.Type == ErrTypeConfig
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Resource returns the name of the missing resource recorded on the error, if any.
func (e *AppError) Resource() string {
	if v, ok := e.Context["resource"].(string); ok {
		return v
	}
	return ""
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

// Helper functions for common error types

// NewNotLoadedError reports an operation attempted before a dataset was loaded.
func NewNotLoadedError(operation string) *AppError {
	return NewAppError(ErrTypeNotLoaded, "load data first", nil).
		WithContext("operation", operation)
}

// NewMissingColumnError reports that a required column is absent.
func NewMissingColumnError(column string) *AppError {
	return NewAppError(ErrTypeMissingColumn, fmt.Sprintf("column %q not found", column), nil).
		WithContext("resource", column)
}

// NewNoDataError reports that a column exists but holds nothing usable.
func NewNoDataError(column, reason string) *AppError {
	return NewAppError(ErrTypeNoData, reason, nil).WithContext("resource", column)
}

// NewNetworkError creates a network-related error
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
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

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil).
		WithContext("resource", resource)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsSoft reports whether err is an informational condition (absent dataset,
// missing column, empty data) rather than a failure.
func IsSoft(err error) bool {
	return stderrors.Is(err, ErrNotLoaded) ||
		stderrors.Is(err, ErrColumnNotFound) ||
		stderrors.Is(err, ErrNoData)
}
