package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNetwork indicates a transport failure talking to the
	// directory backend or the geocoding collaborator
	ErrorTypeNetwork ErrorType = "NETWORK"

	// ErrorTypeGeocode indicates a reverse lookup that yielded no usable
	// address field
	ErrorTypeGeocode ErrorType = "GEOCODE"

	// ErrorTypeValidation indicates a required selection or field missing
	// before a mutating call
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypePersistence indicates a stored key that is corrupt or
	// unparseable
	ErrorTypePersistence ErrorType = "PERSISTENCE"

	// ErrorTypeUnauthorized indicates a missing or rejected session token
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Err:     err,
	}
}

// NewGeocodeError creates a new geocode error
func NewGeocodeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeGeocode,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePersistence,
		Message: message,
		Err:     err,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err is an AppError of the given type anywhere in
// its chain.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
