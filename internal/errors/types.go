package errors

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ErrorType represents the category of error. The CLI and the HTTP API
// translate it into exit messages and status codes.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypeCapacityExceeded
	ErrorTypeDuplicate
)

var typeNames = map[ErrorType]string{
	ErrorTypeValidation:       "validation",
	ErrorTypeNotFound:         "not_found",
	ErrorTypeDatabase:         "database",
	ErrorTypeInvalidInput:     "invalid_input",
	ErrorTypeTimeout:          "timeout",
	ErrorTypeCapacityExceeded: "capacity_exceeded",
	ErrorTypeDuplicate:        "duplicate",
}

// String returns the string representation of the error type
func (et ErrorType) String() string {
	if name, ok := typeNames[et]; ok {
		return name
	}
	return "unknown"
}

// IsUserError reports whether the type describes a rejected request rather
// than a failure of the system itself
func (et ErrorType) IsUserError() bool {
	switch et {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput,
		ErrorTypeCapacityExceeded, ErrorTypeDuplicate:
		return true
	default:
		return false
	}
}

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type. A target without a code
// matches every error of its type, so errors.Is(err, &AppError{Type: t})
// works as a category check.
func (e *AppError) Is(target error) bool {
	appErr, ok := target.(*AppError)
	if !ok || e.Type != appErr.Type {
		return false
	}
	return appErr.Code == "" || e.Code == appErr.Code
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext attaches a key/value pair, e.g. the id of the entity involved
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetContext retrieves context information from the error
func (e *AppError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// Fields returns the error's type, code and context as logrus fields
func (e *AppError) Fields() log.Fields {
	fields := log.Fields{
		"error_type": e.Type.String(),
		"error_code": e.Code,
	}
	for k, v := range e.Context {
		fields[k] = v
	}
	return fields
}
