package models

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures so callers can switch on them.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidArgument
	ErrorTypeNotFound
	ErrorTypeNoPathFound
	ErrorTypeNoNewConnections
	ErrorTypeInternalInconsistency
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeInvalidArgument:
		return "invalid_argument"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeNoPathFound:
		return "no_path_found"
	case ErrorTypeNoNewConnections:
		return "no_new_connections"
	case ErrorTypeInternalInconsistency:
		return "internal_inconsistency"
	default:
		return "unknown"
	}
}

// ServiceError represents a service-specific error with type information
type ServiceError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func NewServiceError(errorType ErrorType, message string, cause error) *ServiceError {
	return &ServiceError{Type: errorType, Message: message, Cause: cause}
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Is matches any *ServiceError of the same Type, so the sentinels below work
// with errors.Is regardless of message.
func (e *ServiceError) Is(target error) bool {
	var other *ServiceError
	if !errors.As(target, &other) {
		return false
	}
	return other.Type == e.Type
}

var (
	ErrInvalidArgument       = &ServiceError{Type: ErrorTypeInvalidArgument, Message: "invalid argument"}
	ErrNotFound              = &ServiceError{Type: ErrorTypeNotFound, Message: "not found"}
	ErrNoPathFound           = &ServiceError{Type: ErrorTypeNoPathFound, Message: "no conversion path found"}
	ErrNoNewConnections      = &ServiceError{Type: ErrorTypeNoNewConnections, Message: "new connections between nodes already exist"}
	ErrInternalInconsistency = &ServiceError{Type: ErrorTypeInternalInconsistency, Message: "internal inconsistency"}
)

// ErrorTypeOf returns the ErrorType of the first ServiceError in err's chain.
func ErrorTypeOf(err error) ErrorType {
	var serviceError *ServiceError
	if errors.As(err, &serviceError) {
		return serviceError.Type
	}
	return ErrorTypeUnknown
}
