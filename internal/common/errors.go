package common

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType classifies pipeline errors by the stage that produced them.
type ErrorType string

const (
	// ErrorTypeConfiguration for configuration-related errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeValidation for validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeRetrieval for ticket retrieval failures; fatal to the run
	ErrorTypeRetrieval ErrorType = "retrieval"
	// ErrorTypeGateway for language-model call failures; recovered per ticket
	ErrorTypeGateway ErrorType = "gateway"
	// ErrorTypeExtraction for structured-response parse failures; recovered per ticket
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeRender for document-write failures; fatal after analysis
	ErrorTypeRender ErrorType = "render"
	// ErrorTypeStorage for archive/persistence errors; never fatal to a run
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeInternal for internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// PipelineError is a structured error with stage context.
type PipelineError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Cause     error                  `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Type, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

// NewError creates a new PipelineError
func NewError(errorType ErrorType, code, message string) *PipelineError {
	return &PipelineError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *PipelineError {
	return NewError(ErrorTypeConfiguration, code, message)
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *PipelineError {
	return NewError(ErrorTypeValidation, code, message)
}

// NewRetrievalError creates a retrieval error
func NewRetrievalError(code, message string) *PipelineError {
	return NewError(ErrorTypeRetrieval, code, message)
}

// NewGatewayError creates a gateway error
func NewGatewayError(code, message string) *PipelineError {
	return NewError(ErrorTypeGateway, code, message)
}

// NewExtractionError creates an extraction error
func NewExtractionError(code, message string) *PipelineError {
	return NewError(ErrorTypeExtraction, code, message)
}

// NewRenderError creates a render error
func NewRenderError(code, message string) *PipelineError {
	return NewError(ErrorTypeRender, code, message)
}

// NewStorageError creates a storage error
func NewStorageError(code, message string) *PipelineError {
	return NewError(ErrorTypeStorage, code, message)
}

// WrapError wraps an existing error with PipelineError context
func WrapError(err error, errorType ErrorType, code, message string) *PipelineError {
	return &PipelineError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Cause:     err,
	}
}

// IsErrorType reports whether err is a PipelineError of the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type == errorType
	}
	return false
}
