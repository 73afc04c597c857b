package domain

import (
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes, by origin
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeParseError        = "PARSE_ERROR"
	ErrCodeRenderError       = "RENDER_ERROR"
	ErrCodeEncodingError     = "ENCODING_ERROR"
	ErrCodeStorageError      = "STORAGE_ERROR"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeTransportError    = "TRANSPORT_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewParseError creates a parse error for a malformed analysis document
func NewParseError(source string, cause error) error {
	return NewDomainError(ErrCodeParseError, fmt.Sprintf("failed to parse analysis: %s", source), cause)
}

// NewRenderError creates a rendering error for a specific block kind
func NewRenderError(kind BlockKind, cause error) error {
	return NewDomainError(ErrCodeRenderError, fmt.Sprintf("renderer failed for kind: %s", kind), cause)
}

// NewEncodingError creates an issue payload encoding error
func NewEncodingError(message string, cause error) error {
	return NewDomainError(ErrCodeEncodingError, message, cause)
}

// NewStorageError creates a session storage error
func NewStorageError(message string, cause error) error {
	return NewDomainError(ErrCodeStorageError, message, cause)
}

// NewNetworkError creates a backend request error
func NewNetworkError(message string, cause error) error {
	return NewDomainError(ErrCodeNetworkError, message, cause)
}

// NewTransportError creates a progress stream error
func NewTransportError(message string, cause error) error {
	return NewDomainError(ErrCodeTransportError, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// ErrorCategory groups errors by what the user can do about them
type ErrorCategory string

const (
	ErrorCategoryInput     ErrorCategory = "input"
	ErrorCategoryConfig    ErrorCategory = "config"
	ErrorCategoryNetwork   ErrorCategory = "network"
	ErrorCategoryStorage   ErrorCategory = "storage"
	ErrorCategoryOutput    ErrorCategory = "output"
	ErrorCategoryRendering ErrorCategory = "rendering"
	ErrorCategoryUnknown   ErrorCategory = "unknown"
)

// CategorizedError wraps an error with its category and a user-facing message
type CategorizedError struct {
	Category ErrorCategory
	Message  string
	Original error
}

func (e *CategorizedError) Error() string {
	return e.Message
}

func (e *CategorizedError) Unwrap() error {
	return e.Original
}

// ErrorCategorizer classifies errors for CLI reporting
type ErrorCategorizer interface {
	// Categorize determines the category of an error
	Categorize(err error) *CategorizedError

	// GetRecoverySuggestions returns recovery suggestions for an error category
	GetRecoverySuggestions(category ErrorCategory) []string
}
