package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeConfiguration    = "CONFIGURATION_ERROR"
	ErrCodeExtraction       = "EXTRACTION_FAILURE"
	ErrCodeEmbedding        = "EMBEDDING_FAILURE"
	ErrCodeIngestion        = "INGESTION_FAILURE"
	ErrCodeIndexUnavailable = "INDEX_UNAVAILABLE"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Configuration errors
var (
	ErrInvalidChunkParams = NewDomainError(ErrCodeConfiguration, "chunk overlap must satisfy 0 <= overlap < chunk size")
)

// Extraction errors
var (
	ErrNoExtractableText   = NewDomainError(ErrCodeExtraction, "no extractable text in document")
	ErrUnsupportedFileType = NewDomainError(ErrCodeExtraction, "unsupported file type")
)

// Ingestion errors
var (
	ErrNoChunksIndexed = NewDomainError(ErrCodeIngestion, "no chunks survived embedding")
)

// Access errors
var (
	ErrPermissionDenied = NewDomainError(ErrCodePermissionDenied, "caller does not own the document")
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "no chunks match the document")
	ErrMissingUserID    = NewDomainError(ErrCodeUnauthorized, "user id is required")
)

// Infrastructure errors
var (
	ErrTimeout = NewDomainError(ErrCodeTimeout, "operation deadline exceeded")
)

// NewIndexUnavailable wraps a schema or connection problem with the index.
func NewIndexUnavailable(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeIndexUnavailable, "index unavailable", err)
}
