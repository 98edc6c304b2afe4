package services

import (
	"errors"
	"fmt"

	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/repositories"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeRateLimit    ErrorType = "rate_limit"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeExternal     ErrorType = "external"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables. They are templates: use wrap to attach a cause or
// details instead of mutating them.
var (
	// Not Found Errors
	ErrUserNotFound        = NewDomainError(ErrorTypeNotFound, "user not found", nil)
	ErrCategoryNotFound    = NewDomainError(ErrorTypeNotFound, "category not found", nil)
	ErrGenreNotFound       = NewDomainError(ErrorTypeNotFound, "genre not found", nil)
	ErrTitleNotFound       = NewDomainError(ErrorTypeNotFound, "title not found", nil)
	ErrReviewNotFound      = NewDomainError(ErrorTypeNotFound, "review not found", nil)
	ErrCommentNotFound     = NewDomainError(ErrorTypeNotFound, "comment not found", nil)
	ErrGroupNotFound       = NewDomainError(ErrorTypeNotFound, "group not found", nil)
	ErrPostNotFound        = NewDomainError(ErrorTypeNotFound, "post not found", nil)
	ErrPostCommentNotFound = NewDomainError(ErrorTypeNotFound, "post comment not found", nil)

	// Validation Errors
	ErrInvalidInput            = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidSlug             = NewDomainError(ErrorTypeValidation, "invalid slug format", nil)
	ErrDuplicateSlug           = NewDomainError(ErrorTypeValidation, "slug already exists", nil)
	ErrReservedUsername        = NewDomainError(ErrorTypeValidation, "username \"me\" is reserved", nil)
	ErrUsernameTaken           = NewDomainError(ErrorTypeValidation, "username is already taken", nil)
	ErrEmailTaken              = NewDomainError(ErrorTypeValidation, "email is already registered", nil)
	ErrInvalidConfirmationCode = NewDomainError(ErrorTypeValidation, "invalid or expired confirmation code", nil)
	ErrInvalidYear             = NewDomainError(ErrorTypeValidation, "year cannot be in the future", nil)
	ErrUnknownCategory         = NewDomainError(ErrorTypeValidation, "unknown category", nil)
	ErrUnknownGenre            = NewDomainError(ErrorTypeValidation, "unknown genre", nil)
	ErrDuplicateReview         = NewDomainError(ErrorTypeValidation, "you have already reviewed this title", nil)
	ErrSelfFollow              = NewDomainError(ErrorTypeValidation, "you cannot follow yourself", nil)
	ErrDuplicateFollow         = NewDomainError(ErrorTypeValidation, "you already follow this user", nil)
	ErrUnknownGroup            = NewDomainError(ErrorTypeValidation, "unknown group", nil)

	// Authentication Errors
	ErrUnauthorized = NewDomainError(ErrorTypeUnauthorized, "authentication credentials were not provided", nil)
	ErrInvalidToken = NewDomainError(ErrorTypeUnauthorized, "invalid authentication token", nil)
	ErrTokenExpired = NewDomainError(ErrorTypeUnauthorized, "authentication token expired", nil)

	// Permission Errors
	ErrForbidden = NewDomainError(ErrorTypeForbidden, "you do not have permission to perform this action", nil)

	// Rate Limit Errors
	ErrRateLimitExceeded = NewDomainError(ErrorTypeRateLimit, "rate limit exceeded", nil)

	// Conflict Errors
	ErrConcurrentUpdate = NewDomainError(ErrorTypeConflict, "concurrent update detected", nil)

	// Internal Errors
	ErrInternal      = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError = NewDomainError(ErrorTypeInternal, "database error", nil)
	ErrCacheFailed   = NewDomainError(ErrorTypeInternal, "cache operation failed", nil)

	// External Errors
	ErrMailDelivery = NewDomainError(ErrorTypeExternal, "could not deliver confirmation email", nil)
)

// wrap returns a fresh copy of template carrying cause
func wrap(template *DomainError, cause error) *DomainError {
	e := NewDomainError(template.Type, template.Message, cause)
	for k, v := range template.Details {
		e.Details[k] = v
	}
	return e
}

// FromAuthz translates an authorization denial into a DomainError.
// Anonymous denials become unauthorized, all others forbidden.
func FromAuthz(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, authz.ErrUnauthenticated):
		return wrap(ErrUnauthorized, err)
	case errors.Is(err, authz.ErrForbidden):
		return wrap(ErrForbidden, err)
	}
	return err
}

// fromRepository translates repository sentinels into DomainErrors.
// duplicate may be nil when the write cannot collide.
func fromRepository(err error, notFound, duplicate *DomainError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound) && notFound != nil:
		return wrap(notFound, err)
	case errors.Is(err, repositories.ErrDuplicate) && duplicate != nil:
		return wrap(duplicate, err)
	}
	return wrap(ErrDatabaseError, err)
}

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	return GetErrorType(err) == ErrorTypeRateLimit
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// IsExternalError checks if an error is an external dependency error
func IsExternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeExternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// GetErrorMessage returns the client-facing message of a domain error without
// its cause, or empty string if not a domain error
func GetErrorMessage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapValidation wraps an error as a validation error
func WrapValidation(message string, err error) error {
	return NewDomainError(ErrorTypeValidation, message, err)
}
