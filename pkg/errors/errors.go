package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidQuery       = errors.New("invalid query parameters")
	ErrInvalidTitleRecord = errors.New("invalid title record")
	ErrTitlesUnavailable  = errors.New("title data source unavailable")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidQuery       = "INVALID_QUERY"
	ErrCodeInvalidTitleRecord = "INVALID_TITLE_RECORD"
	ErrCodeDataSourceError    = "DATA_SOURCE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
)

// Wrap common errors with business context

// WrapInvalidRange signals a self-contradictory numeric range filter.
func WrapInvalidRange(minField, maxField string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidQuery,
		fmt.Sprintf("%s must not be greater than %s", minField, maxField),
		ErrInvalidQuery,
	)
}

// WrapInvalidSortDir signals a sort direction token outside asc/desc.
func WrapInvalidSortDir(dir string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidQuery,
		fmt.Sprintf("sortDir must be 'asc' or 'desc', got %q", dir),
		ErrInvalidQuery,
	)
}

// WrapInvalidQueryParam signals a query parameter that failed to parse.
func WrapInvalidQueryParam(param string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidQuery,
		fmt.Sprintf("invalid value for %s", param),
		err,
	)
}

// WrapInvalidTitleRecord signals a source record violating the data model
// invariants. Records are never silently dropped or fixed.
func WrapInvalidTitleRecord(identifier string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTitleRecord,
		fmt.Sprintf("title %q violates data model invariants", identifier),
		err,
	)
}

// WrapDataSourceError signals that the underlying title data could not be
// read, distinct from an empty result.
func WrapDataSourceError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDataSourceError,
		"failed to load titles from data source",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}

// IsValidation reports whether err is a caller-side validation failure.
func IsValidation(err error) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code == ErrCodeInvalidQuery
	}
	return false
}
