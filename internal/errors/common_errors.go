package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies failures raised below the HTTP layer
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeSource     ErrorType = "SOURCE"
)

// problemMapping is the HTTP rendering of each ErrorType
var problemMapping = map[ErrorType]struct {
	status  int
	problem string
}{
	ErrTypeParsing:    {http.StatusUnprocessableEntity, TypeParsing},
	ErrTypeValidation: {http.StatusBadRequest, TypeAppValidation},
	ErrTypeNotFound:   {http.StatusNotFound, TypeAppNotFound},
	ErrTypeSource:     {http.StatusBadGateway, TypeSource},
	ErrTypeStorage:    {http.StatusInternalServerError, TypeStorage},
	ErrTypeConfig:     {http.StatusInternalServerError, TypeConfig},
}

// AppError is a classified failure with an optional cause and key/value
// context such as the file or sheet involved.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext records key on the error and returns it for chaining
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// HTTPStatus is the response status for the error's type. Unknown types
// map to 500.
func (e *AppError) HTTPStatus() int {
	if m, ok := problemMapping[e.Type]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

func (e *AppError) problemType() string {
	if m, ok := problemMapping[e.Type]; ok {
		return m.problem
	}
	return TypeUnknownAppType
}

// IsType reports whether err wraps an *AppError of type t
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

func newAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewParsingError reports a document that could not be decoded
func NewParsingError(message string, cause error) *AppError {
	return newAppError(ErrTypeParsing, message, cause)
}

// NewStorageError reports a failure reading or writing local files
func NewStorageError(message string, cause error) *AppError {
	return newAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError reports an input that exists but cannot be used
func NewAppValidationError(message string) *AppError {
	return newAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError reports a missing resource as "<resource> not found"
func NewNotFoundError(resource string) *AppError {
	return newAppError(ErrTypeNotFound, resource+" not found", nil)
}

func NewConfigError(message string, cause error) *AppError {
	return newAppError(ErrTypeConfig, message, cause)
}

// NewSourceError reports a remote table source, such as Google Sheets,
// that failed to answer
func NewSourceError(message string, cause error) *AppError {
	return newAppError(ErrTypeSource, message, cause)
}
