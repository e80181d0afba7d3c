package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError signals malformed or missing input. It is raised before
// any business rule is consulted and always maps to a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// BusinessLogicError signals a business rule violation: wrong role, wrong
// status for the requested operation, unauthorized access. It carries an
// HTTP-style status hint (400 or 403) for the transport layer.
type BusinessLogicError struct {
	Message    string
	StatusCode int
}

func (e *BusinessLogicError) Error() string {
	return e.Message
}

func NewBusinessLogic(statusCode int, format string, args ...interface{}) *BusinessLogicError {
	return &BusinessLogicError{Message: fmt.Sprintf(format, args...), StatusCode: statusCode}
}

func BadRequest(format string, args ...interface{}) *BusinessLogicError {
	return NewBusinessLogic(http.StatusBadRequest, format, args...)
}

func Forbidden(format string, args ...interface{}) *BusinessLogicError {
	return NewBusinessLogic(http.StatusForbidden, format, args...)
}

// PreconditionError signals an internal contract violation, e.g. accepting a
// driver request that is not fully approved. It indicates a caller bug, not a
// user mistake, and is kept distinct from BusinessLogicError on purpose.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func NewPrecondition(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// StatusCode resolves the HTTP status hint for an error. Unknown errors are
// treated as internal.
func StatusCode(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var ble *BusinessLogicError
	if errors.As(err, &ble) {
		return ble.StatusCode
	}
	return http.StatusInternalServerError
}
