package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrBadRequest   = errors.New("bad request")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Reason codes carried in the envelope error field.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHENTICATED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
)

// Client facing messages.
const (
	MsgUnauthorized = "Authentication required"
	MsgForbidden    = "You do not have permission to perform this action"
	MsgNotFound     = "Resource not found"
	MsgValidation   = "Validation failed"
	MsgInternal     = "Internal server error"

	MsgCreated = "Resource created successfully"
	MsgUpdated = "Resource updated successfully"
	MsgDeleted = "Resource deleted successfully"
)

// Error binds an error to the status, code and message presented to clients.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with presentation details.
func NewError(status int, code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

// RespondError maps domain errors to HTTP responses using the envelope.
func RespondError(w http.ResponseWriter, err error) {
	var httpErr *Error
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &httpErr):
		Fail(w, httpErr.Status, httpErr.Message, httpErr.Code)
	case errors.As(err, &validationErrs):
		ValidationFailed(w, FieldErrors(validationErrs))
	case errors.Is(err, ErrNotFound):
		Fail(w, http.StatusNotFound, MsgNotFound, CodeNotFound)
	case errors.Is(err, ErrConflict):
		Fail(w, http.StatusConflict, err.Error(), CodeConflict)
	case errors.Is(err, ErrValidation):
		Fail(w, http.StatusUnprocessableEntity, err.Error(), CodeValidation)
	case errors.Is(err, ErrBadRequest):
		Fail(w, http.StatusBadRequest, err.Error(), CodeBadRequest)
	case errors.Is(err, ErrForbidden):
		Fail(w, http.StatusForbidden, MsgForbidden, CodeForbidden)
	case errors.Is(err, ErrUnauthorized):
		Fail(w, http.StatusUnauthorized, MsgUnauthorized, CodeUnauthorized)
	default:
		Fail(w, http.StatusInternalServerError, MsgInternal, CodeInternal)
	}
}

// FieldErrors converts validator errors into envelope field errors.
func FieldErrors(errs validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, FieldError{
			Field:   fieldName(fe),
			Message: fieldMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return fields
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return name + " must be at least " + fe.Param()
	case "max":
		return name + " must be at most " + fe.Param()
	case "gt":
		return name + " must be greater than " + fe.Param()
	case "gte":
		return name + " must be greater than or equal to " + fe.Param()
	case "oneof":
		return name + " must be one of: " + fe.Param()
	case "datetime":
		return "Invalid date format"
	default:
		return name + " is invalid"
	}
}
