package httpx

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalidID rejects a path identifier that is not a uuid.
var ErrInvalidID = NewError(http.StatusBadRequest, CodeBadRequest, "Invalid id", ErrBadRequest)

// NewValidator returns a validator reporting fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Bind decodes the JSON body into target and validates it.
func Bind(r *http.Request, v *validator.Validate, target any) error {
	if err := DecodeJSON(r, target); err != nil {
		return fmt.Errorf("%w: malformed JSON body", ErrBadRequest)
	}
	return v.Struct(target)
}

// PathID returns the named chi URL parameter once it parses as a uuid.
func PathID(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", ErrInvalidID
	}
	return raw, nil
}
