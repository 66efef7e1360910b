// Package httpx provides HTTP response utilities using the API envelope.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// FieldError describes a single request validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Envelope is the uniform body of every API response.
type Envelope struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Data      any          `json:"data,omitempty"`
	Error     string       `json:"error,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
	Timestamp string       `json:"timestamp"`
}

var now = time.Now

func timestamp() string {
	return now().UTC().Format(time.RFC3339Nano)
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success sends a successful envelope carrying data.
func Success(w http.ResponseWriter, status int, message string, data any) {
	if message == "" {
		message = "Success"
	}
	JSON(w, status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// Fail sends an error envelope with a stable reason code.
func Fail(w http.ResponseWriter, status int, message, code string) {
	JSON(w, status, Envelope{
		Success:   false,
		Message:   message,
		Error:     code,
		Timestamp: timestamp(),
	})
}

// ValidationFailed sends a 422 envelope listing field errors.
func ValidationFailed(w http.ResponseWriter, fields []FieldError) {
	JSON(w, http.StatusUnprocessableEntity, Envelope{
		Success:   false,
		Message:   MsgValidation,
		Error:     CodeValidation,
		Errors:    fields,
		Timestamp: timestamp(),
	})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
