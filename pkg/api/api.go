// Package api defines the JSON response envelope shared by all HTTP
// handlers.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrorBody is the standardized error payload.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Success writes data as a JSON response. A nil data writes the status code
// with no body.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	if data == nil {
		w.WriteHeader(statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Encode failures after the header is written can only be logged by the
	// caller's middleware; the status is already on the wire.
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: message, Code: code})
}

// Decode reads a JSON request body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// DecodeOptional reads a JSON request body like Decode, but leaves dst at its
// zero value when the body is empty. For endpoints whose body is entirely
// optional.
func DecodeOptional(r *http.Request, dst interface{}) error {
	if err := Decode(r, dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
