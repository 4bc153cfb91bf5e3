// Package jsonkit is the wire codec: it turns domain entities into JSON
// responses and request bodies into validated entities. Decode collapses
// malformed JSON, wrong field types, and missing required fields into a
// single failure signal so the dispatcher only has to know "bad input".
package jsonkit

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	validator "github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Decode reads a JSON body into T and checks its required fields.
// The returned value is never partially usable on error.
func Decode[T any](body io.Reader) (T, error) {
	var entity T

	if err := json.NewDecoder(body).Decode(&entity); err != nil {
		var zero T
		return zero, fmt.Errorf("decode request body: %w", err)
	}

	if err := validate.Struct(entity); err != nil {
		var zero T
		return zero, fmt.Errorf("validate request body: %w", err)
	}

	return entity, nil
}

// WriteJSON serializes value with status 200 and the JSON content type.
// Only successful responses carry JSON; errors go through WriteText.
func WriteJSON(w http.ResponseWriter, value any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	return json.NewEncoder(w).Encode(value)
}

// WriteText writes a plain-text response. An empty body writes the
// status line only, which is how unmatched routes are rejected.
func WriteText(w http.ResponseWriter, statusCode int, body string) {
	w.WriteHeader(statusCode)
	if body != "" {
		_, _ = w.Write([]byte(body))
	}
}
