// Package response contains plain JSON response helpers for code that runs
// outside the ctx handler wrapper (middleware, the health endpoint).
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/vampware/pkg/apperr"
)

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON writes an arbitrary payload with the given status.
func JSON(w http.ResponseWriter, status int, body any) {
	write(w, status, body)
}

// Error writes a {"message": ...} body with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]string{"message": message})
}

// FromError maps err through the apperr taxonomy and writes the envelope.
func FromError(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	body := map[string]any{"status": e.Status(), "message": e.Error()}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	write(w, e.Status(), body)
}
