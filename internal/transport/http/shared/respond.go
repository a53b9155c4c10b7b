// Package shared holds the JSON response helpers every handler uses, so
// error envelopes stay consistent across the HTTP surface.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "onsite/pkg/domain-errors"
)

// WriteJSON serializes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP error envelope.
// Uncoded errors surface as internal so raw failures never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{"error": string(code)})
}
