// Package api implements the admin HTTP surface: JSON endpoints for
// loading zone data (auth mode) or forwarder entries (recursor mode),
// with a uniform 200-success / 422-validation-failure contract.
package api

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the body returned on any validation or operation
// failure: HTTP 422 with {"error_message": "<text>"}.
type errorResponse struct {
	ErrorMessage string `json:"error_message"`
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(errorResponse{ErrorMessage: err.Error()})
}

func writeOK(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
