package api

import (
	"encoding/json"
	"log"
	"net/http"

	apperr "github.com/kessel-run/starwars-api/internal/errors"
)

// httpException is the wire shape of every error response.
type httpException struct {
	Status  int                     `json:"status"`
	Message string                  `json:"message"`
	Type    string                  `json:"type"`
	Details []apperr.FieldViolation `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response body: %v", err)
	}
}

// writeError translates a domain error into the transport error body. Domain
// errors keep their message; anything unclassified is logged and returned as a
// generic 500 without internal detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Unexpected error handling %s %s: %v", r.Method, r.URL.Path, err)
		message = "Unexpected error"
	}

	writeJSON(w, status, httpException{
		Status:  status,
		Message: message,
		Type:    apperr.TypeOf(err),
		Details: apperr.GetDetails(err),
	})
}
