package api

import (
	"encoding/json"
	"net/http"
)

type Route struct {
	Path        string
	Method      string
	HTTPHandler http.HandlerFunc
	Name        string
}

type ErrorResponse struct {
	StatusCode  int    `json:"status_code"`
	ErrorString string `json:"error_message"`
}

// SubmitResponse is the client-facing payload of the submission
// endpoint. Status is always present; SubmissionID on accepted leads;
// RedirectURL on paid plans.
type SubmitResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, SubmitResponse{Status: "error", Message: message})
}
