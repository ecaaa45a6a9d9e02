package utils

import (
	"encoding/json"
	"net/http"
)

// Stable machine-readable error kinds. Clients branch on these, never on the
// human-readable message.
const (
	ErrKindValidation        = "validation_error"
	ErrKindAuthorization     = "authorization_error"
	ErrKindInvalidTransition = "invalid_transition"
	ErrKindNotFound          = "not_found"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteError writes a failure envelope with a stable error kind.
func WriteError(w http.ResponseWriter, status int, kind, message string) {
	WriteJSON(w, status, APIResponse{Success: false, Message: message, Error: kind})
}
