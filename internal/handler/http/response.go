package http

import (
	"encoding/json"
	"net/http"
)

// Response helpers for consistent API responses
// Bodies are bare JSON records; errors use {"error": msg} and
// confirmations use {"message": msg}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a confirmation response
type MessageResponse struct {
	Message string `json:"message"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent, nothing more we can do
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondMessage sends a confirmation response
func respondMessage(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, MessageResponse{Message: message})
}
