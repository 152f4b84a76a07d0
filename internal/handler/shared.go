package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocjay1/stmt-engine/internal/engine"
)

// Dependencies holds the engine and services required by the handlers.
type Dependencies struct {
	Engine   *engine.Engine
	Database DatabaseClient
	Blob     BlobClient
	Queue    QueueClient
	Email    EmailClient

	// AuditRecipients receive the audit summary after queue processing.
	AuditRecipients []string
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
