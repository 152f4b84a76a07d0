package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

const uploadsContainer = "uploads"

// readFormFile reads one named CSV file from the multipart form.
func readFormFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s file: %w", field, err)
	}
	slog.Info("received file upload", "field", field, "filename", header.Filename, "size_bytes", len(bytes))
	return string(bytes), nil
}

// HandleUpload accepts a statement CSV bundle (accounts, movements and an
// optional promotions file) for a cut period, stages it in blob storage
// and enqueues a processing message.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("upload attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// 10MB limit
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Warn("failed to parse multipart form", "error", err, "max_size_mb", 10)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	period := r.FormValue("period")
	if period == "" {
		WriteError(w, http.StatusBadRequest, "Missing period")
		return
	}

	accountsCSV, err := readFormFile(r, "accounts")
	if err != nil {
		slog.Warn("failed to get accounts file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get accounts file")
		return
	}

	movementsCSV, err := readFormFile(r, "movements")
	if err != nil {
		slog.Warn("failed to get movements file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get movements file")
		return
	}

	// Promotions are optional; a period without promotions is valid.
	promotionsCSV, err := readFormFile(r, "promotions")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Warn("failed to get promotions file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get promotions file")
		return
	}

	uploadID := uuid.NewString()
	blobs := map[string]string{
		"accounts.csv":  accountsCSV,
		"movements.csv": movementsCSV,
	}
	if promotionsCSV != "" {
		blobs["promotions.csv"] = promotionsCSV
	}

	for name, content := range blobs {
		blobName := fmt.Sprintf("%s/%s", uploadID, name)
		if err := d.Blob.UploadText(r.Context(), uploadsContainer, blobName, content); err != nil {
			slog.Error("failed to upload blob", "blob_name", blobName, "container", uploadsContainer, "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
			return
		}
	}
	slog.Info("successfully staged upload bundle", "upload_id", uploadID, "period", period, "files", len(blobs))

	msg := map[string]string{
		"upload_id": uploadID,
		"period":    period,
	}

	if err := d.Queue.EnqueueMessage(r.Context(), "process-queue", msg); err != nil {
		slog.Error("failed to enqueue message", "queue", "process-queue", "upload_id", uploadID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue message: "+err.Error())
		return
	}
	slog.Info("successfully enqueued message", "queue", "process-queue", "upload_id", uploadID, "period", period)

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"upload_id": uploadID,
		"period":    period,
	})
}
