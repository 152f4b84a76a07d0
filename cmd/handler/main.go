package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rocjay1/stmt-engine/internal/engine"
	"github.com/rocjay1/stmt-engine/internal/handler"
	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/rocjay1/stmt-engine/internal/services"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// defaultProduct resolves the default card product from the environment.
func defaultProduct() models.CardProduct {
	switch strings.ToUpper(os.Getenv("DEFAULT_CARD_PRODUCT")) {
	case string(models.ProductPrime360):
		return models.ProductPrime360
	default:
		return models.ProductPrime365
	}
}

// auditRecipients parses the comma-separated AUDIT_RECIPIENTS variable.
func auditRecipients() []string {
	raw := os.Getenv("AUDIT_RECIPIENTS")
	if raw == "" {
		return nil
	}
	var recipients []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	return recipients
}

func main() {
	// Initialize Services
	dbService, err := services.NewDatabaseService()
	if err != nil {
		slog.Error("Failed to init DatabaseService", "error", err)
		os.Exit(1)
	}

	blobService, err := services.NewBlobService()
	if err != nil {
		slog.Error("Failed to init BlobService", "error", err)
		os.Exit(1)
	}

	queueService, err := services.NewQueueService()
	if err != nil {
		slog.Error("Failed to init QueueService", "error", err)
		os.Exit(1)
	}

	deps := &handler.Dependencies{
		Engine:          engine.New(defaultProduct()),
		Database:        dbService,
		Blob:            blobService,
		Queue:           queueService,
		AuditRecipients: auditRecipients(),
	}

	// The audit email is best effort; everything else works without it.
	emailService, err := services.NewEmailService(nil)
	if err != nil {
		slog.Warn("Failed to init EmailService (continuing anyway)", "error", err)
	} else {
		deps.Email = emailService
	}

	// Router
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("POST /api/calculate", deps.HandleCalculate)
	mux.HandleFunc("POST /api/upload", deps.HandleUpload)
	mux.HandleFunc("GET /api/results", deps.HandleResults)

	// Adapter for HTTP Trigger (since enableForwardingHttpRequest is false)
	mux.HandleFunc("/HttpTrigger", deps.HandleHttpTrigger(mux))

	// Use simpler path matching for ProcessQueue to avoid method mismatch issues
	mux.HandleFunc("/ProcessQueue", deps.ProcessQueue)

	// Catch-all handler for unmatched requests
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		slog.Warn("unmatched request", "method", r.Method, "path", r.URL.Path)
		http.NotFound(w, r)
	})

	// Health check (optional, good for debugging)
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Get port from environment or default to 8080
	port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT")
	if port == "" {
		port = "8080"
	}

	// Wrap mux with logging middleware
	loggedMux := loggingMiddleware(mux)

	slog.Info("Starting server", "port", port, "default_product", string(defaultProduct()))
	if err := http.ListenAndServe(":"+port, loggedMux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		slog.Info("request completed", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", duration)
	})
}
