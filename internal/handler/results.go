package handler

import (
	"log/slog"
	"net/http"

	"github.com/rocjay1/stmt-engine/internal/models"
)

// HandleResults retrieves the persisted calculation results for a period.
func (d *Dependencies) HandleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		slog.Warn("results attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		WriteError(w, http.StatusBadRequest, "Missing period query parameter")
		return
	}

	results, err := d.Database.GetResults(r.Context(), period)
	if err != nil {
		slog.Error("failed to get results", "period", period, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to get results")
		return
	}
	if results == nil {
		results = []*models.CalculationResult{}
	}

	slog.Info("retrieved results", "period", period, "count", len(results))
	WriteJSON(w, http.StatusOK, map[string]any{
		"period":  period,
		"results": results,
	})
}
