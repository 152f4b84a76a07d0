package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocjay1/stmt-engine/internal/engine"
	"github.com/rocjay1/stmt-engine/internal/models"
)

// CalculateRequest is the payload for a synchronous single-account
// calculation.
type CalculateRequest struct {
	Account   models.Account    `json:"account"`
	Movements []models.Movement `json:"movements"`
	Promotion *models.Promotion `json:"promotion,omitempty"`
}

// HandleCalculate runs the statement calculation for one account and
// returns the result synchronously.
func (d *Dependencies) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("calculate attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("failed to decode calculate request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Account.ID == "" {
		WriteError(w, http.StatusBadRequest, "Missing account id")
		return
	}

	result, err := d.Engine.Calculate(engine.Input{
		Account:   req.Account,
		Movements: req.Movements,
		Promotion: req.Promotion,
	})
	if err != nil {
		var missing *engine.MissingFieldError
		if errors.As(err, &missing) {
			slog.Warn("calculation rejected", "account_id", missing.AccountID, "field", missing.Field)
			WriteError(w, http.StatusUnprocessableEntity, missing.Error())
			return
		}
		slog.Error("calculation failed", "account_id", req.Account.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Calculation failed")
		return
	}

	slog.Info("calculation complete",
		"account_id", result.AccountID,
		"closing_balance", result.ClosingBalance.String(),
		"flagged", result.FlaggedForAudit(),
	)
	WriteJSON(w, http.StatusOK, result)
}
