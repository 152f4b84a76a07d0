package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocjay1/stmt-engine/internal/csvparse"
	"github.com/rocjay1/stmt-engine/internal/engine"
	"github.com/rocjay1/stmt-engine/internal/models"
)

// invokeRequest represents the payload from Azure Functions Custom Handler.
type invokeRequest struct {
	Data     map[string]any `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// ProcessQueue handles the queue trigger for processing an uploaded
// statement bundle: download the staged CSVs, parse and assemble the
// batch, run the engine, persist the results and notify auditors of any
// flagged accounts.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	var invokeReq invokeRequest
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
		slog.Error("failed to unmarshal queue request", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return
	}

	queueItemVal, ok := invokeReq.Data["queueItem"]
	if !ok {
		queueItemVal, ok = invokeReq.Data["queueitem"]
		if !ok {
			WriteError(w, http.StatusBadRequest, "Missing queueItem in Data")
			return
		}
	}

	queueItemStr, ok := queueItemVal.(string)
	if !ok {
		WriteError(w, http.StatusBadRequest, "queueItem is not a string")
		return
	}

	var queueData map[string]string
	if err := json.Unmarshal([]byte(queueItemStr), &queueData); err != nil {
		slog.Error("failed to unmarshal queueItem", "error", err)
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid queueItem JSON: %v", err))
		return
	}

	uploadID := queueData["upload_id"]
	period := queueData["period"]
	if uploadID == "" || period == "" {
		slog.Warn("queue message missing upload_id or period", "queue_data", queueData)
		WriteError(w, http.StatusBadRequest, "Missing upload_id or period")
		return
	}

	slog.Info("processing queue item", "upload_id", uploadID, "period", period)

	accountsCSV, err := d.Blob.DownloadText(r.Context(), uploadsContainer, uploadID+"/accounts.csv")
	if err != nil {
		slog.Error("failed to download accounts CSV", "upload_id", uploadID, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download CSV: %v", err))
		return
	}

	movementsCSV, err := d.Blob.DownloadText(r.Context(), uploadsContainer, uploadID+"/movements.csv")
	if err != nil {
		slog.Error("failed to download movements CSV", "upload_id", uploadID, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download CSV: %v", err))
		return
	}

	// The promotions file is optional in the bundle.
	promotionsCSV, err := d.Blob.DownloadText(r.Context(), uploadsContainer, uploadID+"/promotions.csv")
	if err != nil {
		slog.Info("no promotions CSV in bundle", "upload_id", uploadID)
		promotionsCSV = ""
	}

	accounts, parseErrors := csvparse.ParseAccounts(accountsCSV)
	movements, movErrors := csvparse.ParseMovements(movementsCSV)
	parseErrors = append(parseErrors, movErrors...)

	var promotions []models.Promotion
	if promotionsCSV != "" {
		var promoErrors []string
		promotions, promoErrors = csvparse.ParsePromotions(promotionsCSV)
		parseErrors = append(parseErrors, promoErrors...)
	}

	batch, batchErrors := csvparse.BuildBatch(period, accounts, movements, promotions)
	parseErrors = append(parseErrors, batchErrors...)

	slog.Info("parsed statement bundle",
		"upload_id", uploadID,
		"accounts", len(batch.Accounts),
		"errors_count", len(parseErrors),
	)

	if len(batch.Accounts) == 0 {
		slog.Warn("bundle contains no valid accounts", "upload_id", uploadID, "errors_count", len(parseErrors))
		// Consume the message so it doesn't retry forever.
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := d.Database.SaveStatementBatch(r.Context(), batch); err != nil {
		slog.Error("failed to save statement batch", "period", period, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save statement batch: %v", err))
		return
	}

	inputs := make([]engine.Input, len(batch.Accounts))
	for i, acct := range batch.Accounts {
		inputs[i] = engine.Input{
			Account:   acct,
			Movements: batch.Movements[acct.ID],
			Promotion: batch.Promotions[acct.ID],
		}
	}

	items := d.Engine.CalculateBatch(inputs)

	var results []*models.CalculationResult
	flagged := make(map[string][]string)
	for _, item := range items {
		if item.Err != nil {
			slog.Warn("account calculation failed", "account_id", item.AccountID, "error", item.Err)
			flagged[item.AccountID] = append(flagged[item.AccountID], item.Err.Error())
			continue
		}
		results = append(results, item.Result)
		if item.Result.FlaggedForAudit() {
			flagged[item.AccountID] = append(flagged[item.AccountID], item.Result.Warnings...)
		}
	}

	if err := d.Database.SaveResults(r.Context(), period, results); err != nil {
		slog.Error("failed to save results", "period", period, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save results: %v", err))
		return
	}

	if len(flagged) > 0 && d.Email != nil && len(d.AuditRecipients) > 0 {
		if err := d.Email.SendAuditEmail(r.Context(), d.AuditRecipients, period, flagged); err != nil {
			// Calculation already succeeded; a lost email is not a retry reason.
			slog.Error("failed to send audit email", "period", period, "error", err)
		}
	}

	slog.Info("queue processing complete",
		"upload_id", uploadID,
		"period", period,
		"results_count", len(results),
		"flagged_count", len(flagged),
	)
	w.WriteHeader(http.StatusOK)
}
