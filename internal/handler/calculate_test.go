package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocjay1/stmt-engine/internal/engine"
	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeps() *Dependencies {
	return &Dependencies{
		Engine:   engine.New(models.ProductPrime365),
		Database: &MockDatabaseClient{},
		Blob:     &MockBlobClient{},
		Queue:    &MockQueueClient{},
		Email:    &MockEmailClient{},
	}
}

func TestHandleCalculate_Success(t *testing.T) {
	deps := newTestDeps()

	reqBody := CalculateRequest{
		Account: models.Account{
			ID:             "ACC-1",
			Product:        models.ProductPrime365,
			OpeningBalance: decimal.NewNullDecimal(decimal.NewFromInt(-1000)),
			ClosingBalance: decimal.NewNullDecimal(decimal.NewFromInt(-1000)),
			CreditLimit:    decimal.NewFromInt(10000),
		},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	deps.HandleCalculate(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.CalculationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "ACC-1", result.AccountID)
	assert.True(t, result.ClosingBalance.Equal(decimal.NewFromInt(-1000)))
	// T1 = 10000 * 0.0125 = 125 dominates the tiers.
	assert.True(t, result.MinimumPayment.Equal(decimal.NewFromInt(-125)), "got %s", result.MinimumPayment)
	assert.True(t, result.NoInterestPayment.Equal(decimal.NewFromInt(1000)), "got %s", result.NoInterestPayment)
	assert.True(t, result.PaymentsCreditsResidual.IsZero())
	assert.Empty(t, result.Warnings)
}

func TestHandleCalculate_MissingOpeningBalance(t *testing.T) {
	deps := newTestDeps()

	reqBody := CalculateRequest{
		Account: models.Account{ID: "ACC-2"},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	deps.HandleCalculate(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "opening_balance")
}

func TestHandleCalculate_MissingAccountID(t *testing.T) {
	deps := newTestDeps()

	body, _ := json.Marshal(CalculateRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	deps.HandleCalculate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCalculate_InvalidJSON(t *testing.T) {
	deps := newTestDeps()

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()

	deps.HandleCalculate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCalculate_MethodNotAllowed(t *testing.T) {
	deps := newTestDeps()

	req := httptest.NewRequest(http.MethodGet, "/api/calculate", nil)
	w := httptest.NewRecorder()

	deps.HandleCalculate(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
