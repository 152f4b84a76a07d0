package models

import (
	"github.com/shopspring/decimal"
)

// Promotion represents a deferred-payment promotion attached to an account
// for a statement period. At most one promotion governs an account per
// period; absence is valid and means no promotional adjustment.
type Promotion struct {
	AccountID string `json:"account_id"`

	// TypeLabel is free text carrying the promotion markers ("SI", "MSI",
	// "SIN INTERESES") and the term count, e.g. "12 MSI SIN INTERESES".
	TypeLabel string `json:"type_label"`

	OriginalAmount  decimal.Decimal `json:"original_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Installment     decimal.Decimal `json:"installment"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	OverdueAmount   decimal.Decimal `json:"overdue_amount"`
	Overdraft       decimal.Decimal `json:"overdraft"`
	Tax             decimal.Decimal `json:"tax"`

	// AnnualRate is the promotion's annual interest rate in percent
	// (e.g. 24.5), used for promotional-interest accrual.
	AnnualRate decimal.Decimal `json:"annual_rate"`
	PromoDays  int             `json:"promo_days"`
}
