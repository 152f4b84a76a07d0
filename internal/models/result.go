package models

import (
	"github.com/shopspring/decimal"
)

// CalculationResult is the per-account output of the statement engine.
// Every monetary field is rounded to 2 decimals at assembly time; the
// engine carries full precision internally. Results have no lifecycle of
// their own: they are created fresh per calculation and persisting them
// is a collaborator concern.
type CalculationResult struct {
	AccountID string      `json:"account_id"`
	Product   CardProduct `json:"product"`

	OpeningBalance decimal.Decimal `json:"opening_balance"`
	// ClosingBalance is the validated reported balance, or the computed
	// one when no reported balance was supplied.
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`

	// Classified movement sums.
	Purchases   decimal.Decimal `json:"purchases"`
	Commissions decimal.Decimal `json:"commissions"`
	Interest    decimal.Decimal `json:"interest"`
	Tax         decimal.Decimal `json:"tax"`

	SubtotalBeforeTax decimal.Decimal `json:"subtotal_before_tax"`
	SubtotalWithTax   decimal.Decimal `json:"subtotal_with_tax"`

	// PaymentsCreditsResidual is the plug figure implied by the reported
	// closing balance versus the itemized charges. It is a modeled
	// approximation, not a verified identity.
	PaymentsCreditsResidual decimal.Decimal `json:"payments_credits_residual"`

	PromoBalance decimal.Decimal `json:"promo_balance"`

	T1             decimal.Decimal `json:"t1"`
	T2             decimal.Decimal `json:"t2"`
	T3             decimal.Decimal `json:"t3"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`

	NoInterestPayment decimal.Decimal `json:"no_interest_payment"`

	OrdinaryInterest    decimal.Decimal `json:"ordinary_interest"`
	PromotionalInterest decimal.Decimal `json:"promotional_interest"`
	InterestInFavor     decimal.Decimal `json:"interest_in_favor"`

	// Warnings carries non-fatal annotations (reconciliation mismatch,
	// unparsable promotion label) so the caller can flag the result for
	// audit.
	Warnings []string `json:"warnings,omitempty"`
}

// FlaggedForAudit reports whether the result carries any warning.
func (r *CalculationResult) FlaggedForAudit() bool {
	return len(r.Warnings) > 0
}

// StatementBatch groups the records of one cut period as loaded by a data
// collaborator: accounts with their movements and optional promotions
// keyed by account ID.
type StatementBatch struct {
	Period     string                `json:"period"`
	Accounts   []Account             `json:"accounts"`
	Movements  map[string][]Movement `json:"movements"`
	Promotions map[string]*Promotion `json:"promotions"`
}
