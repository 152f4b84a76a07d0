package models

import (
	"github.com/shopspring/decimal"
)

// MovementCategory represents the semantic bucket a movement settles into.
type MovementCategory string

const (
	CategoryPurchaseCharge MovementCategory = "PURCHASE_CHARGE"
	CategoryInterest       MovementCategory = "INTEREST"
	CategoryCommission     MovementCategory = "COMMISSION"
	CategoryTax            MovementCategory = "TAX"
	CategoryPaymentCredit  MovementCategory = "PAYMENT_CREDIT"
)

// Movement represents a single statement movement. Category is derived by
// the engine's classifier, never loaded from input.
type Movement struct {
	AccountID   string           `json:"account_id"`
	Date        string           `json:"date,omitempty"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    MovementCategory `json:"category,omitempty"`
}
