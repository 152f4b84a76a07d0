package models

import (
	"github.com/shopspring/decimal"
)

// CardProduct identifies which day-count convention a card product bills under.
type CardProduct string

const (
	ProductPrime365 CardProduct = "PRIME365"
	ProductPrime360 CardProduct = "PRIME360"
)

// DayCountDivisor returns the annual divisor for the product's convention.
// Unknown products fall back to the 365-day convention.
func (p CardProduct) DayCountDivisor() decimal.Decimal {
	if p == ProductPrime360 {
		return decimal.NewFromInt(360)
	}
	return decimal.NewFromInt(365)
}

// Account represents one statement period of a credit-card account.
// Balances carry debt as negative values. The engine consumes accounts
// read-only; it never mutates them.
type Account struct {
	ID              string      `json:"id"`
	Product         CardProduct `json:"product"`
	InterestProfile string      `json:"interest_profile,omitempty"`

	// OpeningBalance is the only structurally required numeric field.
	OpeningBalance decimal.NullDecimal `json:"opening_balance"`

	// ClosingBalance is the balance reported by the issuing system. When
	// absent the engine computes the closing balance instead of
	// validating it.
	ClosingBalance decimal.NullDecimal `json:"closing_balance"`

	CreditLimit  decimal.Decimal `json:"credit_limit"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	Overdraft    decimal.Decimal `json:"overdraft"`
	CycleDays    int             `json:"cycle_days"`
}
