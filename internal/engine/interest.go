package engine

import (
	"strings"

	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
)

// interestProfileRates maps interest-profile labels to annual rates.
// Matching is case-insensitive substring; unknown profiles carry rate 0.
var interestProfileRates = []struct {
	marker string
	rate   decimal.Decimal
}{
	{"EMPLOYEE BENEFITS", decimal.NewFromFloat(0.26)},
	{"VISA BASICA", decimal.NewFromFloat(0.65)},
	{"VISA PLATINUM", decimal.NewFromFloat(0.349)},
	{"VISA CLASICA", decimal.NewFromFloat(0.60)},
	{"VISA ORO", decimal.NewFromFloat(0.50)},
	{"VISA INFINITE", decimal.NewFromFloat(0.305)},
}

// AnnualRateForProfile resolves the annual interest rate assigned to an
// account's interest profile.
func AnnualRateForProfile(profile string) decimal.Decimal {
	norm := normalizeDescription(profile)
	for _, p := range interestProfileRates {
		if strings.Contains(norm, p.marker) {
			return p.rate
		}
	}
	return decimal.Zero
}

// OrdinaryInterest computes the period's ordinary interest from the
// average daily balance adjusted by the no-interest payment:
//
//	((|opening| + |closing|) / 2 + |noInterestPayment|)
//	  * (annualRate / divisor) * (cycleDays + 1)
//
// The divisor follows the product's day-count convention.
func OrdinaryInterest(product models.CardProduct, opening, closing, noInterestPayment, annualRate decimal.Decimal, cycleDays int) decimal.Decimal {
	avgBalance := opening.Abs().Add(closing.Abs()).Div(decimal.NewFromInt(2))
	adjusted := avgBalance.Add(noInterestPayment.Abs())
	dailyRate := annualRate.Div(product.DayCountDivisor())
	return adjusted.Mul(dailyRate).Mul(decimal.NewFromInt(int64(cycleDays + 1)))
}

// PromotionalInterest computes the interest accrued by a promotion:
//
//	|promoBalance| * (annualRate / divisor) * (promoDays + 1)
//
// with AnnualRate given in percent. A zero-balance "Totalero" promotion
// accrues nothing.
func PromotionalInterest(product models.CardProduct, p *models.Promotion) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	balance := p.OriginalAmount.Abs()
	if balance.IsZero() && strings.Contains(normalizeDescription(p.TypeLabel), "TOTALERO") {
		return decimal.Zero
	}
	rate := p.AnnualRate.Div(decimal.NewFromInt(100))
	dailyRate := rate.Div(product.DayCountDivisor())
	return balance.Mul(dailyRate).Mul(decimal.NewFromInt(int64(p.PromoDays + 1)))
}

// InterestInFavor accrues interest on a positive opening balance. Accounts
// carrying debt (negative balances) earn nothing.
func InterestInFavor(product models.CardProduct, opening, annualRate decimal.Decimal, days int) decimal.Decimal {
	if opening.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	dailyRate := annualRate.Div(product.DayCountDivisor())
	return opening.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days)))
}
