package engine

import (
	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
)

// noInterestStrategy selects which "pago para no generar intereses" formula
// applies. The source formulas show two materially different promotion
// shapes, so the choice is an explicit classification step rather than a
// single universal formula.
type noInterestStrategy int

const (
	// strategyBase applies when no promotion governs the account.
	strategyBase noInterestStrategy = iota
	// strategyDeferredFlat applies when the label carries deferred terms:
	// the payment extends the closing balance by the factor-discounted
	// promotion total.
	strategyDeferredFlat
	// strategyExtended applies to promotion records without deferred-term
	// labels: the payment is rebuilt from the promotion's sub-balances.
	strategyExtended
)

func resolveNoInterestStrategy(p *models.Promotion, ctx PromoContext) noInterestStrategy {
	switch {
	case p == nil:
		return strategyBase
	case ctx.HasDeferredPayment:
		return strategyDeferredFlat
	default:
		return strategyExtended
	}
}

// ComputeNoInterestPayment evaluates the amount required to avoid interest
// accrual. Balances carry debt as negative values, so the no-promotion
// branch is the absolute closing debt implied by the opening balance and
// the period's credit/debit totals. The deferred branch reuses the
// resolver's factor semantics; the extended branch rebuilds the payment
// from per-promotion sub-balances, each defaulting to zero when absent.
// The output is always a finite, sign-resolved decimal.
func ComputeNoInterestPayment(opening, closing, totalDebits, totalCredits decimal.Decimal, p *models.Promotion, ctx PromoContext) decimal.Decimal {
	switch resolveNoInterestStrategy(p, ctx) {
	case strategyDeferredFlat:
		// closing - promoBalance = closing + factor*total; degrades to
		// the bare closing balance when the label encodes no terms
		// (factor 0).
		return closing.Sub(ctx.PromoBalance)

	case strategyExtended:
		promoBalanceNoInterest := p.TotalAmount.Neg()
		return closing.
			Sub(promoBalanceNoInterest.Add(p.AccruedInterest)).
			Add(p.Installment).
			Add(p.OverdueAmount).
			Add(p.Overdraft).
			Add(p.Tax)

	default:
		return opening.Add(totalCredits).Sub(totalDebits).Abs()
	}
}
