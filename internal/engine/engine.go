// Package engine computes regulated credit-card statement figures from raw
// per-account movement and promotion records. Everything here is a pure
// function of its inputs: no I/O, no hidden state, same inputs always
// produce the same result.
package engine

import (
	"fmt"
	"sync"

	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
)

// MissingFieldError signals that a structurally required field was absent
// from the input. It is fatal for that account's calculation only; a batch
// continues with its other accounts.
type MissingFieldError struct {
	AccountID string
	Field     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("account %s: missing required field %q", e.AccountID, e.Field)
}

// Input bundles the records of one account's calculation.
type Input struct {
	Account   models.Account
	Movements []models.Movement
	Promotion *models.Promotion
}

// Engine runs statement calculations under a default day-count convention.
// Accounts naming their own product override the default per calculation.
type Engine struct {
	defaultProduct models.CardProduct
}

// New creates an Engine with the given default card product.
func New(product models.CardProduct) *Engine {
	return &Engine{defaultProduct: product}
}

func (e *Engine) productFor(acct models.Account) models.CardProduct {
	if acct.Product != "" {
		return acct.Product
	}
	return e.defaultProduct
}

// Calculate runs the full formula set for one account and assembles the
// result, rounding every monetary field to 2 decimals at this boundary
// only. It fails only when the opening balance is absent; every other
// missing optional field degrades to zero.
func (e *Engine) Calculate(in Input) (*models.CalculationResult, error) {
	acct := in.Account
	if !acct.OpeningBalance.Valid {
		return nil, &MissingFieldError{AccountID: acct.ID, Field: "opening_balance"}
	}
	opening := acct.OpeningBalance.Decimal
	product := e.productFor(acct)

	var warnings []string

	totals := ClassifyMovements(in.Movements)
	promo := ResolvePromotion(in.Promotion)
	if !promo.LabelParsed {
		warnings = append(warnings, fmt.Sprintf("promotion label %q carries a deferred marker but no parseable term count; defaulted to 1 term", in.Promotion.TypeLabel))
	}

	rec := Reconcile(opening, totals.Charges(), totals.Interest, totals.Tax, acct.ClosingBalance, totals.Payments.Abs())

	// Classified sums against reported totals, within tolerance only.
	if !acct.TotalDebits.IsZero() && !WithinTolerance(totals.Debits(), acct.TotalDebits) {
		d := GradeDiscrepancy(acct.TotalDebits, totals.Debits(), rec.ClosingBalance)
		warnings = append(warnings, fmt.Sprintf("classified debits %s deviate from reported total %s (%s, severidad %s)",
			totals.Debits().StringFixed(2), acct.TotalDebits.StringFixed(2), d.Grade, d.Severity))
	}
	if !acct.TotalCredits.IsZero() && !WithinTolerance(totals.Payments.Abs(), acct.TotalCredits) && !totals.Payments.IsZero() {
		warnings = append(warnings, fmt.Sprintf("classified credits %s deviate from reported total %s",
			totals.Payments.Abs().StringFixed(2), acct.TotalCredits.StringFixed(2)))
	}

	var installment decimal.Decimal
	if in.Promotion != nil {
		installment = in.Promotion.Installment
	}
	minPay := ComputeMinimumPayment(acct.CreditLimit, rec.ClosingBalance, acct.Overdraft, promo, installment, totals.Interest, totals.Tax)

	noInterest := ComputeNoInterestPayment(opening, rec.ClosingBalance, acct.TotalDebits, acct.TotalCredits, in.Promotion, promo)

	annualRate := AnnualRateForProfile(acct.InterestProfile)
	ordinary := OrdinaryInterest(product, opening, rec.ClosingBalance, noInterest, annualRate, acct.CycleDays)
	promotional := PromotionalInterest(product, in.Promotion)
	inFavor := InterestInFavor(product, opening, annualRate, acct.CycleDays)

	return &models.CalculationResult{
		AccountID:      acct.ID,
		Product:        product,
		OpeningBalance: opening.Round(2),
		ClosingBalance: rec.ClosingBalance.Round(2),
		CreditLimit:    acct.CreditLimit.Round(2),

		Purchases:   totals.Purchases.Round(2),
		Commissions: totals.Commissions.Round(2),
		Interest:    totals.Interest.Round(2),
		Tax:         totals.Tax.Round(2),

		SubtotalBeforeTax: rec.SubtotalBeforeTax.Round(2),
		SubtotalWithTax:   rec.SubtotalWithTax.Round(2),

		PaymentsCreditsResidual: rec.PaymentsCreditsResidual.Round(2),

		PromoBalance: promo.PromoBalance.Round(2),

		T1:             minPay.T1.Round(2),
		T2:             minPay.T2.Round(2),
		T3:             minPay.T3.Round(2),
		MinimumPayment: minPay.Amount.Round(2),

		NoInterestPayment: noInterest.Round(2),

		OrdinaryInterest:    ordinary.Round(2),
		PromotionalInterest: promotional.Round(2),
		InterestInFavor:     inFavor.Round(2),

		Warnings: warnings,
	}, nil
}

// BatchItem pairs one account's result with its error, if any. A failed
// account never contaminates the rest of the batch.
type BatchItem struct {
	AccountID string
	Result    *models.CalculationResult
	Err       error
}

// CalculateBatch runs each account's calculation concurrently. Every unit
// of work is independent and writes only its own slot, so no locking is
// needed.
func (e *Engine) CalculateBatch(inputs []Input) []BatchItem {
	items := make([]BatchItem, len(inputs))

	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			res, err := e.Calculate(in)
			items[i] = BatchItem{AccountID: in.Account.ID, Result: res, Err: err}
		}(i, in)
	}
	wg.Wait()

	return items
}
