package engine

import (
	"github.com/shopspring/decimal"
)

// movementTolerance is the allowed drift between classified movement sums
// and the totals reported by the issuing system. Violations are a
// data-quality signal, never a fatal error.
var movementTolerance = decimal.NewFromFloat(0.01)

// Reconciliation is the outcome of the closing-balance reconciliation.
type Reconciliation struct {
	SubtotalBeforeTax decimal.Decimal
	SubtotalWithTax   decimal.Decimal

	// ClosingBalance is the reported balance in validate mode, or the
	// computed one in compute mode.
	ClosingBalance decimal.Decimal

	// PaymentsCreditsResidual is the payments-and-credits figure implied
	// by the reported closing balance. In compute mode it echoes the
	// itemized payments that went into the computed balance.
	PaymentsCreditsResidual decimal.Decimal

	// Computed is true when no reported closing balance was available and
	// the balance had to be derived from the itemized movements.
	Computed bool
}

// Reconcile runs the closing-balance chain:
//
//	subtotal         = opening + (charges + interest)
//	subtotalWithTax  = subtotal + tax
//	residual         = subtotalWithTax - reportedClosing
//
// When reportedClosing is absent it computes the closing balance instead,
// as opening + charges + interest + tax - payments, with payments zero
// when unknown. The residual is a plug figure, reported so the consumer
// can see what payments/credits the reported balance implies; it is not
// asserted against any independent source.
func Reconcile(opening, charges, interest, tax decimal.Decimal, reportedClosing decimal.NullDecimal, payments decimal.Decimal) Reconciliation {
	rec := Reconciliation{
		SubtotalBeforeTax: opening.Add(charges.Add(interest)),
	}
	rec.SubtotalWithTax = rec.SubtotalBeforeTax.Add(tax)

	if reportedClosing.Valid {
		rec.ClosingBalance = reportedClosing.Decimal
		rec.PaymentsCreditsResidual = rec.SubtotalWithTax.Sub(reportedClosing.Decimal)
		return rec
	}

	rec.Computed = true
	rec.ClosingBalance = rec.SubtotalWithTax.Sub(payments)
	rec.PaymentsCreditsResidual = payments
	return rec
}

// WithinTolerance reports whether two totals agree within the movement
// tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(movementTolerance)
}
