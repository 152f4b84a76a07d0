package engine

import (
	"github.com/shopspring/decimal"
)

var (
	limitFloorRate = decimal.NewFromFloat(0.0125)
	balancePctRate = decimal.NewFromFloat(0.05)
	balanceIntRate = decimal.NewFromFloat(0.015)
)

// MinimumPayment carries the three regulatory terms and the resulting
// minimum payment. The payment is negative-signed: it is a charge against
// the account.
type MinimumPayment struct {
	T1     decimal.Decimal
	T2     decimal.Decimal
	T3     decimal.Decimal
	Amount decimal.Decimal
}

// ComputeMinimumPayment evaluates the max-of-three-terms rule:
//
//	T1 = creditLimit * 0.0125
//	adj = closing - overdraft - promoBalance
//	T2 = |adj| * 0.05 + installment * 0.05
//	T3 = |adj| * 0.015 + (interestCharge + taxCharge)
//	minimum = -max(T1, T2, T3)
//
// All three terms are evaluated unconditionally; any one may dominate
// depending on account size. Absent installment or charge figures enter
// as zero.
func ComputeMinimumPayment(creditLimit, closing, overdraft decimal.Decimal, promo PromoContext, installment, interestCharge, taxCharge decimal.Decimal) MinimumPayment {
	adjusted := closing.Sub(overdraft).Sub(promo.PromoBalance)

	t1 := creditLimit.Mul(limitFloorRate)
	t2 := adjusted.Abs().Mul(balancePctRate).Add(installment.Mul(balancePctRate))
	t3 := adjusted.Abs().Mul(balanceIntRate).Add(interestCharge.Add(taxCharge))

	return MinimumPayment{
		T1:     t1,
		T2:     t2,
		T3:     t3,
		Amount: decimal.Max(t1, t2, t3).Neg(),
	}
}
