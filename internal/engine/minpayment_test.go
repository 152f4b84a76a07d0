package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeMinimumPayment_LimitFloorDominates(t *testing.T) {
	// Large limit, tiny balance: T1 wins.
	mp := ComputeMinimumPayment(d(100000.00), d(-500.00), decimal.Zero, PromoContext{}, decimal.Zero, decimal.Zero, decimal.Zero)

	// T1 = 100000 * 0.0125 = 1250; T2 = 500*0.05 = 25; T3 = 500*0.015 = 7.5
	assert.True(t, mp.T1.Equal(d(1250.00)), "T1: %s", mp.T1)
	assert.True(t, mp.T2.Equal(d(25.00)), "T2: %s", mp.T2)
	assert.True(t, mp.T3.Equal(d(7.50)), "T3: %s", mp.T3)
	assert.True(t, mp.Amount.Equal(d(-1250.00)), "amount: %s", mp.Amount)
}

func TestComputeMinimumPayment_BalancePctDominates(t *testing.T) {
	// Small limit, deep balance: T2 wins.
	mp := ComputeMinimumPayment(d(10000.00), d(-80000.00), decimal.Zero, PromoContext{}, decimal.Zero, decimal.Zero, decimal.Zero)

	// T1 = 125; T2 = 80000*0.05 = 4000; T3 = 80000*0.015 = 1200
	assert.True(t, mp.Amount.Equal(d(-4000.00)), "amount: %s", mp.Amount)
}

func TestComputeMinimumPayment_InterestTermDominates(t *testing.T) {
	// Heavy interest-and-tax charge pushes T3 on top.
	mp := ComputeMinimumPayment(d(10000.00), d(-20000.00), decimal.Zero, PromoContext{}, decimal.Zero, d(3616.12), d(624.47))

	// T1 = 125; T2 = 1000; T3 = 20000*0.015 + 4240.59 = 4540.59
	assert.True(t, mp.T3.Equal(d(4540.59)), "T3: %s", mp.T3)
	assert.True(t, mp.Amount.Equal(d(-4540.59)), "amount: %s", mp.Amount)
}

func TestComputeMinimumPayment_PromotionAdjustsBalance(t *testing.T) {
	promo := PromoContext{PromoBalance: d(-11000.00)}

	mp := ComputeMinimumPayment(d(10000.00), d(-20000.00), decimal.Zero, promo, d(1000.00), decimal.Zero, decimal.Zero)

	// adjusted = -20000 - (-11000) = -9000
	// T2 = 9000*0.05 + 1000*0.05 = 500
	assert.True(t, mp.T2.Equal(d(500.00)), "T2: %s", mp.T2)
}

func TestComputeMinimumPayment_OverdraftAdjustsBalance(t *testing.T) {
	mp := ComputeMinimumPayment(decimal.Zero, d(-10000.00), d(-2000.00), PromoContext{}, decimal.Zero, decimal.Zero, decimal.Zero)

	// adjusted = -10000 - (-2000) = -8000; T2 = 400
	assert.True(t, mp.T2.Equal(d(400.00)), "T2: %s", mp.T2)
}

func TestComputeMinimumPayment_AlwaysNonPositive(t *testing.T) {
	cases := []struct {
		limit, closing float64
	}{
		{0, 0},
		{50000, -133811.14},
		{10000, 2500.00}, // credit balance
	}
	for _, c := range cases {
		mp := ComputeMinimumPayment(d(c.limit), d(c.closing), decimal.Zero, PromoContext{}, decimal.Zero, decimal.Zero, decimal.Zero)
		assert.True(t, mp.Amount.LessThanOrEqual(decimal.Zero), "limit=%v closing=%v amount=%s", c.limit, c.closing, mp.Amount)
		assert.True(t, mp.Amount.Equal(decimal.Max(mp.T1, mp.T2, mp.T3).Neg()))
	}
}
