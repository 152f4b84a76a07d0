package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_StatementChain(t *testing.T) {
	eng := New(models.ProductPrime365)

	in := Input{
		Account: models.Account{
			ID:             "ACC-1",
			OpeningBalance: nd(-133811.14),
			ClosingBalance: nd(-138401.73),
			CreditLimit:    d(150000.00),
		},
		Movements: []models.Movement{
			{Description: "RESTAURANTE CENTRO", Amount: d(350.00)},
			{Description: "INTERES SOBRE COMPRA", Amount: d(3616.12)},
			{Description: "IVA SOBRE COMISION O INTERES", Amount: d(624.47)},
		},
	}

	res, err := eng.Calculate(in)
	require.NoError(t, err)

	assert.True(t, res.SubtotalBeforeTax.Equal(d(-129845.02)), "subtotal: %s", res.SubtotalBeforeTax)
	assert.True(t, res.SubtotalWithTax.Equal(d(-129220.55)), "subtotal with tax: %s", res.SubtotalWithTax)
	assert.True(t, res.PaymentsCreditsResidual.Equal(d(9181.18)), "residual: %s", res.PaymentsCreditsResidual)
	assert.True(t, res.ClosingBalance.Equal(d(-138401.73)))
}

func TestCalculate_MinimumPaymentIsNegMaxOfTerms(t *testing.T) {
	eng := New(models.ProductPrime365)

	res, err := eng.Calculate(Input{
		Account: models.Account{
			ID:             "ACC-2",
			OpeningBalance: nd(-20000.00),
			ClosingBalance: nd(-25000.00),
			CreditLimit:    d(30000.00),
		},
		Movements: []models.Movement{
			{Description: "INTERES SOBRE COMPRA", Amount: d(412.30)},
		},
	})
	require.NoError(t, err)

	want := decimal.Max(res.T1, res.T2, res.T3).Neg()
	assert.True(t, res.MinimumPayment.Equal(want), "minimum payment %s want %s", res.MinimumPayment, want)
	assert.True(t, res.MinimumPayment.LessThanOrEqual(decimal.Zero))
}

func TestCalculate_NoPromotionNoInterestPayment(t *testing.T) {
	eng := New(models.ProductPrime365)

	res, err := eng.Calculate(Input{
		Account: models.Account{
			ID:             "ACC-3",
			OpeningBalance: nd(-2442.05),
			ClosingBalance: nd(-2702.27),
			TotalCredits:   d(4442.05),
			TotalDebits:    d(4702.27),
		},
	})
	require.NoError(t, err)

	assert.True(t, res.NoInterestPayment.Equal(d(2702.27)), "no-interest payment: %s", res.NoInterestPayment)
}

func TestCalculate_PromotionExtendedNoInterestPayment(t *testing.T) {
	eng := New(models.ProductPrime365)

	res, err := eng.Calculate(Input{
		Account: models.Account{
			ID:             "ACC-4",
			OpeningBalance: nd(-6000.00),
			ClosingBalance: nd(-6202.99),
		},
		Promotion: &models.Promotion{
			AccountID:   "ACC-4",
			TypeLabel:   "PROMO ESPECIAL",
			TotalAmount: d(15669.00),
		},
	})
	require.NoError(t, err)

	assert.True(t, res.NoInterestPayment.Equal(d(9466.01)), "no-interest payment: %s", res.NoInterestPayment)
}

func TestCalculate_MissingOpeningBalance(t *testing.T) {
	eng := New(models.ProductPrime365)

	_, err := eng.Calculate(Input{Account: models.Account{ID: "ACC-5"}})
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "opening_balance", missing.Field)
	assert.Equal(t, "ACC-5", missing.AccountID)
}

func TestCalculate_UnparsableLabelFlagsAudit(t *testing.T) {
	eng := New(models.ProductPrime365)

	res, err := eng.Calculate(Input{
		Account: models.Account{ID: "ACC-6", OpeningBalance: nd(-1000.00), ClosingBalance: nd(-1000.00)},
		Promotion: &models.Promotion{
			AccountID: "ACC-6",
			TypeLabel: "MSI PLAN ESPECIAL",
		},
	})
	require.NoError(t, err)
	assert.True(t, res.FlaggedForAudit())
}

func TestCalculate_ReconciliationMismatchWarnsOnly(t *testing.T) {
	eng := New(models.ProductPrime365)

	res, err := eng.Calculate(Input{
		Account: models.Account{
			ID:             "ACC-7",
			OpeningBalance: nd(-1000.00),
			ClosingBalance: nd(-1500.00),
			TotalDebits:    d(999.00), // classified movements sum to 500
		},
		Movements: []models.Movement{
			{Description: "SUPERMERCADO", Amount: d(500.00)},
		},
	})
	require.NoError(t, err, "mismatch must not fail the calculation")
	require.True(t, res.FlaggedForAudit())
	assert.Contains(t, res.Warnings[0], "deviate")
}

func TestCalculate_OutputsRoundedToCents(t *testing.T) {
	eng := New(models.ProductPrime360)

	res, err := eng.Calculate(Input{
		Account: models.Account{
			ID:              "ACC-8",
			OpeningBalance:  nd(-1234.5678),
			ClosingBalance:  nd(-2345.6789),
			CreditLimit:     d(9999.999),
			InterestProfile: "Visa Oro",
			CycleDays:       20,
		},
		Movements: []models.Movement{
			{Description: "TIENDA", Amount: d(111.1111)},
		},
	})
	require.NoError(t, err)

	for name, v := range map[string]decimal.Decimal{
		"opening":   res.OpeningBalance,
		"closing":   res.ClosingBalance,
		"purchases": res.Purchases,
		"residual":  res.PaymentsCreditsResidual,
		"t1":        res.T1,
		"t2":        res.T2,
		"t3":        res.T3,
		"minimum":   res.MinimumPayment,
		"noint":     res.NoInterestPayment,
		"ordinary":  res.OrdinaryInterest,
	} {
		assert.True(t, v.Exponent() >= -2, "%s has more than 2 decimals: %s", name, v)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	eng := New(models.ProductPrime365)
	in := Input{
		Account: models.Account{
			ID:             "ACC-9",
			OpeningBalance: nd(-72898.00),
			ClosingBalance: nd(-79385.83),
			CreditLimit:    d(90000.00),
		},
		Movements: []models.Movement{
			{Description: "INTERES SOBRE COMPRA", Amount: d(635.25)},
		},
	}

	first, err := eng.Calculate(in)
	require.NoError(t, err)
	second, err := eng.Calculate(in)
	require.NoError(t, err)

	assert.True(t, first.PaymentsCreditsResidual.Equal(second.PaymentsCreditsResidual))
	assert.True(t, first.MinimumPayment.Equal(second.MinimumPayment))
	assert.True(t, first.NoInterestPayment.Equal(second.NoInterestPayment))
}

func TestCalculateBatch_IndependentFailures(t *testing.T) {
	eng := New(models.ProductPrime365)

	inputs := []Input{
		{Account: models.Account{ID: "OK-1", OpeningBalance: nd(-100.00), ClosingBalance: nd(-100.00)}},
		{Account: models.Account{ID: "BAD"}}, // no opening balance
		{Account: models.Account{ID: "OK-2", OpeningBalance: nd(-200.00), ClosingBalance: nd(-200.00)}},
	}

	items := eng.CalculateBatch(inputs)
	require.Len(t, items, 3)

	assert.NoError(t, items[0].Err)
	assert.NotNil(t, items[0].Result)
	assert.Error(t, items[1].Err)
	assert.Nil(t, items[1].Result)
	assert.NoError(t, items[2].Err)
	assert.Equal(t, "OK-2", items[2].AccountID)
}

func TestCalculateBatch_Large(t *testing.T) {
	eng := New(models.ProductPrime360)

	inputs := make([]Input, 200)
	for i := range inputs {
		inputs[i] = Input{
			Account: models.Account{
				ID:             fmt.Sprintf("ACC-%03d", i),
				OpeningBalance: nd(-1000.00 - float64(i)),
				ClosingBalance: nd(-1100.00 - float64(i)),
				CreditLimit:    d(50000.00),
			},
		}
	}

	items := eng.CalculateBatch(inputs)
	require.Len(t, items, 200)
	for i, it := range items {
		require.NoError(t, it.Err)
		assert.Equal(t, fmt.Sprintf("ACC-%03d", i), it.AccountID)
	}
}
