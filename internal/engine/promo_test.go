package engine

import (
	"testing"

	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePromotion_None(t *testing.T) {
	ctx := ResolvePromotion(nil)

	assert.False(t, ctx.HasDeferredPayment)
	assert.False(t, ctx.InterestFree)
	assert.True(t, ctx.Factor.IsZero())
	assert.True(t, ctx.PromoBalance.IsZero())
	assert.True(t, ctx.LabelParsed)
}

func TestResolvePromotion_DeferredWithTerms(t *testing.T) {
	p := &models.Promotion{
		TypeLabel:   "12 MSI",
		TotalAmount: decimal.NewFromFloat(12000.00),
	}
	ctx := ResolvePromotion(p)

	require.True(t, ctx.HasDeferredPayment)
	assert.False(t, ctx.InterestFree)
	assert.Equal(t, 12, ctx.TermCount)

	// factor = 11/12, promoBalance = -(12000 * 11/12) = -11000
	wantBalance := decimal.NewFromFloat(-11000.00)
	assert.True(t, ctx.PromoBalance.Round(2).Equal(wantBalance), "promo balance: %s", ctx.PromoBalance)
}

func TestResolvePromotion_InterestFree(t *testing.T) {
	p := &models.Promotion{
		TypeLabel:   "6 MSI SIN INTERESES",
		TotalAmount: decimal.NewFromFloat(10000.00),
	}
	ctx := ResolvePromotion(p)

	require.True(t, ctx.HasDeferredPayment)
	assert.True(t, ctx.InterestFree)
	assert.True(t, ctx.Factor.Equal(decimal.NewFromFloat(0.3126)))
	assert.True(t, ctx.PromoBalance.Equal(decimal.NewFromFloat(-3126.00)), "promo balance: %s", ctx.PromoBalance)
}

func TestResolvePromotion_CompactTermToken(t *testing.T) {
	p := &models.Promotion{TypeLabel: "PROMO 18MSI", TotalAmount: decimal.NewFromFloat(9000.00)}
	ctx := ResolvePromotion(p)

	require.True(t, ctx.HasDeferredPayment)
	assert.Equal(t, 18, ctx.TermCount)
	assert.True(t, ctx.LabelParsed)
}

func TestResolvePromotion_UnparsableLabel(t *testing.T) {
	p := &models.Promotion{
		TypeLabel:   "MSI PLAN ESPECIAL",
		TotalAmount: decimal.NewFromFloat(5000.00),
	}
	ctx := ResolvePromotion(p)

	require.True(t, ctx.HasDeferredPayment)
	assert.False(t, ctx.LabelParsed, "missing term count should flag for audit")
	assert.Equal(t, 1, ctx.TermCount)
	// (1-1)/1 = 0: the promotion contributes no balance discount.
	assert.True(t, ctx.Factor.IsZero())
	assert.True(t, ctx.PromoBalance.IsZero())
}

func TestResolvePromotion_ZeroTermGuard(t *testing.T) {
	p := &models.Promotion{TypeLabel: "0 SI", TotalAmount: decimal.NewFromFloat(5000.00)}
	ctx := ResolvePromotion(p)

	assert.Equal(t, 1, ctx.TermCount)
	assert.True(t, ctx.Factor.IsZero())
}

func TestResolvePromotion_NoMarker(t *testing.T) {
	// "SI" must match as a token, not as a substring of another word.
	p := &models.Promotion{TypeLabel: "COMPRA SIMPLE", TotalAmount: decimal.NewFromFloat(5000.00)}
	ctx := ResolvePromotion(p)

	assert.False(t, ctx.HasDeferredPayment)
	assert.True(t, ctx.PromoBalance.IsZero())
}
