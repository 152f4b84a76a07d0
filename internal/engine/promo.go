package engine

import (
	"strconv"
	"strings"

	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
)

// interestFreeFactor is the regulator-fixed discount factor applied to
// interest-free ("SIN INTERESES") deferred promotions.
var interestFreeFactor = decimal.NewFromFloat(0.3126)

// deferredMarkers are the label tokens that mark a deferred-payment
// promotion. MSI/MCI are the installment-plan variants, bare SI the generic
// marker.
var deferredMarkers = map[string]bool{
	"SI":  true,
	"MSI": true,
	"MCI": true,
}

// PromoContext is the resolved view of an account's promotion used by the
// payment calculators. The zero value is the no-promotion context.
type PromoContext struct {
	HasDeferredPayment bool
	InterestFree       bool
	TermCount          int
	Factor             decimal.Decimal
	PromoBalance       decimal.Decimal

	// LabelParsed is false when the label carried a deferred marker but
	// no parseable term count; the resolver then falls back to a single
	// term and the result should be flagged for audit.
	LabelParsed bool
}

// ResolvePromotion derives the promotion context from a promotion record.
// It is total: nil promotions yield the zero context and malformed labels
// degrade to safe defaults instead of failing.
func ResolvePromotion(p *models.Promotion) PromoContext {
	if p == nil {
		return PromoContext{Factor: decimal.Zero, PromoBalance: decimal.Zero, LabelParsed: true}
	}

	ctx := PromoContext{LabelParsed: true}
	label := normalizeDescription(p.TypeLabel)
	fields := strings.Fields(label)

	for _, f := range fields {
		if isDeferredToken(f) {
			ctx.HasDeferredPayment = true
			break
		}
	}
	ctx.InterestFree = ctx.HasDeferredPayment && strings.Contains(label, "SIN INTERESES")

	terms, found := parseTermCount(fields)
	if ctx.HasDeferredPayment && !found {
		ctx.LabelParsed = false
	}
	// Zero or missing terms substitute to a single term, never an error.
	if terms < 1 {
		terms = 1
	}
	ctx.TermCount = terms

	switch {
	case ctx.InterestFree:
		ctx.Factor = interestFreeFactor
	case ctx.HasDeferredPayment:
		n := decimal.NewFromInt(int64(ctx.TermCount))
		ctx.Factor = n.Sub(decimal.NewFromInt(1)).Div(n)
	default:
		ctx.Factor = decimal.Zero
	}

	ctx.PromoBalance = p.TotalAmount.Mul(ctx.Factor).Neg()
	return ctx
}

// isDeferredToken reports whether a label token is a deferred-payment
// marker, either bare ("MSI") or compact with a leading term count
// ("12MSI").
func isDeferredToken(f string) bool {
	if deferredMarkers[f] {
		return true
	}
	for marker := range deferredMarkers {
		if trimmed, ok := strings.CutSuffix(f, marker); ok && trimmed != "" {
			if _, err := strconv.Atoi(trimmed); err == nil {
				return true
			}
		}
	}
	return false
}

// parseTermCount returns the first integer token in the label. Compact
// tokens like "12MSI" are split on the marker suffix.
func parseTermCount(fields []string) (int, bool) {
	for _, f := range fields {
		if n, err := strconv.Atoi(f); err == nil {
			return n, true
		}
		for marker := range deferredMarkers {
			if trimmed, ok := strings.CutSuffix(f, marker); ok && trimmed != "" {
				if n, err := strconv.Atoi(trimmed); err == nil {
					return n, true
				}
			}
		}
	}
	return 0, false
}
