package engine

import (
	"strings"

	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
)

// RuleTableVersion identifies the classifier rule table in force. Bump it
// whenever a pattern is added so downstream audits can tell which table
// produced a classification.
const RuleTableVersion = 1

type matchKind int

const (
	matchContains matchKind = iota
	matchPrefix
)

type classifierRule struct {
	pattern  string
	kind     matchKind
	category models.MovementCategory
}

// Patterns are matched against the normalized (uppercased, accent-stripped)
// description, first hit wins. Order matters: the tax rule must fire before
// the interest rule since "IVA SOBRE COMISION O INTERES" also mentions
// interest.
var classifierRules = []classifierRule{
	{"IVA SOBRE COMISION", matchPrefix, models.CategoryTax},
	{"IVA SOBRE INTERES", matchPrefix, models.CategoryTax},
	{"INTERES SOBRE COMPRA", matchPrefix, models.CategoryInterest},
	{"COMISION POR PENALIZACION", matchContains, models.CategoryCommission},
	{"PENALIZACION POR PAGO TARDIO", matchContains, models.CategoryCommission},
	{"PAGO RECIBIDO", matchContains, models.CategoryPaymentCredit},
	{"SU PAGO", matchContains, models.CategoryPaymentCredit},
	{"ABONO", matchContains, models.CategoryPaymentCredit},
	{"DEPOSITO", matchContains, models.CategoryPaymentCredit},
}

var accentReplacer = strings.NewReplacer(
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ü", "U",
	"á", "A", "é", "E", "í", "I", "ó", "O", "ú", "U", "ü", "U",
)

func normalizeDescription(s string) string {
	return strings.ToUpper(accentReplacer.Replace(strings.TrimSpace(s)))
}

// Classify maps a movement description to its semantic category. It is
// total: descriptions matching no rule degrade to PURCHASE_CHARGE.
func Classify(description string) models.MovementCategory {
	norm := normalizeDescription(description)
	for _, r := range classifierRules {
		switch r.kind {
		case matchPrefix:
			if strings.HasPrefix(norm, r.pattern) {
				return r.category
			}
		case matchContains:
			if strings.Contains(norm, r.pattern) {
				return r.category
			}
		}
	}
	return models.CategoryPurchaseCharge
}

// ClassifiedTotals holds the per-category movement sums for one account.
type ClassifiedTotals struct {
	Purchases   decimal.Decimal
	Commissions decimal.Decimal
	Interest    decimal.Decimal
	Tax         decimal.Decimal
	Payments    decimal.Decimal
}

// Charges returns the combined purchases-and-other-charges figure.
// Commissions count as part of "Compras y otros cargos".
func (t ClassifiedTotals) Charges() decimal.Decimal {
	return t.Purchases.Add(t.Commissions)
}

// Debits returns the sum of all charge-side categories.
func (t ClassifiedTotals) Debits() decimal.Decimal {
	return t.Charges().Add(t.Interest).Add(t.Tax)
}

// ClassifyMovements buckets each movement and accumulates the per-category
// sums. Movement order is irrelevant.
func ClassifyMovements(movements []models.Movement) ClassifiedTotals {
	var totals ClassifiedTotals
	totals.Purchases = decimal.Zero
	totals.Commissions = decimal.Zero
	totals.Interest = decimal.Zero
	totals.Tax = decimal.Zero
	totals.Payments = decimal.Zero

	for _, m := range movements {
		switch Classify(m.Description) {
		case models.CategoryInterest:
			totals.Interest = totals.Interest.Add(m.Amount)
		case models.CategoryCommission:
			totals.Commissions = totals.Commissions.Add(m.Amount)
		case models.CategoryTax:
			totals.Tax = totals.Tax.Add(m.Amount)
		case models.CategoryPaymentCredit:
			totals.Payments = totals.Payments.Add(m.Amount)
		default:
			totals.Purchases = totals.Purchases.Add(m.Amount)
		}
	}
	return totals
}
