package engine

import (
	"github.com/shopspring/decimal"
)

// DiscrepancyGrade classifies how far a system-reported value drifted from
// the engine's computed value.
type DiscrepancyGrade string

const (
	GradeSignificant    DiscrepancyGrade = "Significativa"
	GradeModerate       DiscrepancyGrade = "Moderada"
	GradeNotSignificant DiscrepancyGrade = "No significativa"
)

// DiscrepancySeverity ranks the impact of a discrepancy. Undercharges
// (system below computed) escalate faster than overcharges.
type DiscrepancySeverity string

const (
	SeverityHigh   DiscrepancySeverity = "Alta"
	SeverityMedium DiscrepancySeverity = "Media"
	SeverityLow    DiscrepancySeverity = "Baja"
)

// Discrepancy is the graded comparison of a reported value against the
// engine's computed value.
type Discrepancy struct {
	SystemValue   decimal.Decimal
	ComputedValue decimal.Decimal
	PercentDiff   decimal.Decimal
	Grade         DiscrepancyGrade
	Severity      DiscrepancySeverity
	// ImpactPct is the absolute difference as a share of the account's
	// total balance, in percent.
	ImpactPct decimal.Decimal
}

var (
	hundred    = decimal.NewFromInt(100)
	pctFive    = decimal.NewFromInt(5)
	pctFour    = decimal.NewFromInt(4)
	pctTen     = decimal.NewFromInt(10)
	pctTwoFive = decimal.NewFromFloat(2.5)
)

// GradeDiscrepancy grades the drift between a system value and a computed
// value relative to the account's total balance. A zero computed value
// grades as no drift.
func GradeDiscrepancy(system, computed, totalBalance decimal.Decimal) Discrepancy {
	d := Discrepancy{SystemValue: system, ComputedValue: computed, PercentDiff: decimal.Zero}
	if !computed.IsZero() {
		d.PercentDiff = system.Sub(computed).Div(computed).Mul(hundred)
	}
	absDiff := d.PercentDiff.Abs()

	switch {
	case absDiff.GreaterThanOrEqual(pctFive):
		d.Grade = GradeSignificant
	case absDiff.LessThan(pctFour):
		d.Grade = GradeNotSignificant
	default:
		d.Grade = GradeModerate
	}

	if d.PercentDiff.IsNegative() {
		switch {
		case absDiff.GreaterThan(pctTen):
			d.Severity = SeverityHigh
		case absDiff.GreaterThanOrEqual(pctFive):
			d.Severity = SeverityMedium
		default:
			d.Severity = SeverityLow
		}
	} else {
		switch {
		case absDiff.GreaterThan(pctFive):
			d.Severity = SeverityHigh
		case absDiff.GreaterThanOrEqual(pctTwoFive):
			d.Severity = SeverityMedium
		default:
			d.Severity = SeverityLow
		}
	}

	d.ImpactPct = decimal.Zero
	if !totalBalance.IsZero() {
		d.ImpactPct = system.Sub(computed).Abs().Div(totalBalance.Abs()).Mul(hundred)
	}
	return d
}
