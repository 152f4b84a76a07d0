package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGradeDiscrepancy(t *testing.T) {
	tests := []struct {
		name         string
		system       float64
		computed     float64
		wantGrade    DiscrepancyGrade
		wantSeverity DiscrepancySeverity
	}{
		{"exact match", 100.00, 100.00, GradeNotSignificant, SeverityLow},
		{"small overcharge", 102.00, 100.00, GradeNotSignificant, SeverityLow},
		{"moderate drift", 104.50, 100.00, GradeModerate, SeverityMedium},
		{"significant overcharge", 110.00, 100.00, GradeSignificant, SeverityHigh},
		{"significant undercharge", 92.00, 100.00, GradeSignificant, SeverityMedium},
		{"deep undercharge", 85.00, 100.00, GradeSignificant, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradeDiscrepancy(d(tt.system), d(tt.computed), d(-1000.00))
			assert.Equal(t, tt.wantGrade, got.Grade)
			assert.Equal(t, tt.wantSeverity, got.Severity)
		})
	}
}

func TestGradeDiscrepancy_ZeroComputed(t *testing.T) {
	got := GradeDiscrepancy(d(50.00), decimal.Zero, d(-1000.00))
	assert.True(t, got.PercentDiff.IsZero())
	assert.Equal(t, GradeNotSignificant, got.Grade)
}

func TestGradeDiscrepancy_ImpactPct(t *testing.T) {
	got := GradeDiscrepancy(d(150.00), d(100.00), d(-1000.00))
	// |150-100| / 1000 * 100 = 5
	assert.True(t, got.ImpactPct.Equal(d(5.00)), "impact: %s", got.ImpactPct)

	zero := GradeDiscrepancy(d(150.00), d(100.00), decimal.Zero)
	assert.True(t, zero.ImpactPct.IsZero())
}
