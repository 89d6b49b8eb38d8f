package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/collections-monitor/internal/domain"
)

func TestRecommend_DecisionTable(t *testing.T) {
	e := New(Thresholds{})

	tests := []struct {
		name       string
		analysis   domain.CampaignAnalysis
		want       string
		reasonPart string
	}{
		{
			name:       "rule 1: already effective",
			analysis:   domain.CampaignAnalysis{AlreadyPaidRate: 65, EffectiveResponseRate: 50, TotalPendingDebt: 9000},
			want:       domain.DecisionNo,
			reasonPart: "65.0%",
		},
		{
			name:       "rule 2: too low response",
			analysis:   domain.CampaignAnalysis{AlreadyPaidRate: 10, EffectiveResponseRate: 12, TotalPendingDebt: 9000},
			want:       domain.DecisionNo,
			reasonPart: "12.0%",
		},
		{
			name:       "rule 3: not worth the cost",
			analysis:   domain.CampaignAnalysis{AlreadyPaidRate: 10, EffectiveResponseRate: 25, TotalPendingDebt: 400},
			want:       domain.DecisionNo,
			reasonPart: "$400.00",
		},
		{
			name: "rule 4: partial payments",
			analysis: domain.CampaignAnalysis{
				AlreadyPaidRate: 10, EffectiveResponseRate: 18,
				PartialPaymentRate: 35, TotalPendingDebt: 1500,
			},
			want:       domain.DecisionYes,
			reasonPart: "35.0%",
		},
		{
			name: "rule 5: high response plus significant debt",
			analysis: domain.CampaignAnalysis{
				AlreadyPaidRate: 30, EffectiveResponseRate: 35,
				TotalPendingDebt: 2500, PartialPaymentRate: 10,
			},
			want:       domain.DecisionYes,
			reasonPart: "35.0%",
		},
		{
			name: "rule 6 YES: majority still pending",
			analysis: domain.CampaignAnalysis{
				AlreadyPaidRate: 20, EffectiveResponseRate: 22,
				TotalPendingDebt: 1200, PartialPaymentRate: 5,
			},
			want:       domain.DecisionYes,
			reasonPart: "80.0%",
		},
		{
			name: "rule 6 NO: mostly settled",
			analysis: domain.CampaignAnalysis{
				AlreadyPaidRate: 55, EffectiveResponseRate: 22,
				TotalPendingDebt: 1200, PartialPaymentRate: 5,
			},
			want:       domain.DecisionNo,
			reasonPart: "45.0%",
		},
		{
			name: "default: nothing justifies resend",
			analysis: domain.CampaignAnalysis{
				AlreadyPaidRate: 10, EffectiveResponseRate: 18,
				TotalPendingDebt: 800, PartialPaymentRate: 5,
			},
			want:       domain.DecisionNo,
			reasonPart: "do not justify",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Recommend(tt.analysis)
			assert.Equal(t, tt.want, got.Decision)
			assert.True(t, strings.Contains(got.Reason, tt.reasonPart),
				"reason %q should mention %q", got.Reason, tt.reasonPart)
			assert.Equal(t, tt.analysis, got.Metrics, "metrics echo back unchanged")
		})
	}
}

func TestRecommend_FirstMatchWins(t *testing.T) {
	e := New(Thresholds{})

	// Qualifies for rule 5 (YES) but rule 1 fires first.
	a := domain.CampaignAnalysis{
		AlreadyPaidRate: 70, EffectiveResponseRate: 35, TotalPendingDebt: 2500,
	}
	got := e.Recommend(a)

	assert.Equal(t, domain.DecisionNo, got.Decision)
	assert.Contains(t, got.Reason, "already effective")
}

func TestRecommend_CustomThresholds(t *testing.T) {
	custom := DefaultThresholds()
	custom.MinResponseRate = 5
	e := New(custom)

	a := domain.CampaignAnalysis{
		AlreadyPaidRate: 10, EffectiveResponseRate: 12, TotalPendingDebt: 400,
	}
	// With the default table rule 2 would fire; with the lowered floor the
	// evaluation falls through to rule 3.
	got := e.Recommend(a)

	assert.Equal(t, domain.DecisionNo, got.Decision)
	assert.Contains(t, got.Reason, "not worth the cost")
}

func TestRecommend_EmptyAnalysisIsNo(t *testing.T) {
	e := New(Thresholds{})

	got := e.Recommend(domain.CampaignAnalysis{})

	assert.Equal(t, domain.DecisionNo, got.Decision)
}
