// Package recommend derives a binary send/no-send verdict per campaign
// from its responder analysis, via an ordered decision table. The first
// matching rule wins and reports the values it actually looked at.
package recommend

import (
	"fmt"

	"github.com/ignite/collections-monitor/internal/domain"
)

// Thresholds are the tunable cut-offs of the decision table. The defaults
// are the operating values the collections team validated; change them in
// config, not here.
type Thresholds struct {
	AlreadyPaidStop     float64 `yaml:"already_paid_stop"`     // rule 1: above this, campaign already did its job
	MinResponseRate     float64 `yaml:"min_response_rate"`     // rule 2: below this, nobody is listening
	MinPendingDebt      float64 `yaml:"min_pending_debt"`      // rule 3: below this, not worth the message cost
	PartialRateGo       float64 `yaml:"partial_rate_go"`       // rule 4: partial payers worth chasing
	PartialDebtGo       float64 `yaml:"partial_debt_go"`       //         ...when this much is still open
	HighResponseGo      float64 `yaml:"high_response_go"`      // rule 5: strong engagement
	HighDebtGo          float64 `yaml:"high_debt_go"`          //         ...with significant debt
	HighPaidCeiling     float64 `yaml:"high_paid_ceiling"`     //         ...and room left to collect
	ModerateResponse    float64 `yaml:"moderate_response"`     // rule 6: borderline engagement
	ModerateDebt        float64 `yaml:"moderate_debt"`         //         ...with borderline debt
	StillPendingGo      float64 `yaml:"still_pending_go"`      //         decided by what remains unpaid
}

// DefaultThresholds returns the documented operating values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AlreadyPaidStop:  60,
		MinResponseRate:  15,
		MinPendingDebt:   500,
		PartialRateGo:    30,
		PartialDebtGo:    1000,
		HighResponseGo:   30,
		HighDebtGo:       2000,
		HighPaidCeiling:  40,
		ModerateResponse: 20,
		ModerateDebt:     1000,
		StillPendingGo:   50,
	}
}

// Engine evaluates the decision table.
type Engine struct {
	t Thresholds
}

// New creates an Engine. Zero thresholds fall back to the defaults
// wholesale (a partially-zero table would silently change semantics).
func New(t Thresholds) *Engine {
	if t == (Thresholds{}) {
		t = DefaultThresholds()
	}
	return &Engine{t: t}
}

// Recommend evaluates the table top to bottom; the first matching rule
// decides. Each reason embeds the rates and amounts the rule compared,
// formatted for display.
func (e *Engine) Recommend(a domain.CampaignAnalysis) domain.Recommendation {
	t := e.t
	rec := domain.Recommendation{Metrics: a}

	switch {
	case a.AlreadyPaidRate > t.AlreadyPaidStop:
		rec.Decision = domain.DecisionNo
		rec.Reason = fmt.Sprintf(
			"campaign already effective: %.1f%% of responders have paid (threshold %.0f%%)",
			a.AlreadyPaidRate, t.AlreadyPaidStop)

	case a.EffectiveResponseRate < t.MinResponseRate:
		rec.Decision = domain.DecisionNo
		rec.Reason = fmt.Sprintf(
			"response too low: %.1f%% effective response (minimum %.0f%%)",
			a.EffectiveResponseRate, t.MinResponseRate)

	case a.TotalPendingDebt < t.MinPendingDebt:
		rec.Decision = domain.DecisionNo
		rec.Reason = fmt.Sprintf(
			"not worth the cost: $%.2f pending debt (minimum $%.0f)",
			a.TotalPendingDebt, t.MinPendingDebt)

	case a.PartialPaymentRate > t.PartialRateGo && a.TotalPendingDebt > t.PartialDebtGo:
		rec.Decision = domain.DecisionYes
		rec.Reason = fmt.Sprintf(
			"partial payments worth following up: %.1f%% paid partially with $%.2f still pending",
			a.PartialPaymentRate, a.TotalPendingDebt)

	case a.EffectiveResponseRate > t.HighResponseGo &&
		a.TotalPendingDebt > t.HighDebtGo &&
		a.AlreadyPaidRate < t.HighPaidCeiling:
		rec.Decision = domain.DecisionYes
		rec.Reason = fmt.Sprintf(
			"high response + significant debt: %.1f%% response, $%.2f pending, only %.1f%% already paid",
			a.EffectiveResponseRate, a.TotalPendingDebt, a.AlreadyPaidRate)

	case a.EffectiveResponseRate >= t.ModerateResponse && a.TotalPendingDebt >= t.ModerateDebt:
		stillPending := 100 - a.AlreadyPaidRate
		if stillPending > t.StillPendingGo {
			rec.Decision = domain.DecisionYes
			rec.Reason = fmt.Sprintf(
				"moderate response with %.1f%% of responders still pending on $%.2f",
				stillPending, a.TotalPendingDebt)
		} else {
			rec.Decision = domain.DecisionNo
			rec.Reason = fmt.Sprintf(
				"moderate response but only %.1f%% still pending (needs more than %.0f%%)",
				stillPending, t.StillPendingGo)
		}

	default:
		rec.Decision = domain.DecisionNo
		rec.Reason = fmt.Sprintf(
			"metrics do not justify resend: %.1f%% response, $%.2f pending, %.1f%% already paid",
			a.EffectiveResponseRate, a.TotalPendingDebt, a.AlreadyPaidRate)
	}

	return rec
}
