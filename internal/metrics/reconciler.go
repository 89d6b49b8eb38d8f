// Package metrics reconciles aggregation output with response
// classification into the per-campaign and global engagement figures the
// dashboard displays.
package metrics

import (
	"github.com/ignite/collections-monitor/internal/campaign"
	"github.com/ignite/collections-monitor/internal/classify"
	"github.com/ignite/collections-monitor/internal/domain"
	"github.com/ignite/collections-monitor/internal/pkg/logger"
)

// Report carries both views of one aggregation pass. Global and
// per-campaign are independently meaningful: per-campaign responded counts
// may sum past the global figure when identifiers overlap across
// campaigns. Never collapse them into one number.
type Report struct {
	Global      domain.CampaignMetrics   `json:"global"`
	PerCampaign []domain.CampaignMetrics `json:"per_campaign"`
}

// Reconcile combines one aggregation pass with one classification pass.
//
// The classification must have been computed once, over the union of all
// involved identifiers — never per campaign — so that every campaign's
// counts come from the same snapshot. Identifiers missing from the
// classification map count as not responded, which keeps the counting
// function total over each identifier set.
func Reconcile(agg *campaign.Aggregate, classified map[int64]bool) *Report {
	report := &Report{
		Global: buildMetrics("", agg.Sent, agg.Cost, agg.Identifiers.Keys(), classified),
	}
	for _, sa := range agg.PerSource {
		report.PerCampaign = append(report.PerCampaign,
			buildMetrics(sa.Source.Name, sa.Sent, sa.Cost, sa.Identifiers.Keys(), classified))
	}
	return report
}

func buildMetrics(name string, sent int, cost float64, ids []int64, classified map[int64]bool) domain.CampaignMetrics {
	responded, notResponded := classify.CountResponded(classified, ids)

	m := domain.CampaignMetrics{
		Campaign:          name,
		Sent:              sent,
		Cost:              cost,
		UniqueIdentifiers: len(ids),
		Responded:         responded,
		NotResponded:      notResponded,
	}

	// By construction this cannot fail: CountResponded is total over ids.
	// A violation means the normalizer and classifier disagree about the
	// identifier set — a logic bug to fix, not a condition to correct.
	if m.Responded+m.NotResponded != m.UniqueIdentifiers {
		logger.Error("metrics: reconciliation invariant violated",
			"campaign", name,
			"responded", m.Responded,
			"not_responded", m.NotResponded,
			"unique_identifiers", m.UniqueIdentifiers,
			"sent", m.Sent)
	}
	return m
}
