// Package campaign aggregates send-batch events across registered campaign
// sources: send totals, message cost, and the deduplicated identifier sets
// that feed response classification.
package campaign

import (
	"context"
	"time"

	"github.com/ignite/collections-monitor/internal/domain"
	"github.com/ignite/collections-monitor/internal/identity"
	"github.com/ignite/collections-monitor/internal/pkg/logger"
)

// DefaultCostRate is the per-message rate charged by the messaging
// provider. Override via config; never hardcode at call sites.
const DefaultCostRate = 0.014

// Source is one registered campaign-send table. The category tag is
// assigned here, at registration, and flows with the source; downstream
// code never re-parses display names.
type Source struct {
	Name     string          `json:"name"`
	Table    string          `json:"table"`
	Category domain.Category `json:"category"`
}

// SendStore fetches send-batch rows for one source table in a date range.
// Implemented by repository/postgres.SendRepo.
type SendStore interface {
	SendsInRange(ctx context.Context, table string, start, end time.Time) ([]domain.CampaignSendRecord, error)
}

// SourceAggregate is one campaign's slice of an aggregation pass.
type SourceAggregate struct {
	Source      Source
	Sent        int
	Cost        float64
	Identifiers identity.KeySet
}

// Aggregate is the result of one pass over all sources for a date range.
//
// The per-source unique counts may sum to more than the global unique
// count: a customer contacted by several campaigns counts once globally
// but once in each campaign. That is the product's accounting rule, not
// double-counting.
type Aggregate struct {
	Start       time.Time
	End         time.Time
	Sent        int
	Cost        float64
	Identifiers identity.KeySet
	PerSource   []SourceAggregate
}

// Aggregator runs aggregation passes over the registered sources.
type Aggregator struct {
	store    SendStore
	sources  []Source
	costRate float64
}

// NewAggregator creates an Aggregator. costRate <= 0 falls back to
// DefaultCostRate.
func NewAggregator(store SendStore, sources []Source, costRate float64) *Aggregator {
	if costRate <= 0 {
		costRate = DefaultCostRate
	}
	return &Aggregator{store: store, sources: sources, costRate: costRate}
}

// CostRate returns the configured per-message rate.
func (a *Aggregator) CostRate() float64 { return a.costRate }

// Sources returns the registered campaign sources.
func (a *Aggregator) Sources() []Source { return a.sources }

// SourceByName returns the registered source with the given name.
func (a *Aggregator) SourceByName(name string) (Source, bool) {
	for _, s := range a.sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// Run aggregates every registered source over [start, end] inclusive
// (single-day view is start == end). A source whose query fails contributes
// zero to every metric but never aborts its siblings; the failure is logged
// and the pass continues.
func (a *Aggregator) Run(ctx context.Context, start, end time.Time) (*Aggregate, error) {
	agg := &Aggregate{
		Start:       start,
		End:         end,
		Identifiers: make(identity.KeySet),
	}

	for _, src := range a.sources {
		sa := SourceAggregate{Source: src, Identifiers: make(identity.KeySet)}

		records, err := a.store.SendsInRange(ctx, src.Table, start, end)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("aggregate: source query failed, contributes zero",
				"campaign", src.Name, "table", src.Table, "error", err.Error())
			agg.PerSource = append(agg.PerSource, sa)
			continue
		}

		for _, rec := range records {
			sa.Sent += rec.SentCount
			sa.Identifiers.Merge(identity.NormalizeAll(rec.Identifiers))
		}
		sa.Cost = Cost(sa.Sent, a.costRate)

		agg.Sent += sa.Sent
		agg.Identifiers.Merge(sa.Identifiers)
		agg.PerSource = append(agg.PerSource, sa)
	}

	agg.Cost = Cost(agg.Sent, a.costRate)
	return agg, nil
}

// Cost is the exact per-message billing rule: sent × rate.
func Cost(sent int, rate float64) float64 {
	return float64(sent) * rate
}
