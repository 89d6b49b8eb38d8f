// Package report orchestrates the metrics pipeline: aggregate sends,
// classify responses once over the union, reconcile, and resolve
// per-campaign responder detail on demand.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/collections-monitor/internal/cache"
	"github.com/ignite/collections-monitor/internal/campaign"
	"github.com/ignite/collections-monitor/internal/classify"
	"github.com/ignite/collections-monitor/internal/domain"
	"github.com/ignite/collections-monitor/internal/metrics"
	"github.com/ignite/collections-monitor/internal/pkg/logger"
	"github.com/ignite/collections-monitor/internal/recommend"
	"github.com/ignite/collections-monitor/internal/responder"
)

// ErrUnknownCampaign is returned for campaign names not in the registry.
var ErrUnknownCampaign = errors.New("unknown campaign")

// Dashboard is the one-call payload for the day/range view.
type Dashboard struct {
	Start           string                  `json:"start"`
	End             string                  `json:"end"`
	Global          domain.CampaignMetrics  `json:"global"`
	PerCampaign     []CampaignDashboardRow  `json:"per_campaign"`
}

// CampaignDashboardRow is one campaign's metrics plus its category tag.
type CampaignDashboardRow struct {
	domain.CampaignMetrics
	Category domain.Category `json:"category"`
}

// RespondersView is the lazy per-campaign detail payload.
type RespondersView struct {
	Date     string                    `json:"date"`
	Campaign string                    `json:"campaign"`
	Profiles []domain.ResponderProfile `json:"profiles"`
	Analysis domain.CampaignAnalysis   `json:"analysis"`
}

// Service runs the reporting pipeline. Each call computes fresh from the
// backend; the global pass and the per-campaign detail pass do not share
// a ledger snapshot (staleness between them is accepted and bounded by
// the responder cache TTL).
type Service struct {
	aggregator *campaign.Aggregator
	classifier *classify.Classifier
	resolver   *responder.Resolver
	engine     *recommend.Engine
	cache      *cache.ResponderCache // nil disables caching
}

// NewService wires the pipeline. cache may be nil.
func NewService(
	aggregator *campaign.Aggregator,
	classifier *classify.Classifier,
	resolver *responder.Resolver,
	engine *recommend.Engine,
	respCache *cache.ResponderCache,
) *Service {
	return &Service{
		aggregator: aggregator,
		classifier: classifier,
		resolver:   resolver,
		engine:     engine,
		cache:      respCache,
	}
}

// Dashboard aggregates all campaigns over [start, end] and reconciles
// against a single classification pass over the union of identifiers, so
// per-campaign and global counts come from the same snapshot.
func (s *Service) Dashboard(ctx context.Context, start, end time.Time) (*Dashboard, error) {
	passID := uuid.New().String()
	began := time.Now()

	agg, err := s.aggregator.Run(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	classified, err := s.classifier.Classify(ctx, agg.Identifiers.Keys())
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	report := metrics.Reconcile(agg, classified)

	d := &Dashboard{
		Start:  start.Format("2006-01-02"),
		End:    end.Format("2006-01-02"),
		Global: report.Global,
	}
	for i, m := range report.PerCampaign {
		d.PerCampaign = append(d.PerCampaign, CampaignDashboardRow{
			CampaignMetrics: m,
			Category:        agg.PerSource[i].Source.Category,
		})
	}

	logger.Info("report: dashboard computed",
		"pass_id", passID,
		"start", d.Start, "end", d.End,
		"sent", d.Global.Sent,
		"unique", d.Global.UniqueIdentifiers,
		"responded", d.Global.Responded,
		"took_ms", time.Since(began).Milliseconds())
	return d, nil
}

// CampaignResponders resolves the responder profiles for one campaign on
// one day, serving from the cache when possible. The analysis comes back
// with EffectiveResponseRate filled from the same classification predicate
// the dashboard uses.
func (s *Service) CampaignResponders(ctx context.Context, name string, date time.Time) (*RespondersView, error) {
	src, ok := s.aggregator.SourceByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCampaign, name)
	}

	if s.cache != nil {
		if cached, hit := s.cache.Get(ctx, name, date); hit {
			return s.view(name, date, cached), nil
		}
	}

	agg, err := s.aggregator.Run(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	var ids []int64
	for _, sa := range agg.PerSource {
		if sa.Source.Name == name {
			ids = sa.Identifiers.Keys()
			break
		}
	}

	result, err := s.resolver.Resolve(ctx, src, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve responders: %w", err)
	}

	classified, err := s.classifier.Classify(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	responded, _ := classify.CountResponded(classified, ids)
	if len(ids) > 0 {
		result.Analysis.EffectiveResponseRate = float64(responded) / float64(len(ids)) * 100
	}

	if s.cache != nil {
		s.cache.Set(ctx, name, date, result)
	}
	return s.view(name, date, result), nil
}

// CampaignRecommendation evaluates the decision table for one campaign on
// one day, on top of the resolved responder analysis.
func (s *Service) CampaignRecommendation(ctx context.Context, name string, date time.Time) (*domain.Recommendation, error) {
	view, err := s.CampaignResponders(ctx, name, date)
	if err != nil {
		return nil, err
	}
	rec := s.engine.Recommend(view.Analysis)
	return &rec, nil
}

// InvalidateDate drops cached responder sets for a date; called when the
// dashboard's date filter moves.
func (s *Service) InvalidateDate(ctx context.Context, date time.Time) {
	if s.cache != nil {
		s.cache.InvalidateDate(ctx, date)
	}
}

func (s *Service) view(name string, date time.Time, result *responder.Result) *RespondersView {
	return &RespondersView{
		Date:     date.Format("2006-01-02"),
		Campaign: name,
		Profiles: result.Profiles,
		Analysis: result.Analysis,
	}
}
