// Package responder builds per-campaign responder profiles: for each
// identifier that engaged, it picks the single most relevant ledger case,
// classifies the debt that campaign stage cares about, and rolls the
// results up into the analysis the recommendation engine consumes.
package responder

import (
	"context"
	"sort"

	"github.com/ignite/collections-monitor/internal/campaign"
	"github.com/ignite/collections-monitor/internal/domain"
	"github.com/ignite/collections-monitor/internal/pkg/logger"
)

// DefaultBatchSize mirrors the classifier's backend query-size limit.
const DefaultBatchSize = 500

// Source batch-fetches full ledger records for identifiers, already
// filtered to engaged cases (non-null, nonzero conversation reference) and
// in a deterministic order. Implemented by repository/postgres.LedgerRepo.
type Source interface {
	EngagedRecords(ctx context.Context, identifiers []int64) ([]domain.LedgerRecord, error)
}

// Result is one campaign's resolved responder set.
//
// Analysis.EffectiveResponseRate is not known here — it needs the
// campaign's unique-identifier count from the reconciler — so it is left
// at zero for the caller (internal/report) to fill in.
type Result struct {
	Profiles []domain.ResponderProfile `json:"profiles"`
	Analysis domain.CampaignAnalysis   `json:"analysis"`
}

// Resolver resolves responder profiles against the master ledger.
type Resolver struct {
	source    Source
	batchSize int
}

// New creates a Resolver. batchSize <= 0 falls back to DefaultBatchSize.
func New(source Source, batchSize int) *Resolver {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Resolver{source: source, batchSize: batchSize}
}

// Resolve fetches and deduplicates ledger cases for the campaign's
// identifiers, then computes the campaign analysis.
//
// All batches are fetched before any selection runs: the dedup rule needs
// full visibility into every case an identifier owns. A failed batch is
// logged and its identifiers are simply absent from the result (they
// contribute zero); remaining batches continue. The whole pass is a pure
// function of the ledger snapshot and the campaign source, so repeated
// calls against an unchanged ledger return identical results.
func (r *Resolver) Resolve(ctx context.Context, src campaign.Source, identifiers []int64) (*Result, error) {
	sorted := append([]int64(nil), identifiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var records []domain.LedgerRecord
	for start := 0; start < len(sorted); start += r.batchSize {
		end := start + r.batchSize
		if end > len(sorted) {
			end = len(sorted)
		}
		batch, err := r.source.EngagedRecords(ctx, sorted[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("responder: batch fetch failed, identifiers skipped",
				"campaign", src.Name, "batch_start", start, "error", err.Error())
			continue
		}
		records = append(records, batch...)
	}

	// Group by identifier preserving the repository's deterministic order;
	// remember first-seen order of identifiers for stable output.
	grouped := make(map[int64][]domain.LedgerRecord)
	var order []int64
	for _, rec := range records {
		if _, seen := grouped[rec.Identifier]; !seen {
			order = append(order, rec.Identifier)
		}
		grouped[rec.Identifier] = append(grouped[rec.Identifier], rec)
	}

	result := &Result{Analysis: domain.CampaignAnalysis{Campaign: src.Name}}
	for _, id := range order {
		rec := selectRecord(grouped[id], src.Category)
		debt, status := classifyDebt(rec, src.Category)
		result.Profiles = append(result.Profiles, domain.ResponderProfile{
			Record:        rec,
			RelevantDebt:  debt,
			PaymentStatus: status,
		})
	}

	result.Analysis = analyze(src, result.Profiles)
	return result, nil
}

// selectRecord picks exactly one ledger case per identifier:
//  1. a case whose daysPastDue equals the campaign's expected day count,
//  2. else, for day-count campaigns, the first case with a positive past-due
//     or not-yet-due balance,
//  3. else the first case.
//
// "First" is the repository's ordering (identifier, days_past_due DESC,
// amount_past_due DESC), which makes ties on rule 2 deterministic.
func selectRecord(records []domain.LedgerRecord, cat domain.Category) domain.LedgerRecord {
	if cat.HasExpectedDays() {
		expected := cat.ExpectedDays()
		for _, rec := range records {
			if rec.DaysPastDue == expected {
				return rec
			}
		}
		for _, rec := range records {
			if rec.AmountPastDue > 0 || rec.AmountNotYetDue > 0 {
				return rec
			}
		}
	}
	return records[0]
}

// classifyDebt applies the relevant-debt rules in strict priority order.
// A sent receipt short-circuits everything: the payment is under review
// and no balance is chased until verification.
func classifyDebt(rec domain.LedgerRecord, cat domain.Category) (float64, string) {
	switch {
	case rec.ReceiptSent:
		return 0, domain.StatusUnderReview
	case rec.PaymentType == domain.PaymentTotal:
		return 0, domain.StatusPaidTotal
	case rec.PaymentType == domain.PaymentPartial:
		return rec.RemainingPastDueAfterPartial, domain.StatusPaidPartial
	}

	debt := categoryAmount(rec, cat)
	if noDebtAnymore(rec, cat) {
		return debt, domain.StatusNoDebt
	}
	return debt, domain.StatusPending
}

// categoryAmount returns the balance a campaign stage actually chases.
func categoryAmount(rec domain.LedgerRecord, cat domain.Category) float64 {
	switch cat.Kind {
	case domain.CategoryPositiveDays, domain.CategoryReactivation:
		return rec.AmountPastDue
	case domain.CategoryNegativeDays, domain.CategoryZeroDays:
		return rec.AmountNotYetDue
	default:
		// Commitment and untagged campaigns follow the sign of the case.
		if rec.DaysPastDue <= 0 {
			return rec.AmountNotYetDue
		}
		return rec.AmountPastDue
	}
}

// noDebtAnymore reports whether the balance relevant to the campaign stage
// is already settled.
func noDebtAnymore(rec domain.LedgerRecord, cat domain.Category) bool {
	switch cat.Kind {
	case domain.CategoryPositiveDays, domain.CategoryReactivation:
		return rec.AmountPastDue == 0
	case domain.CategoryNegativeDays, domain.CategoryZeroDays:
		return rec.AmountNotYetDue == 0
	case domain.CategoryPaymentCommitment:
		return rec.AmountPastDue == 0 && rec.AmountNotYetDue == 0
	default:
		return categoryAmount(rec, cat) == 0
	}
}

// analyze rolls the profiles up into the campaign analysis. Rates are
// percentages of the responder count; an empty responder set yields all
// zeros (a valid, displayable outcome).
func analyze(src campaign.Source, profiles []domain.ResponderProfile) domain.CampaignAnalysis {
	a := domain.CampaignAnalysis{
		Campaign:        src.Name,
		TotalResponders: len(profiles),
	}
	if len(profiles) == 0 {
		return a
	}

	var (
		paidTotal   int
		paidPartial int
		noDebt      int
		receipts    int
		commitments int
		daysSum     int
	)
	for _, p := range profiles {
		rec := p.Record
		a.TotalPendingDebt += p.RelevantDebt
		daysSum += rec.DaysPastDue

		if rec.PaymentType == domain.PaymentTotal {
			paidTotal++
		}
		if rec.PaymentType == domain.PaymentPartial {
			paidPartial++
		}
		if noDebtAnymore(rec, src.Category) {
			noDebt++
		}
		if rec.ReceiptSent {
			receipts++
		}
		if rec.CommitmentDate != nil {
			commitments++
		}
	}

	// A full payer whose balances already read zero counts once: the
	// settled-balance count only adds responders not already counted as
	// total payments, keeping the rate inside [0, 100].
	alreadyPaid := paidTotal
	for _, p := range profiles {
		if p.Record.PaymentType != domain.PaymentTotal && noDebtAnymore(p.Record, src.Category) {
			alreadyPaid++
		}
	}

	n := float64(len(profiles))
	a.AlreadyPaidRate = float64(alreadyPaid) / n * 100
	a.PartialPaymentRate = float64(paidPartial) / n * 100
	a.NoDebtAnymoreRate = float64(noDebt) / n * 100
	a.SentReceiptRate = float64(receipts) / n * 100
	a.AgendoCompromisoRate = float64(commitments) / n * 100
	a.AverageDaysPastDue = float64(daysSum) / n
	return a
}
