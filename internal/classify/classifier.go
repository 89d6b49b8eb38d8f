// Package classify implements the single authoritative "responded"
// predicate: an identifier has responded iff at least one ledger case
// exists for it with a non-null, nonzero conversation reference.
//
// Every responded/not-responded figure in the system calls through
// Classifier.Classify. Campaign, day and range views must never
// re-derive response status from ledger rows on their own.
package classify

import (
	"context"
	"sort"

	"github.com/ignite/collections-monitor/internal/pkg/logger"
)

// DefaultBatchSize keeps each IN-filter under typical backend
// query-size limits.
const DefaultBatchSize = 500

// ConversationRow is the minimal ledger projection the classifier needs.
// Ref is 0 for NULL conversation references.
type ConversationRow struct {
	Identifier int64
	Ref        int64
}

// Source fetches conversation references for up to batchSize identifiers
// at a time. Implemented by repository/postgres.LedgerRepo.
type Source interface {
	ConversationRefs(ctx context.Context, identifiers []int64) ([]ConversationRow, error)
}

// Classifier resolves response status against the master ledger.
type Classifier struct {
	source    Source
	batchSize int
}

// New creates a Classifier. batchSize <= 0 falls back to DefaultBatchSize.
func New(source Source, batchSize int) *Classifier {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Classifier{source: source, batchSize: batchSize}
}

// Classify returns a total map over the input set: every identifier appears
// in the output, defaulted to false unless the ledger proves engagement.
//
// Identifiers are queried in sorted order so repeated calls against the same
// ledger snapshot issue identical batches. A failing batch is logged and
// degrades to "no data" for its identifiers; remaining batches continue.
func (c *Classifier) Classify(ctx context.Context, identifiers []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(identifiers))
	for _, id := range identifiers {
		result[id] = false
	}

	sorted := make([]int64, 0, len(result))
	for id := range result {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for start := 0; start < len(sorted); start += c.batchSize {
		end := start + c.batchSize
		if end > len(sorted) {
			end = len(sorted)
		}
		batch := sorted[start:end]

		rows, err := c.source.ConversationRefs(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("classify: batch query failed, identifiers stay unresponded",
				"batch_start", start, "batch_size", len(batch), "error", err.Error())
			continue
		}
		for _, row := range rows {
			if row.Ref != 0 {
				result[row.Identifier] = true
			}
		}
	}
	return result, nil
}

// CountResponded tallies a classification map into (responded, notResponded).
func CountResponded(classified map[int64]bool, identifiers []int64) (responded, notResponded int) {
	for _, id := range identifiers {
		if classified[id] {
			responded++
		} else {
			notResponded++
		}
	}
	return responded, notResponded
}
