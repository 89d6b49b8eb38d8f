package responder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/collections-monitor/internal/campaign"
	"github.com/ignite/collections-monitor/internal/domain"
)

type fakeSource struct {
	records []domain.LedgerRecord
	fail    bool
	calls   int
}

func (f *fakeSource) EngagedRecords(_ context.Context, ids []int64) ([]domain.LedgerRecord, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("timeout")
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.LedgerRecord
	for _, rec := range f.records {
		if want[rec.Identifier] && rec.ConversationRef != 0 {
			out = append(out, rec)
		}
	}
	return out, nil
}

func positiveDays(n int) campaign.Source {
	return campaign.Source{
		Name:     "Dia +3",
		Category: domain.Category{Kind: domain.CategoryPositiveDays, Days: n},
	}
}

func TestResolve_ExactDayMatchWinsOverBalance(t *testing.T) {
	// Row X matches the expected day count with zero balance; row Y has a
	// balance but the wrong day count. X must win.
	src := &fakeSource{records: []domain.LedgerRecord{
		{Identifier: 999, ConversationRef: 1, DaysPastDue: 5, AmountPastDue: 200},
		{Identifier: 999, ConversationRef: 1, DaysPastDue: 3, AmountPastDue: 0},
	}}
	r := New(src, 0)

	res, err := r.Resolve(context.Background(), positiveDays(3), []int64{999})
	require.NoError(t, err)

	require.Len(t, res.Profiles, 1)
	assert.Equal(t, 3, res.Profiles[0].Record.DaysPastDue)
}

func TestResolve_PositiveBalanceFallback(t *testing.T) {
	src := &fakeSource{records: []domain.LedgerRecord{
		{Identifier: 1, ConversationRef: 9, DaysPastDue: 10, AmountPastDue: 0},
		{Identifier: 1, ConversationRef: 9, DaysPastDue: 7, AmountPastDue: 150},
	}}
	r := New(src, 0)

	res, err := r.Resolve(context.Background(), positiveDays(3), []int64{1})
	require.NoError(t, err)

	require.Len(t, res.Profiles, 1)
	assert.Equal(t, 150.0, res.Profiles[0].Record.AmountPastDue)
}

func TestResolve_FirstRecordFallback(t *testing.T) {
	src := &fakeSource{records: []domain.LedgerRecord{
		{Identifier: 1, ConversationRef: 9, DaysPastDue: 10},
		{Identifier: 1, ConversationRef: 9, DaysPastDue: 7},
	}}
	r := New(src, 0)

	commitment := campaign.Source{
		Name:     "Compromiso",
		Category: domain.Category{Kind: domain.CategoryPaymentCommitment},
	}
	res, err := r.Resolve(context.Background(), commitment, []int64{1})
	require.NoError(t, err)

	require.Len(t, res.Profiles, 1)
	assert.Equal(t, 10, res.Profiles[0].Record.DaysPastDue, "first record in source order")
}

func TestClassifyDebt_ReceiptShortCircuits(t *testing.T) {
	rec := domain.LedgerRecord{
		ReceiptSent:                  true,
		PaymentType:                  domain.PaymentPartial,
		RemainingPastDueAfterPartial: 300,
	}

	debt, status := classifyDebt(rec, domain.Category{Kind: domain.CategoryPositiveDays, Days: 3})

	assert.Equal(t, 0.0, debt)
	assert.Equal(t, domain.StatusUnderReview, status)
}

func TestClassifyDebt_PriorityOrder(t *testing.T) {
	posCat := domain.Category{Kind: domain.CategoryPositiveDays, Days: 3}
	negCat := domain.Category{Kind: domain.CategoryNegativeDays, Days: -5}
	comCat := domain.Category{Kind: domain.CategoryPaymentCommitment}

	tests := []struct {
		name       string
		rec        domain.LedgerRecord
		cat        domain.Category
		wantDebt   float64
		wantStatus string
	}{
		{"total payment", domain.LedgerRecord{PaymentType: domain.PaymentTotal, AmountPastDue: 500}, posCat, 0, domain.StatusPaidTotal},
		{"partial payment", domain.LedgerRecord{PaymentType: domain.PaymentPartial, RemainingPastDueAfterPartial: 120}, posCat, 120, domain.StatusPaidPartial},
		{"positive days uses past due", domain.LedgerRecord{AmountPastDue: 400, AmountNotYetDue: 50}, posCat, 400, domain.StatusPending},
		{"negative days uses not yet due", domain.LedgerRecord{AmountPastDue: 400, AmountNotYetDue: 50}, negCat, 50, domain.StatusPending},
		{"reactivation uses past due", domain.LedgerRecord{AmountPastDue: 80}, domain.Category{Kind: domain.CategoryReactivation}, 80, domain.StatusPending},
		{"commitment not yet due side", domain.LedgerRecord{DaysPastDue: -2, AmountNotYetDue: 60, AmountPastDue: 10}, comCat, 60, domain.StatusPending},
		{"commitment past due side", domain.LedgerRecord{DaysPastDue: 4, AmountNotYetDue: 60, AmountPastDue: 10}, comCat, 10, domain.StatusPending},
		{"settled balance", domain.LedgerRecord{AmountPastDue: 0}, posCat, 0, domain.StatusNoDebt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debt, status := classifyDebt(tt.rec, tt.cat)
			assert.Equal(t, tt.wantDebt, debt)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestResolve_Analysis(t *testing.T) {
	commitDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{records: []domain.LedgerRecord{
		{Identifier: 1, ConversationRef: 1, DaysPastDue: 3, AmountPastDue: 1000},
		{Identifier: 2, ConversationRef: 2, DaysPastDue: 3, PaymentType: domain.PaymentTotal},
		{Identifier: 3, ConversationRef: 3, DaysPastDue: 3, PaymentType: domain.PaymentPartial, AmountPastDue: 350, RemainingPastDueAfterPartial: 200},
		{Identifier: 4, ConversationRef: 4, DaysPastDue: 3, AmountPastDue: 0, CommitmentDate: &commitDate},
	}}
	r := New(src, 0)

	res, err := r.Resolve(context.Background(), positiveDays(3), []int64{1, 2, 3, 4})
	require.NoError(t, err)

	a := res.Analysis
	assert.Equal(t, 4, a.TotalResponders)
	assert.Equal(t, 1200.0, a.TotalPendingDebt)
	// id 2 paid total; id 4's past-due balance reads zero; id 2's balances
	// also read zero but it only counts once.
	assert.Equal(t, 50.0, a.AlreadyPaidRate)
	assert.Equal(t, 50.0, a.NoDebtAnymoreRate)
	assert.Equal(t, 25.0, a.PartialPaymentRate)
	assert.Equal(t, 25.0, a.AgendoCompromisoRate)
	assert.Equal(t, 3.0, a.AverageDaysPastDue)
}

func TestResolve_EmptyIdentifiers(t *testing.T) {
	r := New(&fakeSource{}, 0)

	res, err := r.Resolve(context.Background(), positiveDays(3), nil)
	require.NoError(t, err)

	assert.Empty(t, res.Profiles)
	assert.Zero(t, res.Analysis.TotalResponders)
	assert.Zero(t, res.Analysis.TotalPendingDebt)
}

func TestResolve_FailedBatchSkipsIdentifiers(t *testing.T) {
	src := &fakeSource{fail: true}
	r := New(src, 0)

	res, err := r.Resolve(context.Background(), positiveDays(3), []int64{1, 2})
	require.NoError(t, err, "batch failure degrades, never aborts")

	assert.Empty(t, res.Profiles)
}

func TestResolve_Deterministic(t *testing.T) {
	src := &fakeSource{records: []domain.LedgerRecord{
		{Identifier: 5, ConversationRef: 1, DaysPastDue: 8, AmountPastDue: 100},
		{Identifier: 5, ConversationRef: 1, DaysPastDue: 6, AmountPastDue: 100},
		{Identifier: 6, ConversationRef: 1, DaysPastDue: 3, AmountPastDue: 40},
	}}
	r := New(src, 0)

	first, err := r.Resolve(context.Background(), positiveDays(3), []int64{6, 5})
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), positiveDays(3), []int64{5, 6})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
