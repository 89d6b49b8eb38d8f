package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestNewLedgerRepo_TableValidation(t *testing.T) {
	db, _ := setupMockDB(t)

	repo, err := NewLedgerRepo(db, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLedgerTable, repo.table)

	_, err = NewLedgerRepo(db, "ledger; DROP TABLE users")
	assert.Error(t, err)
}

func TestConversationRefs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo, err := NewLedgerRepo(db, "")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT identifier, COALESCE\\(conversation_ref, 0\\)").
		WillReturnRows(sqlmock.NewRows([]string{"identifier", "conversation_ref"}).
			AddRow(111, 42).
			AddRow(222, 0).
			AddRow(333, 0)) // NULL scans as 0 via COALESCE

	rows, err := repo.ConversationRefs(context.Background(), []int64{111, 222, 333})
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, int64(111), rows[0].Identifier)
	assert.Equal(t, int64(42), rows[0].Ref)
	assert.Equal(t, int64(0), rows[1].Ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagedRecords(t *testing.T) {
	db, mock := setupMockDB(t)
	repo, err := NewLedgerRepo(db, "master_ledger")
	require.NoError(t, err)

	commitment := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{
		"identifier", "display_name", "phone", "conversation_ref",
		"amount_past_due", "amount_not_yet_due", "remaining_past_due",
		"days_past_due", "receipt_sent", "claims_already_paid",
		"call_again", "payment_type", "commitment_date", "state_tag",
	}
	mock.ExpectQuery("FROM master_ledger").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(999, "Maria G", "+56912345678", 7, 200.0, 0.0, 0.0, 5, false, false, false, "", nil, "").
			AddRow(999, "Maria G", "+56912345678", 7, 0.0, 50.0, 0.0, 3, true, false, true, "Parcial", commitment, "activa"))

	recs, err := repo.EngagedRecords(context.Background(), []int64{999})
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, int64(999), recs[0].Identifier)
	assert.Equal(t, 200.0, recs[0].AmountPastDue)
	assert.Nil(t, recs[0].CommitmentDate)
	assert.True(t, recs[1].ReceiptSent)
	require.NotNil(t, recs[1].CommitmentDate)
	assert.Equal(t, commitment, *recs[1].CommitmentDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagedRecords_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo, err := NewLedgerRepo(db, "")
	require.NoError(t, err)

	mock.ExpectQuery("FROM master_ledger").WillReturnError(sql.ErrConnDone)

	_, err = repo.EngagedRecords(context.Background(), []int64{1})
	assert.Error(t, err)
}

func TestSendsInRange(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSendRepo(db)

	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM sends_day_minus5").
		WithArgs(day, day).
		WillReturnRows(sqlmock.NewRows([]string{"send_date", "sent_count", "identifiers"}).
			AddRow(day, 3, "{001,2,N/A}"))

	recs, err := repo.SendsInRange(context.Background(), "sends_day_minus5", day, day)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].SentCount)
	assert.Equal(t, []string{"001", "2", "N/A"}, recs[0].Identifiers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendsInRange_RejectsBadTable(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewSendRepo(db)

	_, err := repo.SendsInRange(context.Background(), "x; --", time.Now(), time.Now())
	assert.Error(t, err)
}
