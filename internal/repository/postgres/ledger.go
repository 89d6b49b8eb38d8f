// Package postgres implements the data-source interfaces of the classify,
// responder and campaign packages against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/lib/pq"

	"github.com/ignite/collections-monitor/internal/classify"
	"github.com/ignite/collections-monitor/internal/domain"
)

// DefaultLedgerTable is the master customer/case table written by the
// operational bots and agents. This service only reads it.
const DefaultLedgerTable = "master_ledger"

// identPattern guards interpolated table names. Table names come from the
// config registry, not from requests, but they still pass through here.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func validIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// LedgerRepo reads the master ledger. It implements classify.Source and
// responder.Source.
type LedgerRepo struct {
	db    *sql.DB
	table string
}

// NewLedgerRepo creates a Postgres-backed ledger reader. An empty table
// name falls back to DefaultLedgerTable.
func NewLedgerRepo(db *sql.DB, table string) (*LedgerRepo, error) {
	if table == "" {
		table = DefaultLedgerTable
	}
	if err := validIdent(table); err != nil {
		return nil, err
	}
	return &LedgerRepo{db: db, table: table}, nil
}

// ConversationRefs fetches (identifier, conversation_ref) pairs for one
// batch of identifiers. NULL references scan as 0, so the classifier's
// single zero check covers both "no conversation" encodings.
func (r *LedgerRepo) ConversationRefs(ctx context.Context, identifiers []int64) ([]classify.ConversationRow, error) {
	q := fmt.Sprintf(`
		SELECT identifier, COALESCE(conversation_ref, 0)
		FROM %s
		WHERE identifier = ANY($1)
	`, r.table)

	rows, err := r.db.QueryContext(ctx, q, pq.Array(identifiers))
	if err != nil {
		return nil, fmt.Errorf("conversation refs: %w", err)
	}
	defer rows.Close()

	var out []classify.ConversationRow
	for rows.Next() {
		var row classify.ConversationRow
		if err := rows.Scan(&row.Identifier, &row.Ref); err != nil {
			return nil, fmt.Errorf("scan conversation ref: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// EngagedRecords fetches full ledger cases for one batch of identifiers,
// filtered to cases that reached the chat platform. The ORDER BY makes
// "first record" deterministic for the responder dedup fallback: within an
// identifier, the most overdue case with the largest balance comes first.
func (r *LedgerRepo) EngagedRecords(ctx context.Context, identifiers []int64) ([]domain.LedgerRecord, error) {
	q := fmt.Sprintf(`
		SELECT identifier, COALESCE(display_name, ''), COALESCE(phone, ''),
		       conversation_ref,
		       COALESCE(amount_past_due, 0), COALESCE(amount_not_yet_due, 0),
		       COALESCE(remaining_past_due, 0), COALESCE(days_past_due, 0),
		       COALESCE(receipt_sent, FALSE), COALESCE(claims_already_paid, FALSE),
		       COALESCE(call_again, FALSE), COALESCE(payment_type, ''),
		       commitment_date, COALESCE(state_tag, '')
		FROM %s
		WHERE identifier = ANY($1)
		  AND conversation_ref IS NOT NULL
		  AND conversation_ref <> 0
		ORDER BY identifier, days_past_due DESC, amount_past_due DESC
	`, r.table)

	rows, err := r.db.QueryContext(ctx, q, pq.Array(identifiers))
	if err != nil {
		return nil, fmt.Errorf("engaged records: %w", err)
	}
	defer rows.Close()

	var out []domain.LedgerRecord
	for rows.Next() {
		var rec domain.LedgerRecord
		var commitment sql.NullTime
		if err := rows.Scan(
			&rec.Identifier, &rec.DisplayName, &rec.Phone,
			&rec.ConversationRef,
			&rec.AmountPastDue, &rec.AmountNotYetDue,
			&rec.RemainingPastDueAfterPartial, &rec.DaysPastDue,
			&rec.ReceiptSent, &rec.ClaimsAlreadyPaid,
			&rec.CallAgain, &rec.PaymentType,
			&commitment, &rec.StateTag,
		); err != nil {
			return nil, fmt.Errorf("scan ledger record: %w", err)
		}
		if commitment.Valid {
			t := commitment.Time
			rec.CommitmentDate = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
