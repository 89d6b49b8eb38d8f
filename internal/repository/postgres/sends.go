package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/ignite/collections-monitor/internal/domain"
)

// SendRepo reads campaign send-batch tables. One table per registered
// campaign source; rows are written by the upstream send job and are
// immutable here. Implements campaign.SendStore.
type SendRepo struct {
	db *sql.DB
}

// NewSendRepo creates a Postgres-backed send-record reader.
func NewSendRepo(db *sql.DB) *SendRepo { return &SendRepo{db: db} }

// SendsInRange fetches send-batch rows for [start, end] inclusive. The
// identifiers column is a text[] of raw identifier strings exactly as the
// send job recorded them; normalization happens downstream.
func (r *SendRepo) SendsInRange(ctx context.Context, table string, start, end time.Time) ([]domain.CampaignSendRecord, error) {
	if err := validIdent(table); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT send_date, sent_count, identifiers
		FROM %s
		WHERE send_date BETWEEN $1 AND $2
		ORDER BY send_date
	`, table)

	rows, err := r.db.QueryContext(ctx, q, start, end)
	if err != nil {
		return nil, fmt.Errorf("sends in range: %w", err)
	}
	defer rows.Close()

	var out []domain.CampaignSendRecord
	for rows.Next() {
		var rec domain.CampaignSendRecord
		if err := rows.Scan(&rec.Date, &rec.SentCount, pq.Array(&rec.Identifiers)); err != nil {
			return nil, fmt.Errorf("scan send record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
