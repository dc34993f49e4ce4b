package offline

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturio/facturio/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for the offline queue.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const itemColumns = "id, invoice_number, company, customer, amount, payload, status, retries, last_error, queued_at, updated_at"

// EnsureSchema creates the offline_queue table and its indexes. Idempotent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS offline_queue (
	id BIGSERIAL PRIMARY KEY,
	invoice_number TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	customer TEXT NOT NULL DEFAULT '',
	amount NUMERIC(14,2) NOT NULL DEFAULT 0,
	payload JSONB NOT NULL DEFAULT '{}',
	status TEXT NOT NULL DEFAULT 'PENDING',
	retries INT NOT NULL DEFAULT 0,
	last_error TEXT,
	queued_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS idx_offline_queue_status ON offline_queue (status)`,
		`CREATE INDEX IF NOT EXISTS idx_offline_queue_queued_at ON offline_queue (queued_at)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return storeErr("ensure schema", err)
		}
	}
	return nil
}

// Insert enqueues a submission and returns the stored item.
func (r *Repository) Insert(ctx context.Context, input ItemInput) (*Item, error) {
	var item Item
	err := r.pool.QueryRow(ctx, `INSERT INTO offline_queue
(invoice_number, company, customer, amount, payload)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+itemColumns,
		input.InvoiceNumber, input.Company, input.Customer, input.Amount, input.Payload).
		Scan(&item.ID, &item.InvoiceNumber, &item.Company, &item.Customer, &item.Amount,
			&item.Payload, &item.Status, &item.Retries, &item.LastError, &item.QueuedAt, &item.UpdatedAt)
	if err != nil {
		return nil, storeErr("enqueue", err)
	}
	return &item, nil
}

// Pending returns queued items oldest first, bounded by limit.
func (r *Repository) Pending(ctx context.Context, limit int) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM offline_queue
WHERE status = 'PENDING'
ORDER BY queued_at, id
LIMIT $1`, limit)
	if err != nil {
		return nil, storeErr("list pending", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.InvoiceNumber, &item.Company, &item.Customer, &item.Amount,
			&item.Payload, &item.Status, &item.Retries, &item.LastError, &item.QueuedAt, &item.UpdatedAt); err != nil {
			return nil, storeErr("scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list pending", err)
	}
	return items, nil
}

// MarkSent flags a queued item as delivered.
func (r *Repository) MarkSent(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE offline_queue
SET status = 'SENT', last_error = NULL, updated_at = now()
WHERE id = $1`, id)
	if err != nil {
		return storeErr("mark sent", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// MarkFailed bumps the retry counter; once retries reach maxRetries the item
// flips to FAILED and is no longer drained. Returns the resulting status.
func (r *Repository) MarkFailed(ctx context.Context, id int64, reason string, maxRetries int) (Status, error) {
	var status Status
	err := r.pool.QueryRow(ctx, `UPDATE offline_queue
SET retries = retries + 1,
    last_error = $2,
    status = CASE WHEN retries + 1 >= $3 THEN 'FAILED' ELSE status END,
    updated_at = now()
WHERE id = $1
RETURNING status`, id, reason, maxRetries).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", httpx.ErrNotFound
		}
		return "", storeErr("mark failed", err)
	}
	return status, nil
}

// PurgeSent removes delivered items and returns the removed count.
func (r *Repository) PurgeSent(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM offline_queue WHERE status = 'SENT'`)
	if err != nil {
		return 0, storeErr("purge sent", err)
	}
	return tag.RowsAffected(), nil
}

// Stats counts queue items by status.
func (r *Repository) Stats(ctx context.Context) (QueueStats, error) {
	var stats QueueStats
	err := r.pool.QueryRow(ctx, `SELECT
COUNT(*) FILTER (WHERE status = 'PENDING'),
COUNT(*) FILTER (WHERE status = 'SENT'),
COUNT(*) FILTER (WHERE status = 'FAILED')
FROM offline_queue`).Scan(&stats.Pending, &stats.Sent, &stats.Failed)
	if err != nil {
		return QueueStats{}, storeErr("queue stats", err)
	}
	return stats, nil
}

func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s: %s (SQLSTATE %s)", httpx.ErrStore, op, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%w: %s: %v", httpx.ErrStore, op, err)
}
