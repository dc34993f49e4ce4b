package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturio/facturio/internal/platform/db"
	"github.com/facturio/facturio/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for the submission history.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const entryColumns = "id, invoice_number, company, customer, status, sent_at, amount, pdf_url, pdf_local_path, source_file, details"

// EnsureSchema creates the submissions table and its indexes. Idempotent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
	id BIGSERIAL PRIMARY KEY,
	invoice_number TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	customer TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	sent_at TIMESTAMPTZ NOT NULL,
	amount NUMERIC(14,2) NOT NULL DEFAULT 0,
	pdf_url TEXT,
	pdf_local_path TEXT,
	source_file TEXT,
	details TEXT
)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_sent_at ON submissions (sent_at)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_company ON submissions (company)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_customer ON submissions (customer)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions (status)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_invoice_number ON submissions (invoice_number)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return storeErr("ensure schema", err)
		}
	}
	return nil
}

// ListEntries returns entries matching the filter, most recent first, ties
// broken by id descending.
func (r *Repository) ListEntries(ctx context.Context, filter Filter) ([]Entry, error) {
	var (
		conds []string
		args  []any
	)
	add := func(expr string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if filter.Company != "" {
		add("company = $%d", filter.Company)
	}
	if filter.Customer != "" {
		add("customer = $%d", filter.Customer)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.DateFrom != nil {
		add("sent_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("sent_at <= $%d", *filter.DateTo)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		conds = append(conds, "(invoice_number ILIKE $"+n+" OR customer ILIKE $"+n+" OR company ILIKE $"+n+")")
	}

	query := "SELECT " + entryColumns + " FROM submissions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY sent_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list entries", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.InvoiceNumber, &e.Company, &e.Customer, &e.Status, &e.SentAt,
			&e.Amount, &e.PDFURL, &e.PDFLocalPath, &e.SourceFile, &e.Details); err != nil {
			return nil, storeErr("scan entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list entries", err)
	}
	return entries, nil
}

// InsertEntries persists a batch of submission outcomes in one transaction.
func (r *Repository) InsertEntries(ctx context.Context, inputs []EntryInput) (int, error) {
	saved := 0
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, in := range inputs {
			_, err := tx.Exec(ctx, `INSERT INTO submissions
(invoice_number, company, customer, status, sent_at, amount, pdf_url, source_file, details)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				in.InvoiceNumber, in.Company, in.Customer, string(in.Status), in.SentAt,
				in.Amount, in.PDFURL, in.SourceFile, in.Details)
			if err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, storeErr("insert entries", err)
	}
	return saved, nil
}

// UpdatePDFPath records the local PDF path against the latest matching entry.
func (r *Repository) UpdatePDFPath(ctx context.Context, invoiceNumber, company, localPath string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE submissions SET pdf_local_path = $1
WHERE id = (
	SELECT id FROM submissions
	WHERE invoice_number = $2 AND company = $3
	ORDER BY sent_at DESC, id DESC LIMIT 1
)`, localPath, invoiceNumber, company)
	if err != nil {
		return storeErr("update pdf path", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: no entry for invoice %s of %s", httpx.ErrNotFound, invoiceNumber, company)
	}
	return nil
}

// DeleteAll removes every history entry and returns the removed count.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM submissions`)
	if err != nil {
		return 0, storeErr("clear history", err)
	}
	return tag.RowsAffected(), nil
}

// DistinctCompanies enumerates company names present in the history.
func (r *Repository) DistinctCompanies(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "company")
}

// DistinctCustomers enumerates customer names present in the history.
func (r *Repository) DistinctCustomers(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "customer")
}

func (r *Repository) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT "+column+" FROM submissions WHERE "+column+" <> ''")
	if err != nil {
		return nil, storeErr("distinct "+column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, storeErr("distinct "+column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("distinct "+column, err)
	}
	return values, nil
}

// Stats aggregates entries for one company (or all) since the given time.
func (r *Repository) Stats(ctx context.Context, company string, since time.Time) (Stats, error) {
	var stats Stats
	err := r.pool.QueryRow(ctx, `SELECT
COUNT(*),
COALESCE(SUM(amount), 0),
COUNT(*) FILTER (WHERE status = 'OK'),
COUNT(*) FILTER (WHERE status = 'ERROR'),
COUNT(*) FILTER (WHERE status = 'PENDING')
FROM submissions
WHERE ($1 = '' OR company = $1) AND sent_at >= $2`, company, since).
		Scan(&stats.Count, &stats.Total, &stats.Success, &stats.Failed, &stats.Pending)
	if err != nil {
		return Stats{}, storeErr("stats", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT company, COUNT(*), COALESCE(SUM(amount), 0)
FROM submissions
WHERE ($1 = '' OR company = $1) AND sent_at >= $2
GROUP BY company
ORDER BY SUM(amount) DESC, company`, company, since)
	if err != nil {
		return Stats{}, storeErr("stats breakdown", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cs CompanyStat
		if err := rows.Scan(&cs.Company, &cs.Count, &cs.Total); err != nil {
			return Stats{}, storeErr("stats breakdown", err)
		}
		stats.Companies = append(stats.Companies, cs)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, storeErr("stats breakdown", err)
	}
	return stats, nil
}

// DashboardStats returns headline numbers: all-time successes plus count and
// total for entries since monthStart.
func (r *Repository) DashboardStats(ctx context.Context, monthStart time.Time) (DashboardStats, error) {
	var out DashboardStats
	err := r.pool.QueryRow(ctx, `SELECT
COUNT(*) FILTER (WHERE status = 'OK'),
COUNT(*) FILTER (WHERE status = 'OK' AND sent_at >= $1),
COALESCE(SUM(amount) FILTER (WHERE status = 'OK' AND sent_at >= $1), 0)
FROM submissions`, monthStart).
		Scan(&out.TotalSuccess, &out.MonthCount, &out.MonthTotal)
	if err != nil {
		return DashboardStats{}, storeErr("dashboard stats", err)
	}
	return out, nil
}

// storeErr keeps store failures distinguishable from validation outcomes so
// handlers can render them as a single actionable message.
func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s: %s (SQLSTATE %s)", httpx.ErrStore, op, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%w: %s: %v", httpx.ErrStore, op, err)
}
