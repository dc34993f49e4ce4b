package history

import (
	"context"
	"time"
)

// RepositoryPort defines data access methods for the submission history.
type RepositoryPort interface {
	ListEntries(ctx context.Context, filter Filter) ([]Entry, error)
	InsertEntries(ctx context.Context, inputs []EntryInput) (int, error)
	UpdatePDFPath(ctx context.Context, invoiceNumber, company, localPath string) error
	DeleteAll(ctx context.Context) (int64, error)
	DistinctCompanies(ctx context.Context) ([]string, error)
	DistinctCustomers(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, company string, since time.Time) (Stats, error)
	DashboardStats(ctx context.Context, monthStart time.Time) (DashboardStats, error)
}
