package history

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/facturio/facturio/internal/shared"
)

// AllCompanies disables the company restriction on stats queries.
const AllCompanies = "all"

// Service handles history business logic. It never touches presentation
// primitives; callers receive plain data.
type Service struct {
	repo     RepositoryPort
	cache    *StatsCache
	collator *collate.Collator
	now      func() time.Time
}

// NewService builds a Service instance. The cache is optional.
func NewService(repo RepositoryPort, cache *StatsCache) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		collator: collate.New(language.Spanish),
		now:      time.Now,
	}
}

// LoadHistory returns entries matching the filter, most recent first, ties
// broken by id descending. An empty result is not an error.
func (s *Service) LoadHistory(ctx context.Context, filter Filter) ([]Entry, error) {
	return s.repo.ListEntries(ctx, filter)
}

// GetStats aggregates entries for one company over a trailing window of
// periodDays days. Company "all" or empty means no restriction.
func (s *Service) GetStats(ctx context.Context, company string, periodDays int) (Stats, error) {
	if periodDays <= 0 {
		return Stats{}, fmt.Errorf("%w: got %d", shared.ErrInvalidPeriod, periodDays)
	}
	if company == AllCompanies {
		company = ""
	}
	since := s.now().AddDate(0, 0, -periodDays)
	return s.repo.Stats(ctx, company, since)
}

// SaveBatch persists submission outcomes and returns the saved count. The
// send timestamp defaults to now when unset.
func (s *Service) SaveBatch(ctx context.Context, inputs []EntryInput) (int, error) {
	if len(inputs) == 0 {
		return 0, shared.ErrEmptyBatch
	}
	now := s.now()
	for i := range inputs {
		if inputs[i].SentAt.IsZero() {
			inputs[i].SentAt = now
		}
		if inputs[i].Status == "" {
			inputs[i].Status = StatusPending
		}
	}
	saved, err := s.repo.InsertEntries(ctx, inputs)
	if err != nil {
		return 0, err
	}
	_ = s.cache.Invalidate(ctx, dashboardKey)
	return saved, nil
}

// UpdatePDFPath records where a downloaded PDF landed on disk.
func (s *Service) UpdatePDFPath(ctx context.Context, invoiceNumber, company, localPath string) error {
	return s.repo.UpdatePDFPath(ctx, invoiceNumber, company, localPath)
}

// ClearHistory removes every entry and returns the removed count.
// Irreversible; the record store is the sole source of truth.
func (s *Service) ClearHistory(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	_ = s.cache.Invalidate(ctx, dashboardKey)
	return removed, nil
}

// ListCompanies returns distinct company names, sorted alphabetically.
func (s *Service) ListCompanies(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctCompanies(ctx)
	if err != nil {
		return nil, err
	}
	s.collator.SortStrings(values)
	return values, nil
}

// ListCustomers returns distinct customer names, sorted alphabetically.
func (s *Service) ListCustomers(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctCustomers(ctx)
	if err != nil {
		return nil, err
	}
	s.collator.SortStrings(values)
	return values, nil
}

// Dashboard returns the cached headline stats, recomputing on cache miss.
func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := s.cache.Fetch(ctx, dashboardKey, &stats, func(ctx context.Context) (interface{}, error) {
		now := s.now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return s.repo.DashboardStats(ctx, monthStart)
	})
	if err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
