package offline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/facturio/facturio/internal/platform/httpx"
)

// DefaultDrainLimit bounds how many items a single drain pass touches.
const DefaultDrainLimit = 100

// Sender delivers one queued submission upstream. Implementations return an
// error when the upstream rejects or is unreachable; the queue then retries.
type Sender interface {
	Send(ctx context.Context, item Item) error
}

// Service handles offline queue business logic.
type Service struct {
	repo       RepositoryPort
	logger     *slog.Logger
	maxRetries int
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger, maxRetries int) *Service {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Service{repo: repo, logger: logger, maxRetries: maxRetries}
}

// Enqueue stores a submission for later delivery.
func (s *Service) Enqueue(ctx context.Context, input ItemInput) (*Item, error) {
	if input.InvoiceNumber == "" {
		return nil, fmt.Errorf("%w: invoice number required", httpx.ErrInvalidInput)
	}
	item, err := s.repo.Insert(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("submission queued offline",
		slog.Int64("id", item.ID),
		slog.String("invoice", item.InvoiceNumber))
	return item, nil
}

// PendingItems returns queued items oldest first, bounded by limit.
func (s *Service) PendingItems(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultDrainLimit
	}
	return s.repo.Pending(ctx, limit)
}

// MarkSent flags an item as delivered.
func (s *Service) MarkSent(ctx context.Context, id int64) error {
	return s.repo.MarkSent(ctx, id)
}

// MarkFailed records a delivery failure; the item flips to FAILED once the
// retry cap is reached.
func (s *Service) MarkFailed(ctx context.Context, id int64, reason string) (Status, error) {
	return s.repo.MarkFailed(ctx, id, reason, s.maxRetries)
}

// PurgeSent removes delivered items and returns the removed count.
func (s *Service) PurgeSent(ctx context.Context) (int64, error) {
	return s.repo.PurgeSent(ctx)
}

// Stats counts queue items by status.
func (s *Service) Stats(ctx context.Context) (QueueStats, error) {
	return s.repo.Stats(ctx)
}

// Drain attempts delivery of up to limit pending items through the sender; a
// non-positive limit falls back to DefaultDrainLimit. It reports how many
// items were sent and how many failed; a store error aborts the pass.
func (s *Service) Drain(ctx context.Context, sender Sender, limit int) (sent, failed int, err error) {
	items, err := s.PendingItems(ctx, limit)
	if err != nil {
		return 0, 0, err
	}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return sent, failed, err
		}
		if sendErr := sender.Send(ctx, item); sendErr != nil {
			status, markErr := s.MarkFailed(ctx, item.ID, sendErr.Error())
			if markErr != nil {
				return sent, failed, markErr
			}
			failed++
			s.logger.Warn("offline delivery failed",
				slog.Int64("id", item.ID),
				slog.String("status", string(status)),
				slog.Any("error", sendErr))
			continue
		}
		if err := s.MarkSent(ctx, item.ID); err != nil {
			return sent, failed, err
		}
		sent++
	}
	return sent, failed, nil
}
