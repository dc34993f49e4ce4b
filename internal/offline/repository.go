package offline

import "context"

// RepositoryPort defines data access methods for the offline queue.
type RepositoryPort interface {
	Insert(ctx context.Context, input ItemInput) (*Item, error)
	Pending(ctx context.Context, limit int) ([]Item, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string, maxRetries int) (Status, error)
	PurgeSent(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (QueueStats, error)
}
