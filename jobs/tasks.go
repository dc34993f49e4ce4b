package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/facturio/facturio/internal/offline"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOfflineDrain is the task type for draining the offline queue.
	TaskOfflineDrain = "offline:drain"
	// TaskOfflinePurge is the task type for purging delivered queue items.
	TaskOfflinePurge = "offline:purge"
)

// OfflineDrainPayload bounds one drain pass.
type OfflineDrainPayload struct {
	Limit int `json:"limit"`
}

// NewOfflineDrainTask constructs an Asynq task.
func NewOfflineDrainTask(payload OfflineDrainPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOfflineDrain, data), nil
}

// NewOfflinePurgeTask constructs an Asynq task.
func NewOfflinePurgeTask() *asynq.Task {
	return asynq.NewTask(TaskOfflinePurge, nil)
}

// NewOfflineDrainHandler processes TaskOfflineDrain tasks: it pushes pending
// queue items through the sender and records per-item outcomes.
func NewOfflineDrainHandler(svc *offline.Service, sender offline.Sender, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload OfflineDrainPayload
		if len(t.Payload()) > 0 {
			if err := json.Unmarshal(t.Payload(), &payload); err != nil {
				return asynq.SkipRetry
			}
		}
		sent, failed, err := svc.Drain(ctx, sender, payload.Limit)
		if err != nil {
			logger.Error("offline drain aborted", slog.Any("error", err))
			return err
		}
		if sent > 0 || failed > 0 {
			logger.Info("offline drain finished",
				slog.Int("sent", sent),
				slog.Int("failed", failed))
		}
		return nil
	}
}

// NewOfflinePurgeHandler processes TaskOfflinePurge tasks.
func NewOfflinePurgeHandler(svc *offline.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := svc.PurgeSent(ctx)
		if err != nil {
			logger.Error("offline purge failed", slog.Any("error", err))
			return err
		}
		if removed > 0 {
			logger.Info("offline purge finished", slog.Int64("removed", removed))
		}
		return nil
	}
}
