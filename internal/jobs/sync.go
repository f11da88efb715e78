package jobs

import (
	"context"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

// SyncDispatcher runs jobs inline in the caller's goroutine. This is the
// only mode used in the local environment, where no worker process exists.
type SyncDispatcher struct {
	registry *Registry
	log      *logger.Logger
}

func NewSyncDispatcher(registry *Registry, baseLog *logger.Logger) *SyncDispatcher {
	return &SyncDispatcher{
		registry: registry,
		log:      baseLog.With("dispatcher", "SyncDispatcher"),
	}
}

func (d *SyncDispatcher) Enqueue(ctx context.Context, job Job) error {
	handler, err := d.registry.Lookup(job.Name)
	if err != nil {
		return err
	}
	d.log.Debug("running job inline", "job", job.Name)
	if err := handler(ctx, job.Payload); err != nil {
		d.log.Error("job failed", "job", job.Name, "error", err)
		return err
	}
	return nil
}
