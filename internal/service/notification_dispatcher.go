package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/skillswap-app/session-api/pkg/config"
	"github.com/skillswap-app/session-api/pkg/jobs"
)

// NewNotificationDispatchQueue builds the worker queue that drains emitted
// notifications for out-of-band delivery. The poll inbox is the system of
// record; this path is best-effort. The handler is a logging stub until a
// push transport (APNs, email, websocket) is plugged in.
func NewNotificationDispatchQueue(cfg config.NotificationsConfig, metrics *MetricsService, logger *zap.Logger) *jobs.Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		metrics.RecordNotificationDispatch(job.Type)
		logger.Debug("notification dispatched",
			zap.String("notification_id", job.ID),
			zap.String("kind", job.Type),
		)
		return nil
	}
	return jobs.NewQueue("notifications", handler, jobs.QueueConfig{
		Workers:    cfg.DispatchWorkers,
		BufferSize: cfg.DispatchQueueSize,
		MaxRetries: cfg.DispatchRetries,
		Logger:     logger,
	})
}
