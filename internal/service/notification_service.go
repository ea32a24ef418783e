package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skillswap-app/session-api/internal/models"
	"github.com/skillswap-app/session-api/pkg/config"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
	"github.com/skillswap-app/session-api/pkg/jobs"
)

type notificationStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type dispatchQueue interface {
	Enqueue(job jobs.Job) error
}

// NotificationService serves the poll-based inbox and implements the
// post-commit NotificationSink: unread-count cache invalidation plus
// best-effort enqueueing for out-of-band delivery.
type NotificationService struct {
	store   notificationStore
	cache   cacheStore
	queue   dispatchQueue
	metrics *MetricsService
	cfg     config.NotificationsConfig
	logger  *zap.Logger
}

// NewNotificationService constructs the service. Cache and queue are
// optional; without them the service degrades to plain DB reads.
func NewNotificationService(store notificationStore, cache cacheStore, queue dispatchQueue, metrics *MetricsService, cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{store: store, cache: cache, queue: queue, metrics: metrics, cfg: cfg, logger: logger}
}

// List returns the recipient's newest notifications, limit clamped to
// [1, MaxLimit] with the configured default for zero.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	items, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}

// UnreadCount returns the recipient's unread count, served from Redis when
// fresh.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := s.unreadKey(userID)
	if s.cache != nil {
		var cached int
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.recordCache(true)
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("unread-count cache read failed", zap.Error(err))
		}
		s.recordCache(false)
	}

	count, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, count, s.cfg.UnreadCacheTTL); err != nil {
			s.logger.Warn("unread-count cache write failed", zap.Error(err))
		}
	}
	return count, nil
}

// MarkRead flags one notification read for its recipient.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.store.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	s.invalidate(ctx, userID)
	return nil
}

// MarkAllRead flags all of the recipient's notifications read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.store.MarkAllRead(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	s.invalidate(ctx, userID)
	return nil
}

// Emitted implements NotificationSink. The notification row is already
// committed; this hook only refreshes caches and hands the event to the
// dispatch queue. It never fails the intent that emitted it.
func (s *NotificationService) Emitted(ctx context.Context, n *models.Notification) {
	if n == nil {
		return
	}
	s.invalidate(ctx, n.UserID)
	if s.queue == nil {
		return
	}
	job := jobs.Job{
		ID:      n.ID,
		Type:    string(n.Kind),
		Payload: n.UserID,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notification dispatch", zap.String("notification_id", n.ID), zap.Error(err))
	}
}

func (s *NotificationService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.unreadKey(userID)); err != nil {
		s.logger.Warn("unread-count cache invalidation failed", zap.Error(err))
	}
}

func (s *NotificationService) unreadKey(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

func (s *NotificationService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}
