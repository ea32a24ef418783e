package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/skillswap-app/session-api/internal/models"
)

// NotificationRepository reads and mutates the notification inbox. Emission
// happens inside the session-request transactions; this repository only
// serves the poll and read-state surface.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ListByUser returns the recipient's newest notifications up to limit.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	const query = `SELECT id, user_id, kind, title, body, session_request_id, skill_id, is_read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	var items []models.Notification
	if err := r.db.SelectContext(ctx, &items, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

// UnreadCount returns the number of unread notifications for the recipient.
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags a single notification read. Recipients can only touch their
// own rows; anything else surfaces as sql.ErrNoRows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkAllRead flags every unread notification of the recipient read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
