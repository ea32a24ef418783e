package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skillswap-app/session-api/internal/models"
)

// ErrDuplicateReview means the (session_request_id, from_user_id) pair already
// has a review; the unique constraint is the final arbiter.
var ErrDuplicateReview = errors.New("review already exists for this session and author")

// ReviewRepository persists session feedback.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs the repository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. A unique-constraint violation surfaces as
// ErrDuplicateReview and leaves the existing row untouched.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reviews
		(id, session_request_id, from_user_id, to_user_id, rating, comment, created_at)
		VALUES (:id, :session_request_id, :from_user_id, :to_user_id, :rating, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// ExistsFor reports whether the author already reviewed the session.
func (r *ReviewRepository) ExistsFor(ctx context.Context, sessionRequestID, fromUserID string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM reviews WHERE session_request_id = $1 AND from_user_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, sessionRequestID, fromUserID); err != nil {
		return false, fmt.Errorf("check review existence: %w", err)
	}
	return exists, nil
}

// ListBySession returns a session's reviews, newest first.
func (r *ReviewRepository) ListBySession(ctx context.Context, sessionRequestID string) ([]models.Review, error) {
	const query = `SELECT id, session_request_id, from_user_id, to_user_id, rating, comment, created_at
		FROM reviews WHERE session_request_id = $1 ORDER BY created_at DESC`
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, sessionRequestID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
