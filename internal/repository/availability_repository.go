package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillswap-app/session-api/internal/models"
)

const slotColumns = `id, user_id, start_time, end_time, timezone, active, reserved_request_id, reserved_at, created_at`

// AvailabilityRepository persists availability slots.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListActiveByUser returns the owner's active slots, ascending by start.
func (r *AvailabilityRepository) ListActiveByUser(ctx context.Context, userID string) ([]models.AvailabilitySlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots
		WHERE user_id = $1 AND active = TRUE
		ORDER BY start_time ASC`, slotColumns)
	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, userID); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return slots, nil
}

// ListForRequest returns the provider's active slots a requester may propose:
// unreserved ones plus the slot already reserved by this request.
func (r *AvailabilityRepository) ListForRequest(ctx context.Context, providerID, requestID string) ([]models.AvailabilitySlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots
		WHERE user_id = $1 AND active = TRUE
		AND (reserved_request_id IS NULL OR reserved_request_id = $2)
		ORDER BY start_time ASC`, slotColumns)
	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, providerID, requestID); err != nil {
		return nil, fmt.Errorf("list provider availability: %w", err)
	}
	return slots, nil
}

// FindOverlap returns the first active slot of the owner overlapping the
// given window, or sql.ErrNoRows when the window is free.
func (r *AvailabilityRepository) FindOverlap(ctx context.Context, userID string, start, end time.Time) (*models.AvailabilitySlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots
		WHERE user_id = $1 AND active = TRUE AND start_time < $2 AND end_time > $3
		ORDER BY start_time ASC
		LIMIT 1`, slotColumns)
	var slot models.AvailabilitySlot
	if err := r.db.GetContext(ctx, &slot, query, userID, end, start); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new active slot.
func (r *AvailabilityRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	slot.Active = true
	const query = `INSERT INTO availability_slots
		(id, user_id, start_time, end_time, timezone, active, created_at)
		VALUES (:id, :user_id, :start_time, :end_time, :timezone, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("insert availability slot: %w", err)
	}
	return nil
}

// Deactivate soft-deletes an owner's slot. Zero rows affected surfaces as
// sql.ErrNoRows so callers can map it to a not-found.
func (r *AvailabilityRepository) Deactivate(ctx context.Context, id, userID string) error {
	const query = `UPDATE availability_slots SET active = FALSE WHERE id = $1 AND user_id = $2 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deactivate availability slot: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
