package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillswap-app/session-api/internal/models"
)

// Sentinel errors surfaced by transactional intent methods. The service layer
// maps them onto the public error taxonomy.
var (
	// ErrStaleState means the compare-and-swap on status/schedule_status
	// matched zero rows: a concurrent intent committed first.
	ErrStaleState = errors.New("request state changed concurrently")
	// ErrSlotUnavailable means the slot is absent, inactive, or not owned by
	// the request's provider.
	ErrSlotUnavailable = errors.New("availability slot unavailable")
	// ErrSlotReserved means the slot is held by a different session request.
	ErrSlotReserved = errors.New("availability slot reserved by another request")
	// ErrSlotChanged means the reserved slot no longer matches the proposed
	// time snapshot at confirm time.
	ErrSlotChanged = errors.New("reserved slot no longer matches proposal")
)

const sessionColumns = `sr.id, sr.requester_id, sr.provider_id, sr.skill_id, sr.message,
	sr.status, sr.schedule_status, sr.scheduled_start, sr.scheduled_end, sr.timezone,
	sr.created_at, sr.responded_at, sk.title AS skill_title`

// SessionRequestRepository persists session requests and applies lifecycle
// intents. Every intent runs as a single transaction: a guarded UPDATE on the
// request, any slot reservation bookkeeping, and the counter-party
// notification, committed together.
type SessionRequestRepository struct {
	db *sqlx.DB
}

// NewSessionRequestRepository constructs the repository.
func NewSessionRequestRepository(db *sqlx.DB) *SessionRequestRepository {
	return &SessionRequestRepository{db: db}
}

// GetByID returns a single request with its skill title joined in.
func (r *SessionRequestRepository) GetByID(ctx context.Context, id string) (*models.SessionRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM session_requests sr
		JOIN skills sk ON sk.id = sr.skill_id
		WHERE sr.id = $1`, sessionColumns)
	var req models.SessionRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByUser returns every request the user participates in, newest first.
func (r *SessionRequestRepository) ListByUser(ctx context.Context, userID string) ([]models.SessionRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM session_requests sr
		JOIN skills sk ON sk.id = sr.skill_id
		WHERE sr.requester_id = $1 OR sr.provider_id = $1
		ORDER BY sr.created_at DESC`, sessionColumns)
	var reqs []models.SessionRequest
	if err := r.db.SelectContext(ctx, &reqs, query, userID); err != nil {
		return nil, fmt.Errorf("list session requests: %w", err)
	}
	return reqs, nil
}

// SessionListFilter narrows the moderation listing. Empty fields match all.
type SessionListFilter struct {
	Status         models.RequestStatus
	ScheduleStatus models.ScheduleStatus
	Limit          int
	Offset         int
}

// ListAll returns session requests across all users, newest first.
func (r *SessionRequestRepository) ListAll(ctx context.Context, filter SessionListFilter) ([]models.SessionRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM session_requests sr
		JOIN skills sk ON sk.id = sr.skill_id`, sessionColumns)

	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("sr.status = $%d", len(args)))
	}
	if filter.ScheduleStatus != "" {
		args = append(args, filter.ScheduleStatus)
		conds = append(conds, fmt.Sprintf("sr.schedule_status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY sr.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var reqs []models.SessionRequest
	if err := r.db.SelectContext(ctx, &reqs, query, args...); err != nil {
		return nil, fmt.Errorf("list all session requests: %w", err)
	}
	return reqs, nil
}

// HasActiveForSkill reports whether the requester already has a pending or
// accepted request for the skill.
func (r *SessionRequestRepository) HasActiveForSkill(ctx context.Context, requesterID, skillID string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM session_requests
		WHERE requester_id = $1 AND skill_id = $2 AND status IN ('pending', 'accepted'))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, requesterID, skillID); err != nil {
		return false, fmt.Errorf("check active request: %w", err)
	}
	return exists, nil
}

// Create inserts the request together with the provider's notification.
func (r *SessionRequestRepository) Create(ctx context.Context, req *models.SessionRequest, notif *models.Notification) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO session_requests
		(id, requester_id, provider_id, skill_id, message, status, schedule_status, created_at)
		VALUES (:id, :requester_id, :provider_id, :skill_id, :message, :status, :schedule_status, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, req); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("insert session request: %w", err)
	}
	if err := insertNotificationTx(ctx, tx, notif); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session request: %w", err)
	}
	return nil
}

// UpdateStatusParams describes a guarded lifecycle transition.
type UpdateStatusParams struct {
	ID            string
	FromStatus    models.RequestStatus
	ToStatus      models.RequestStatus
	RespondedAt   time.Time
	ClearSchedule bool
	ReleaseSlot   bool
}

// UpdateStatus applies a lifecycle transition with a compare-and-swap on the
// current status. ErrStaleState is returned when the request moved underneath
// the caller; nothing is committed in that case.
func (r *SessionRequestRepository) UpdateStatus(ctx context.Context, params UpdateStatusParams, notif *models.Notification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	query := `UPDATE session_requests SET status = $1, responded_at = $2`
	if params.ClearSchedule {
		query += `, schedule_status = 'none', scheduled_start = NULL, scheduled_end = NULL, timezone = NULL`
	}
	query += ` WHERE id = $3 AND status = $4`

	res, err := tx.ExecContext(ctx, query, params.ToStatus, params.RespondedAt, params.ID, params.FromStatus)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update session status: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		tx.Rollback() //nolint:errcheck
		return ErrStaleState
	}

	if params.ReleaseSlot {
		if err := releaseReservationTx(ctx, tx, params.ID, ""); err != nil {
			tx.Rollback() //nolint:errcheck
			return err
		}
	}
	if err := insertNotificationTx(ctx, tx, notif); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

// ProposeScheduleParams describes a proposal intent. When SlotID is set the
// slot is reserved and its times become the snapshot; otherwise Start/End and
// Timezone supply the snapshot directly.
type ProposeScheduleParams struct {
	RequestID   string
	ProviderID  string
	SlotID      string
	Start       time.Time
	End         time.Time
	Timezone    string
	RespondedAt time.Time
}

// ProposeSchedule reserves the slot (when given), snapshots the time range
// onto the request, and flips schedule_status to proposed, atomically with the
// provider's notification.
func (r *SessionRequestRepository) ProposeSchedule(ctx context.Context, params ProposeScheduleParams, notif *models.Notification) (*models.SessionRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	start, end, tz := params.Start, params.End, params.Timezone

	// Any reservation this request holds on a different slot is released
	// first so a re-proposal never strands a lock.
	if err := releaseReservationTx(ctx, tx, params.RequestID, params.SlotID); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}

	if params.SlotID != "" {
		var slot models.AvailabilitySlot
		const slotQuery = `SELECT id, user_id, start_time, end_time, timezone, active, reserved_request_id, reserved_at, created_at
			FROM availability_slots WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &slot, slotQuery, params.SlotID); err != nil {
			tx.Rollback() //nolint:errcheck
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrSlotUnavailable
			}
			return nil, fmt.Errorf("lock availability slot: %w", err)
		}
		if slot.UserID != params.ProviderID || !slot.Active {
			tx.Rollback() //nolint:errcheck
			return nil, ErrSlotUnavailable
		}
		if slot.ReservedRequestID != nil && *slot.ReservedRequestID != params.RequestID {
			tx.Rollback() //nolint:errcheck
			return nil, ErrSlotReserved
		}

		const reserve = `UPDATE availability_slots SET reserved_request_id = $1, reserved_at = $2 WHERE id = $3`
		if _, err := tx.ExecContext(ctx, reserve, params.RequestID, params.RespondedAt, slot.ID); err != nil {
			tx.Rollback() //nolint:errcheck
			return nil, fmt.Errorf("reserve availability slot: %w", err)
		}
		start, end, tz = slot.StartTime, slot.EndTime, slot.Timezone
	}

	const update = `UPDATE session_requests
		SET schedule_status = 'proposed', scheduled_start = $1, scheduled_end = $2, timezone = $3, responded_at = $4
		WHERE id = $5 AND status = 'accepted' AND schedule_status <> 'confirmed'`
	res, err := tx.ExecContext(ctx, update, start, end, tz, params.RespondedAt, params.RequestID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("propose schedule: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		tx.Rollback() //nolint:errcheck
		return nil, ErrStaleState
	}

	if err := insertNotificationTx(ctx, tx, notif); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit proposal: %w", err)
	}
	return r.GetByID(ctx, params.RequestID)
}

// ConfirmScheduleParams describes a confirmation intent. Start/End carry the
// snapshot the confirming provider saw.
type ConfirmScheduleParams struct {
	RequestID   string
	Start       time.Time
	End         time.Time
	RespondedAt time.Time
}

// ConfirmSchedule flips a proposed schedule to confirmed. When a slot is
// reserved for the request its times must still match the snapshot; the slot
// is then deactivated so it cannot be double-booked.
func (r *SessionRequestRepository) ConfirmSchedule(ctx context.Context, params ConfirmScheduleParams, notif *models.Notification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	var slot models.AvailabilitySlot
	const slotQuery = `SELECT id, user_id, start_time, end_time, timezone, active, reserved_request_id, reserved_at, created_at
		FROM availability_slots WHERE reserved_request_id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &slot, slotQuery, params.RequestID)
	switch {
	case err == nil:
		if !slot.StartTime.Equal(params.Start) || !slot.EndTime.Equal(params.End) {
			tx.Rollback() //nolint:errcheck
			return ErrSlotChanged
		}
		const lock = `UPDATE availability_slots SET active = FALSE WHERE id = $1`
		if _, err := tx.ExecContext(ctx, lock, slot.ID); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("lock confirmed slot: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		// Direct-time proposal, nothing reserved.
	default:
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("find reserved slot: %w", err)
	}

	const update = `UPDATE session_requests
		SET schedule_status = 'confirmed', responded_at = $1
		WHERE id = $2 AND status = 'accepted' AND schedule_status = 'proposed'`
	res, err := tx.ExecContext(ctx, update, params.RespondedAt, params.RequestID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("confirm schedule: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		tx.Rollback() //nolint:errcheck
		return ErrStaleState
	}

	if err := insertNotificationTx(ctx, tx, notif); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit confirmation: %w", err)
	}
	return nil
}

// ClearSchedule resets the negotiation substate, nulls the time snapshot and
// releases any reservation, atomically with the counter-party notification.
func (r *SessionRequestRepository) ClearSchedule(ctx context.Context, requestID string, respondedAt time.Time, notif *models.Notification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := releaseReservationTx(ctx, tx, requestID, ""); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}

	const update = `UPDATE session_requests
		SET schedule_status = 'none', scheduled_start = NULL, scheduled_end = NULL, timezone = NULL, responded_at = $1
		WHERE id = $2 AND status = 'accepted' AND schedule_status <> 'none'`
	res, err := tx.ExecContext(ctx, update, respondedAt, requestID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear schedule: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		tx.Rollback() //nolint:errcheck
		return ErrStaleState
	}

	if err := insertNotificationTx(ctx, tx, notif); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

func releaseReservationTx(ctx context.Context, tx *sqlx.Tx, requestID, keepSlotID string) error {
	query := `UPDATE availability_slots SET reserved_request_id = NULL, reserved_at = NULL WHERE reserved_request_id = $1`
	args := []interface{}{requestID}
	if keepSlotID != "" {
		query += ` AND id <> $2`
		args = append(args, keepSlotID)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("release slot reservation: %w", err)
	}
	return nil
}

func insertNotificationTx(ctx context.Context, tx *sqlx.Tx, notif *models.Notification) error {
	if notif == nil {
		return nil
	}
	if notif.ID == "" {
		notif.ID = uuid.NewString()
	}
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications
		(id, user_id, kind, title, body, session_request_id, skill_id, is_read, created_at)
		VALUES (:id, :user_id, :kind, :title, :body, :session_request_id, :skill_id, :is_read, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, notif); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
