package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillswap-app/session-api/internal/dto"
	"github.com/skillswap-app/session-api/internal/models"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
)

type availabilityStore interface {
	ListActiveByUser(ctx context.Context, userID string) ([]models.AvailabilitySlot, error)
	FindOverlap(ctx context.Context, userID string, start, end time.Time) (*models.AvailabilitySlot, error)
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	Deactivate(ctx context.Context, id, userID string) error
}

// AvailabilityService manages a user's calendar of offered time slots.
type AvailabilityService struct {
	store           availabilityStore
	validator       *validator.Validate
	logger          *zap.Logger
	defaultTimezone string
	now             func() time.Time
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(store availabilityStore, validate *validator.Validate, logger *zap.Logger, defaultTimezone string) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultTimezone == "" {
		defaultTimezone = "America/Denver"
	}
	return &AvailabilityService{
		store:           store,
		validator:       validate,
		logger:          logger,
		defaultTimezone: defaultTimezone,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// ListMine returns the caller's active slots, ascending by start time.
func (s *AvailabilityService) ListMine(ctx context.Context, userID string) ([]models.AvailabilitySlot, error) {
	slots, err := s.store.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	return slots, nil
}

// Create publishes a new slot. The window must be well-ordered, start in the
// future, and not overlap any of the owner's active slots.
func (s *AvailabilityService) Create(ctx context.Context, userID string, req dto.CreateSlotRequest) (*models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "invalid availability payload")
	}
	start := req.StartTime.UTC()
	end := req.EndTime.UTC()
	if !end.After(start) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "end_time must be after start_time")
	}
	if start.Before(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "start_time must be in the future")
	}

	conflict, err := s.store.FindOverlap(ctx, userID, start, end)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check for overlaps")
	}
	if conflict != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("this time overlaps an existing availability slot (%s – %s)",
				conflict.StartTime.Format(time.RFC3339), conflict.EndTime.Format(time.RFC3339)))
	}

	tz := req.Timezone
	if tz == "" {
		tz = s.defaultTimezone
	}
	slot := &models.AvailabilitySlot{
		UserID:    userID,
		StartTime: start,
		EndTime:   end,
		Timezone:  tz,
	}
	if err := s.store.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create availability slot")
	}
	return slot, nil
}

// Delete soft-deactivates an owner's slot. Requests that already snapshotted
// the slot's window keep their schedule untouched.
func (s *AvailabilityService) Delete(ctx context.Context, userID, slotID string) error {
	if err := s.store.Deactivate(ctx, slotID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "availability slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability slot")
	}
	return nil
}
