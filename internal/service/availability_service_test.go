package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillswap-app/session-api/internal/dto"
	"github.com/skillswap-app/session-api/internal/models"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
)

type mockAvailabilityStore struct {
	slots       []models.AvailabilitySlot
	overlap     *models.AvailabilitySlot
	created     *models.AvailabilitySlot
	deactivated []string
	missing     bool
}

func (m *mockAvailabilityStore) ListActiveByUser(ctx context.Context, userID string) ([]models.AvailabilitySlot, error) {
	return m.slots, nil
}

func (m *mockAvailabilityStore) FindOverlap(ctx context.Context, userID string, start, end time.Time) (*models.AvailabilitySlot, error) {
	if m.overlap == nil {
		return nil, sql.ErrNoRows
	}
	return m.overlap, nil
}

func (m *mockAvailabilityStore) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	slot.ID = "slot-new"
	slot.Active = true
	m.created = slot
	return nil
}

func (m *mockAvailabilityStore) Deactivate(ctx context.Context, id, userID string) error {
	if m.missing {
		return sql.ErrNoRows
	}
	m.deactivated = append(m.deactivated, id)
	return nil
}

func fixedNowService(store *mockAvailabilityStore, now time.Time) *AvailabilityService {
	svc := NewAvailabilityService(store, validator.New(), zap.NewNop(), "UTC")
	svc.now = func() time.Time { return now }
	return svc
}

func TestAvailabilityServiceCreate(t *testing.T) {
	store := &mockAvailabilityStore{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := fixedNowService(store, now)

	slot, err := svc.Create(context.Background(), "u1", dto.CreateSlotRequest{
		StartTime: now.Add(24 * time.Hour),
		EndTime:   now.Add(25 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "slot-new", slot.ID)
	assert.True(t, slot.Active)
	assert.Equal(t, "UTC", slot.Timezone)
	require.NotNil(t, store.created)
}

func TestAvailabilityServiceCreateBackwardsWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := fixedNowService(&mockAvailabilityStore{}, now)

	_, err := svc.Create(context.Background(), "u1", dto.CreateSlotRequest{
		StartTime: now.Add(25 * time.Hour),
		EndTime:   now.Add(24 * time.Hour),
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidRequest.Code, appErr.Code)
}

func TestAvailabilityServiceCreateInPast(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := fixedNowService(&mockAvailabilityStore{}, now)

	_, err := svc.Create(context.Background(), "u1", dto.CreateSlotRequest{
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidRequest.Code, appErr.Code)
}

func TestAvailabilityServiceCreateOverlap(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &mockAvailabilityStore{overlap: &models.AvailabilitySlot{
		ID:        "slot-existing",
		StartTime: now.Add(23 * time.Hour),
		EndTime:   now.Add(26 * time.Hour),
	}}
	svc := fixedNowService(store, now)

	_, err := svc.Create(context.Background(), "u1", dto.CreateSlotRequest{
		StartTime: now.Add(24 * time.Hour),
		EndTime:   now.Add(25 * time.Hour),
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAvailabilityServiceDeleteMissing(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := fixedNowService(&mockAvailabilityStore{missing: true}, now)

	err := svc.Delete(context.Background(), "u1", "slot-1")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAvailabilityServiceDelete(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &mockAvailabilityStore{}
	svc := fixedNowService(store, now)

	require.NoError(t, svc.Delete(context.Background(), "u1", "slot-1"))
	assert.Contains(t, store.deactivated, "slot-1")
}
