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
	"github.com/skillswap-app/session-api/internal/repository"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
)

type mockSessionStore struct {
	requests      map[string]models.SessionRequest
	active        map[string]bool
	notifications []models.Notification
	updateErr     error
	proposeErr    error
	confirmErr    error
	clearErr      error
	lastFilter    repository.SessionListFilter
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{
		requests: make(map[string]models.SessionRequest),
		active:   make(map[string]bool),
	}
}

func (m *mockSessionStore) GetByID(ctx context.Context, id string) (*models.SessionRequest, error) {
	if r, ok := m.requests[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionStore) ListByUser(ctx context.Context, userID string) ([]models.SessionRequest, error) {
	var out []models.SessionRequest
	for _, r := range m.requests {
		if r.RequesterID == userID || r.ProviderID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockSessionStore) ListAll(ctx context.Context, filter repository.SessionListFilter) ([]models.SessionRequest, error) {
	m.lastFilter = filter
	var out []models.SessionRequest
	for _, r := range m.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ScheduleStatus != "" && r.ScheduleStatus != filter.ScheduleStatus {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockSessionStore) HasActiveForSkill(ctx context.Context, requesterID, skillID string) (bool, error) {
	return m.active[requesterID+"/"+skillID], nil
}

func (m *mockSessionStore) Create(ctx context.Context, req *models.SessionRequest, notif *models.Notification) error {
	if req.ID == "" {
		req.ID = "req-new"
	}
	m.requests[req.ID] = *req
	m.active[req.RequesterID+"/"+req.SkillID] = true
	if notif != nil {
		m.notifications = append(m.notifications, *notif)
	}
	return nil
}

func (m *mockSessionStore) UpdateStatus(ctx context.Context, params repository.UpdateStatusParams, notif *models.Notification) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	r, ok := m.requests[params.ID]
	if !ok || r.Status != params.FromStatus {
		return repository.ErrStaleState
	}
	r.Status = params.ToStatus
	r.RespondedAt = &params.RespondedAt
	if params.ClearSchedule {
		r.ScheduleStatus = models.ScheduleNone
		r.ScheduledStart, r.ScheduledEnd, r.Timezone = nil, nil, nil
	}
	m.requests[params.ID] = r
	if notif != nil {
		m.notifications = append(m.notifications, *notif)
	}
	return nil
}

func (m *mockSessionStore) ProposeSchedule(ctx context.Context, params repository.ProposeScheduleParams, notif *models.Notification) (*models.SessionRequest, error) {
	if m.proposeErr != nil {
		return nil, m.proposeErr
	}
	r, ok := m.requests[params.RequestID]
	if !ok || r.Status != models.StatusAccepted || r.ScheduleStatus == models.ScheduleConfirmed {
		return nil, repository.ErrStaleState
	}
	start, end, tz := params.Start, params.End, params.Timezone
	r.ScheduleStatus = models.ScheduleProposed
	r.ScheduledStart, r.ScheduledEnd = &start, &end
	r.Timezone = &tz
	m.requests[params.RequestID] = r
	if notif != nil {
		m.notifications = append(m.notifications, *notif)
	}
	return &r, nil
}

func (m *mockSessionStore) ConfirmSchedule(ctx context.Context, params repository.ConfirmScheduleParams, notif *models.Notification) error {
	if m.confirmErr != nil {
		return m.confirmErr
	}
	r, ok := m.requests[params.RequestID]
	if !ok || r.ScheduleStatus != models.ScheduleProposed {
		return repository.ErrStaleState
	}
	r.ScheduleStatus = models.ScheduleConfirmed
	m.requests[params.RequestID] = r
	if notif != nil {
		m.notifications = append(m.notifications, *notif)
	}
	return nil
}

func (m *mockSessionStore) ClearSchedule(ctx context.Context, requestID string, respondedAt time.Time, notif *models.Notification) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	r, ok := m.requests[requestID]
	if !ok || r.ScheduleStatus == models.ScheduleNone {
		return repository.ErrStaleState
	}
	r.ScheduleStatus = models.ScheduleNone
	r.ScheduledStart, r.ScheduledEnd, r.Timezone = nil, nil, nil
	m.requests[requestID] = r
	if notif != nil {
		m.notifications = append(m.notifications, *notif)
	}
	return nil
}

type mockSkillCatalog struct {
	skills map[string]*models.Skill
}

func (m *mockSkillCatalog) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	if s, ok := m.skills[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSkillCatalog) ListVisible(ctx context.Context, viewerID string) ([]models.Skill, error) {
	var out []models.Skill
	for _, s := range m.skills {
		if s.Visibility == models.VisibilityPublic || s.UserID == viewerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type mockProviderSlots struct {
	slots []models.AvailabilitySlot
}

func (m *mockProviderSlots) ListForRequest(ctx context.Context, providerID, requestID string) ([]models.AvailabilitySlot, error) {
	return m.slots, nil
}

type mockSink struct {
	emitted []models.Notification
}

func (m *mockSink) Emitted(ctx context.Context, n *models.Notification) {
	m.emitted = append(m.emitted, *n)
}

func newTestSessionService(store *mockSessionStore, skills *mockSkillCatalog, sink *mockSink) *SessionService {
	return NewSessionService(store, skills, &mockProviderSlots{}, sink, validator.New(), zap.NewNop(), "UTC")
}

func requester() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-requester", Role: models.RoleMember}
}

func provider() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-provider", Role: models.RoleMember}
}

func admin() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin}
}

func seededSkills() *mockSkillCatalog {
	return &mockSkillCatalog{skills: map[string]*models.Skill{
		"sk-1": {ID: "sk-1", UserID: "u-provider", Title: "Guitar basics", Visibility: models.VisibilityPublic},
		"sk-2": {ID: "sk-2", UserID: "u-provider", Title: "Hidden skill", Visibility: models.VisibilityPrivate},
	}}
}

func seedRequest(store *mockSessionStore, status models.RequestStatus, schedule models.ScheduleStatus) {
	title := "Guitar basics"
	store.requests["req-1"] = models.SessionRequest{
		ID:             "req-1",
		RequesterID:    "u-requester",
		ProviderID:     "u-provider",
		SkillID:        "sk-1",
		SkillTitle:     &title,
		Status:         status,
		ScheduleStatus: schedule,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestSessionServiceCreate(t *testing.T) {
	store := newMockSessionStore()
	sink := &mockSink{}
	svc := newTestSessionService(store, seededSkills(), sink)

	created, err := svc.Create(context.Background(), requester(), dto.CreateSessionRequest{SkillID: "sk-1", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.ScheduleNone, created.ScheduleStatus)
	assert.Equal(t, "u-provider", created.ProviderID)
	require.Len(t, sink.emitted, 1)
	assert.Equal(t, models.NotifSessionRequested, sink.emitted[0].Kind)
	assert.Equal(t, "u-provider", sink.emitted[0].UserID)
	require.NotNil(t, sink.emitted[0].SessionRequestID)
	assert.Equal(t, created.ID, *sink.emitted[0].SessionRequestID)
}

func TestSessionServiceCreateOwnSkill(t *testing.T) {
	svc := newTestSessionService(newMockSessionStore(), seededSkills(), &mockSink{})

	_, err := svc.Create(context.Background(), provider(), dto.CreateSessionRequest{SkillID: "sk-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidRequest.Code, appErr.Code)
}

func TestSessionServiceCreatePrivateSkill(t *testing.T) {
	svc := newTestSessionService(newMockSessionStore(), seededSkills(), &mockSink{})

	_, err := svc.Create(context.Background(), requester(), dto.CreateSessionRequest{SkillID: "sk-2"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestSessionServiceCreateDuplicateActive(t *testing.T) {
	store := newMockSessionStore()
	store.active["u-requester/sk-1"] = true
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Create(context.Background(), requester(), dto.CreateSessionRequest{SkillID: "sk-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestSessionServiceRespondAcceptByProvider(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusPending, models.ScheduleNone)
	sink := &mockSink{}
	svc := newTestSessionService(store, seededSkills(), sink)

	updated, err := svc.Respond(context.Background(), provider(), "req-1", models.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)
	require.Len(t, sink.emitted, 1)
	assert.Equal(t, models.NotifSessionAccepted, sink.emitted[0].Kind)
	assert.Equal(t, "u-requester", sink.emitted[0].UserID)
}

func TestSessionServiceRespondAcceptWrongActor(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusPending, models.ScheduleNone)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Respond(context.Background(), requester(), "req-1", models.ActionAccept)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestSessionServiceRespondAcceptAsAdmin(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusPending, models.ScheduleNone)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	updated, err := svc.Respond(context.Background(), admin(), "req-1", models.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)
}

func TestSessionServiceRespondAcceptNonPending(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusDeclined, models.ScheduleNone)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Respond(context.Background(), provider(), "req-1", models.ActionAccept)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestSessionServiceRespondCancelClearsSchedule(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleProposed)
	sink := &mockSink{}
	svc := newTestSessionService(store, seededSkills(), sink)

	updated, err := svc.Respond(context.Background(), requester(), "req-1", models.ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, models.ScheduleNone, updated.ScheduleStatus)
	require.Len(t, sink.emitted, 1)
	assert.Equal(t, models.NotifSessionCancelled, sink.emitted[0].Kind)
	assert.Equal(t, "u-provider", sink.emitted[0].UserID)
}

func TestSessionServiceRespondCancelWrongActor(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusPending, models.ScheduleNone)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Respond(context.Background(), provider(), "req-1", models.ActionCancel)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestSessionServiceRespondCompleteKeepsSnapshot(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleConfirmed)
	start := time.Now().Add(time.Hour).UTC()
	r := store.requests["req-1"]
	r.ScheduledStart = &start
	store.requests["req-1"] = r
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	updated, err := svc.Respond(context.Background(), provider(), "req-1", models.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, models.ScheduleConfirmed, updated.ScheduleStatus)
	assert.NotNil(t, updated.ScheduledStart)
}

func TestSessionServiceRespondStaleState(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusPending, models.ScheduleNone)
	store.updateErr = repository.ErrStaleState
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Respond(context.Background(), provider(), "req-1", models.ActionAccept)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestSessionServiceRespondNotFound(t *testing.T) {
	svc := newTestSessionService(newMockSessionStore(), seededSkills(), &mockSink{})

	_, err := svc.Respond(context.Background(), provider(), "missing", models.ActionAccept)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSessionServiceScheduleProposeDirectTime(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleNone)
	sink := &mockSink{}
	svc := newTestSessionService(store, seededSkills(), sink)

	start := time.Now().Add(48 * time.Hour).UTC()
	end := start.Add(time.Hour)
	updated, err := svc.Schedule(context.Background(), requester(), "req-1", dto.ScheduleRequest{
		Action:         models.ActionPropose,
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleProposed, updated.ScheduleStatus)
	require.NotNil(t, updated.Timezone)
	assert.Equal(t, "UTC", *updated.Timezone)
	require.Len(t, sink.emitted, 1)
	assert.Equal(t, models.NotifScheduleProposed, sink.emitted[0].Kind)
}

func TestSessionServiceScheduleProposeMissingTimes(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleNone)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Schedule(context.Background(), requester(), "req-1", dto.ScheduleRequest{Action: models.ActionPropose})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidRequest.Code, appErr.Code)
}

func TestSessionServiceScheduleProposeWrongActor(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleNone)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Schedule(context.Background(), provider(), "req-1", dto.ScheduleRequest{Action: models.ActionPropose, SlotID: "slot-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestSessionServiceScheduleProposeWhileConfirmed(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleConfirmed)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Schedule(context.Background(), requester(), "req-1", dto.ScheduleRequest{Action: models.ActionPropose, SlotID: "slot-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestSessionServiceScheduleProposeNotAccepted(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusPending, models.ScheduleNone)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Schedule(context.Background(), requester(), "req-1", dto.ScheduleRequest{Action: models.ActionPropose, SlotID: "slot-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestSessionServiceScheduleProposeSlotReserved(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleNone)
	store.proposeErr = repository.ErrSlotReserved
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Schedule(context.Background(), requester(), "req-1", dto.ScheduleRequest{Action: models.ActionPropose, SlotID: "slot-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestSessionServiceScheduleProposeSlotMissing(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleNone)
	store.proposeErr = repository.ErrSlotUnavailable
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Schedule(context.Background(), requester(), "req-1", dto.ScheduleRequest{Action: models.ActionPropose, SlotID: "slot-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSessionServiceScheduleConfirmByProvider(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleProposed)
	start := time.Now().Add(48 * time.Hour).UTC()
	end := start.Add(time.Hour)
	r := store.requests["req-1"]
	r.ScheduledStart, r.ScheduledEnd = &start, &end
	store.requests["req-1"] = r
	sink := &mockSink{}
	svc := newTestSessionService(store, seededSkills(), sink)

	updated, err := svc.Schedule(context.Background(), provider(), "req-1", dto.ScheduleRequest{Action: models.ActionConfirm})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleConfirmed, updated.ScheduleStatus)
	require.Len(t, sink.emitted, 1)
	assert.Equal(t, models.NotifScheduleConfirmed, sink.emitted[0].Kind)
	assert.Equal(t, "u-requester", sink.emitted[0].UserID)
}

func TestSessionServiceScheduleConfirmNothingProposed(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleNone)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Schedule(context.Background(), provider(), "req-1", dto.ScheduleRequest{Action: models.ActionConfirm})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestSessionServiceScheduleConfirmWrongActor(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleProposed)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Schedule(context.Background(), requester(), "req-1", dto.ScheduleRequest{Action: models.ActionConfirm})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestSessionServiceScheduleClearRequiresSchedule(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleNone)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	_, err := svc.Schedule(context.Background(), requester(), "req-1", dto.ScheduleRequest{Action: models.ActionClear})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestSessionServiceScheduleClearConfirmed(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleConfirmed)
	sink := &mockSink{}
	svc := newTestSessionService(store, seededSkills(), sink)

	updated, err := svc.Schedule(context.Background(), provider(), "req-1", dto.ScheduleRequest{Action: models.ActionClear})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleNone, updated.ScheduleStatus)
	assert.Nil(t, updated.ScheduledStart)
	require.Len(t, sink.emitted, 1)
	assert.Equal(t, models.NotifScheduleCleared, sink.emitted[0].Kind)
	assert.Equal(t, "u-requester", sink.emitted[0].UserID)
}

func TestSessionServiceListMinePartitions(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusPending, models.ScheduleNone)
	store.requests["req-2"] = models.SessionRequest{
		ID:          "req-2",
		RequesterID: "u-other",
		ProviderID:  "u-requester",
		SkillID:     "sk-9",
		Status:      models.StatusPending,
	}
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	out, err := svc.ListMine(context.Background(), "u-requester")
	require.NoError(t, err)
	assert.Len(t, out.Made, 1)
	assert.Len(t, out.Received, 1)
}

// Full lifecycle walk: request, accept, propose, confirm, complete. Each step
// notifies the counter-party of the actor.
func TestSessionServiceFullLifecycle(t *testing.T) {
	store := newMockSessionStore()
	sink := &mockSink{}
	svc := newTestSessionService(store, seededSkills(), sink)

	created, err := svc.Create(context.Background(), requester(), dto.CreateSessionRequest{SkillID: "sk-1"})
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), provider(), created.ID, models.ActionAccept)
	require.NoError(t, err)

	start := time.Now().Add(72 * time.Hour).UTC()
	end := start.Add(time.Hour)
	_, err = svc.Schedule(context.Background(), requester(), created.ID, dto.ScheduleRequest{
		Action:         models.ActionPropose,
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	})
	require.NoError(t, err)

	_, err = svc.Schedule(context.Background(), provider(), created.ID, dto.ScheduleRequest{Action: models.ActionConfirm})
	require.NoError(t, err)

	final, err := svc.Respond(context.Background(), requester(), created.ID, models.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, final.Status)

	kinds := make([]models.NotificationKind, 0, len(sink.emitted))
	for _, n := range sink.emitted {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []models.NotificationKind{
		models.NotifSessionRequested,
		models.NotifSessionAccepted,
		models.NotifScheduleProposed,
		models.NotifScheduleConfirmed,
		models.NotifSessionCompleted,
	}, kinds)
}

func TestSessionServiceListAllClampsAndFilters(t *testing.T) {
	store := newMockSessionStore()
	seedRequest(store, models.StatusAccepted, models.ScheduleProposed)
	svc := newTestSessionService(store, seededSkills(), &mockSink{})

	reqs, err := svc.ListAll(context.Background(), dto.AdminSessionQuery{
		Status:         "accepted",
		ScheduleStatus: "bogus",
		Limit:          500,
		Offset:         -3,
	})
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	assert.Equal(t, models.StatusAccepted, store.lastFilter.Status)
	assert.Empty(t, store.lastFilter.ScheduleStatus)
	assert.Equal(t, 20, store.lastFilter.Limit)
	assert.Equal(t, 0, store.lastFilter.Offset)
}
