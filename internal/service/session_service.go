package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillswap-app/session-api/internal/dto"
	"github.com/skillswap-app/session-api/internal/models"
	"github.com/skillswap-app/session-api/internal/repository"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
)

type sessionStore interface {
	GetByID(ctx context.Context, id string) (*models.SessionRequest, error)
	ListByUser(ctx context.Context, userID string) ([]models.SessionRequest, error)
	ListAll(ctx context.Context, filter repository.SessionListFilter) ([]models.SessionRequest, error)
	HasActiveForSkill(ctx context.Context, requesterID, skillID string) (bool, error)
	Create(ctx context.Context, req *models.SessionRequest, notif *models.Notification) error
	UpdateStatus(ctx context.Context, params repository.UpdateStatusParams, notif *models.Notification) error
	ProposeSchedule(ctx context.Context, params repository.ProposeScheduleParams, notif *models.Notification) (*models.SessionRequest, error)
	ConfirmSchedule(ctx context.Context, params repository.ConfirmScheduleParams, notif *models.Notification) error
	ClearSchedule(ctx context.Context, requestID string, respondedAt time.Time, notif *models.Notification) error
}

type skillCatalog interface {
	GetByID(ctx context.Context, id string) (*models.Skill, error)
}

type providerSlots interface {
	ListForRequest(ctx context.Context, providerID, requestID string) ([]models.AvailabilitySlot, error)
}

// NotificationSink observes notifications after their transaction committed,
// for cache invalidation and out-of-band delivery. Implementations must not
// fail the calling intent.
type NotificationSink interface {
	Emitted(ctx context.Context, n *models.Notification)
}

// SessionService owns the session-request lifecycle and the scheduling
// negotiation layered on top of accepted requests.
type SessionService struct {
	store           sessionStore
	skills          skillCatalog
	slots           providerSlots
	sink            NotificationSink
	validator       *validator.Validate
	logger          *zap.Logger
	defaultTimezone string
}

// NewSessionService constructs the service.
func NewSessionService(store sessionStore, skills skillCatalog, slots providerSlots, sink NotificationSink, validate *validator.Validate, logger *zap.Logger, defaultTimezone string) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultTimezone == "" {
		defaultTimezone = "America/Denver"
	}
	return &SessionService{
		store:           store,
		skills:          skills,
		slots:           slots,
		sink:            sink,
		validator:       validate,
		logger:          logger,
		defaultTimezone: defaultTimezone,
	}
}

// Create opens a new pending request against a skill.
func (s *SessionService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateSessionRequest) (*models.SessionRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "invalid session request payload")
	}

	skill, err := s.skills.GetByID(ctx, req.SkillID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "skill not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load skill")
	}
	if skill.UserID == actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "you cannot request your own skill")
	}
	if skill.Visibility == models.VisibilityPrivate {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "that skill is private and cannot be requested")
	}

	active, err := s.store.HasActiveForSkill(ctx, actor.UserID, skill.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing requests")
	}
	if active {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you already have an active request for this skill")
	}

	request := &models.SessionRequest{
		ID:             uuid.NewString(),
		RequesterID:    actor.UserID,
		ProviderID:     skill.UserID,
		SkillID:        skill.ID,
		Status:         models.StatusPending,
		ScheduleStatus: models.ScheduleNone,
		CreatedAt:      time.Now().UTC(),
	}
	if req.Message != "" {
		request.Message = &req.Message
	}
	request.SkillTitle = &skill.Title

	notif := s.buildNotification(request, skill.UserID, models.NotifSessionRequested,
		"New session request",
		fmt.Sprintf("You received a request for '%s'.", skill.Title))

	if err := s.store.Create(ctx, request, notif); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session request")
	}
	s.emit(ctx, notif)
	return request, nil
}

// ListMine returns the caller's requests partitioned by role.
func (s *SessionService) ListMine(ctx context.Context, actorID string) (*dto.SessionListResponse, error) {
	reqs, err := s.store.ListByUser(ctx, actorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session requests")
	}
	out := &dto.SessionListResponse{
		Made:     []models.SessionRequest{},
		Received: []models.SessionRequest{},
	}
	for _, r := range reqs {
		if r.RequesterID == actorID {
			out.Made = append(out.Made, r)
		} else {
			out.Received = append(out.Received, r)
		}
	}
	return out, nil
}

// ListAll is the moderation view over every session request. Routing gates
// it to admins; unknown filter values are ignored rather than rejected.
func (s *SessionService) ListAll(ctx context.Context, query dto.AdminSessionQuery) ([]models.SessionRequest, error) {
	filter := repository.SessionListFilter{
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if filter.Limit < 1 || filter.Limit > 50 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	switch st := models.RequestStatus(query.Status); st {
	case models.StatusPending, models.StatusAccepted, models.StatusDeclined, models.StatusCancelled, models.StatusCompleted:
		filter.Status = st
	}
	switch ss := models.ScheduleStatus(query.ScheduleStatus); ss {
	case models.ScheduleNone, models.ScheduleProposed, models.ScheduleConfirmed:
		filter.ScheduleStatus = ss
	}

	reqs, err := s.store.ListAll(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session requests")
	}
	return reqs, nil
}

// Respond applies a lifecycle intent (accept, decline, cancel, complete).
func (s *SessionService) Respond(ctx context.Context, actor *models.JWTClaims, requestID string, action models.RequestAction) (*models.SessionRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var (
		target        models.RequestStatus
		recipient     string
		kind          models.NotificationKind
		title, body   string
		clearSchedule bool
		releaseSlot   bool
	)

	switch action {
	case models.ActionAccept, models.ActionDecline:
		if actor.UserID != req.ProviderID && !actor.IsAdmin() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only the provider can accept or decline")
		}
		if req.Status != models.StatusPending {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only pending requests can be accepted or declined")
		}
		target = models.StatusAccepted
		kind = models.NotifSessionAccepted
		if action == models.ActionDecline {
			target = models.StatusDeclined
			kind = models.NotifSessionDeclined
		}
		recipient = req.RequesterID
		title = fmt.Sprintf("Your session request was %s", target)
		body = fmt.Sprintf("Request for '%s' was %s.", s.skillTitle(req), target)

	case models.ActionCancel:
		if actor.UserID != req.RequesterID && !actor.IsAdmin() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only the requester can cancel")
		}
		if req.Status != models.StatusPending && req.Status != models.StatusAccepted {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only pending or accepted requests can be cancelled")
		}
		target = models.StatusCancelled
		kind = models.NotifSessionCancelled
		recipient = req.ProviderID
		title = "Session request cancelled"
		body = fmt.Sprintf("A request for '%s' was cancelled.", s.skillTitle(req))
		clearSchedule = true
		releaseSlot = true

	case models.ActionComplete:
		if !req.Participant(actor.UserID) && !actor.IsAdmin() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only a participant can complete the session")
		}
		if req.Status != models.StatusAccepted {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only accepted requests can be completed")
		}
		target = models.StatusCompleted
		kind = models.NotifSessionCompleted
		recipient = req.CounterpartyOf(actor.UserID)
		title = "Session marked completed"
		body = fmt.Sprintf("Session for '%s' was marked completed.", s.skillTitle(req))
		// The schedule snapshot stays on the row as the historical record.

	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "action must be one of: accept, decline, cancel, complete")
	}

	notif := s.buildNotification(req, recipient, kind, title, body)
	params := repository.UpdateStatusParams{
		ID:            req.ID,
		FromStatus:    req.Status,
		ToStatus:      target,
		RespondedAt:   time.Now().UTC(),
		ClearSchedule: clearSchedule,
		ReleaseSlot:   releaseSlot,
	}
	if err := s.store.UpdateStatus(ctx, params, notif); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "the request changed underneath you, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session request")
	}
	s.emit(ctx, notif)
	return s.load(ctx, requestID)
}

// Schedule applies a negotiation intent (propose, confirm, clear) to an
// accepted request.
func (s *SessionService) Schedule(ctx context.Context, actor *models.JWTClaims, requestID string, req dto.ScheduleRequest) (*models.SessionRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	current, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if current.Status != models.StatusAccepted {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "scheduling is only allowed for accepted requests")
	}

	switch req.Action {
	case models.ActionPropose:
		return s.propose(ctx, actor, current, req)
	case models.ActionConfirm:
		return s.confirm(ctx, actor, current)
	case models.ActionClear:
		return s.clear(ctx, actor, current)
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "action must be propose, confirm, or clear")
	}
}

func (s *SessionService) propose(ctx context.Context, actor *models.JWTClaims, req *models.SessionRequest, payload dto.ScheduleRequest) (*models.SessionRequest, error) {
	if actor.UserID != req.RequesterID && !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the requester can propose a time")
	}
	if req.ScheduleStatus == models.ScheduleConfirmed {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "a confirmed schedule must be cleared before re-proposing")
	}

	params := repository.ProposeScheduleParams{
		RequestID:   req.ID,
		ProviderID:  req.ProviderID,
		SlotID:      payload.SlotID,
		RespondedAt: time.Now().UTC(),
	}
	if payload.SlotID == "" {
		if payload.ScheduledStart == nil || payload.ScheduledEnd == nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "slot_id or scheduled_start and scheduled_end are required")
		}
		if !payload.ScheduledEnd.After(*payload.ScheduledStart) {
			return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "scheduled_end must be after scheduled_start")
		}
		params.Start = payload.ScheduledStart.UTC()
		params.End = payload.ScheduledEnd.UTC()
		params.Timezone = payload.Timezone
		if params.Timezone == "" {
			params.Timezone = s.defaultTimezone
		}
	}

	notif := s.buildNotification(req, req.ProviderID, models.NotifScheduleProposed,
		"New time proposed",
		fmt.Sprintf("A time was proposed for '%s'.", s.skillTitle(req)))

	updated, err := s.store.ProposeSchedule(ctx, params, notif)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotUnavailable):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "availability slot not found")
		case errors.Is(err, repository.ErrSlotReserved):
			return nil, appErrors.Clone(appErrors.ErrConflict, "that availability slot is already reserved")
		case errors.Is(err, repository.ErrStaleState):
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "the request changed underneath you, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to propose schedule")
	}
	s.emit(ctx, notif)
	return updated, nil
}

func (s *SessionService) confirm(ctx context.Context, actor *models.JWTClaims, req *models.SessionRequest) (*models.SessionRequest, error) {
	if actor.UserID != req.ProviderID && !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the provider can confirm")
	}
	if req.ScheduleStatus != models.ScheduleProposed || req.ScheduledStart == nil || req.ScheduledEnd == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "nothing to confirm yet")
	}

	notif := s.buildNotification(req, req.RequesterID, models.NotifScheduleConfirmed,
		"Session time confirmed",
		fmt.Sprintf("Your session time for '%s' was confirmed.", s.skillTitle(req)))

	params := repository.ConfirmScheduleParams{
		RequestID:   req.ID,
		Start:       *req.ScheduledStart,
		End:         *req.ScheduledEnd,
		RespondedAt: time.Now().UTC(),
	}
	if err := s.store.ConfirmSchedule(ctx, params, notif); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotChanged):
			return nil, appErrors.Clone(appErrors.ErrConflict, "the reserved slot no longer matches the proposed time")
		case errors.Is(err, repository.ErrStaleState):
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "the request changed underneath you, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm schedule")
	}
	s.emit(ctx, notif)
	return s.load(ctx, req.ID)
}

func (s *SessionService) clear(ctx context.Context, actor *models.JWTClaims, req *models.SessionRequest) (*models.SessionRequest, error) {
	if !req.Participant(actor.UserID) && !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only a participant can clear the schedule")
	}
	if req.ScheduleStatus == models.ScheduleNone {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "there is no schedule to clear")
	}

	notif := s.buildNotification(req, req.CounterpartyOf(actor.UserID), models.NotifScheduleCleared,
		"Schedule cleared",
		fmt.Sprintf("The schedule for '%s' was cleared.", s.skillTitle(req)))

	if err := s.store.ClearSchedule(ctx, req.ID, time.Now().UTC(), notif); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "the request changed underneath you, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear schedule")
	}
	s.emit(ctx, notif)
	return s.load(ctx, req.ID)
}

// ProviderAvailability lists the provider's proposable slots for a request.
func (s *SessionService) ProviderAvailability(ctx context.Context, actor *models.JWTClaims, requestID string) ([]models.AvailabilitySlot, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Participant(actor.UserID) && !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not authorized to view this provider's availability")
	}
	slots, err := s.slots.ListForRequest(ctx, req.ProviderID, req.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list provider availability")
	}
	return slots, nil
}

func (s *SessionService) load(ctx context.Context, id string) (*models.SessionRequest, error) {
	req, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session request")
	}
	return req, nil
}

func (s *SessionService) buildNotification(req *models.SessionRequest, recipient string, kind models.NotificationKind, title, body string) *models.Notification {
	reqID := req.ID
	skillID := req.SkillID
	return &models.Notification{
		UserID:           recipient,
		Kind:             kind,
		Title:            title,
		Body:             body,
		SessionRequestID: &reqID,
		SkillID:          &skillID,
	}
}

func (s *SessionService) emit(ctx context.Context, n *models.Notification) {
	if s.sink == nil || n == nil {
		return
	}
	s.sink.Emitted(ctx, n)
}

func (s *SessionService) skillTitle(req *models.SessionRequest) string {
	if req.SkillTitle != nil {
		return *req.SkillTitle
	}
	return "your skill"
}
