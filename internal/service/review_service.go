package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillswap-app/session-api/internal/dto"
	"github.com/skillswap-app/session-api/internal/models"
	"github.com/skillswap-app/session-api/internal/repository"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
)

type reviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ExistsFor(ctx context.Context, sessionRequestID, fromUserID string) (bool, error)
	ListBySession(ctx context.Context, sessionRequestID string) ([]models.Review, error)
}

type sessionGetter interface {
	GetByID(ctx context.Context, id string) (*models.SessionRequest, error)
}

// ReviewService gates feedback: one review per (session, author), only after
// the session completed, only from its participants.
type ReviewService struct {
	reviews   reviewStore
	sessions  sessionGetter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs the service.
func NewReviewService(reviews reviewStore, sessions sessionGetter, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{reviews: reviews, sessions: sessions, validator: validate, logger: logger}
}

// Submit creates a review for a completed session.
func (s *ReviewService) Submit(ctx context.Context, actor *models.JWTClaims, req dto.CreateReviewRequest) (*models.Review, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "rating must be an integer between 1 and 5")
	}

	session, err := s.sessions.GetByID(ctx, req.SessionRequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session request")
	}
	if !session.Participant(actor.UserID) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "only a participant of the session can leave feedback")
	}
	if session.Status != models.StatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "feedback is only allowed after the session is completed")
	}

	exists, err := s.reviews.ExistsFor(ctx, session.ID, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing review")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you already reviewed this session")
	}

	review := &models.Review{
		SessionRequestID: session.ID,
		FromUserID:       actor.UserID,
		ToUserID:         session.CounterpartyOf(actor.UserID),
		Rating:           req.Rating,
	}
	if req.Comment != "" {
		review.Comment = &req.Comment
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		// The unique constraint backstops a race between the existence check
		// and the insert; the stored review stays untouched either way.
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "you already reviewed this session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}
	return review, nil
}

// ListForSession returns a session's reviews to its participants and admins.
func (s *ReviewService) ListForSession(ctx context.Context, actor *models.JWTClaims, sessionRequestID string) ([]models.Review, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	session, err := s.sessions.GetByID(ctx, sessionRequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session request")
	}
	if !session.Participant(actor.UserID) && !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not authorized to view these reviews")
	}
	reviews, err := s.reviews.ListBySession(ctx, sessionRequestID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}
