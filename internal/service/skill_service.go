package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/skillswap-app/session-api/internal/models"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
)

type skillStore interface {
	GetByID(ctx context.Context, id string) (*models.Skill, error)
	ListVisible(ctx context.Context, viewerID string) ([]models.Skill, error)
}

// SkillService is the thin catalog surface the engine and clients consult.
// Full catalog CRUD lives outside the session engine.
type SkillService struct {
	store  skillStore
	logger *zap.Logger
}

// NewSkillService constructs the service.
func NewSkillService(store skillStore, logger *zap.Logger) *SkillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillService{store: store, logger: logger}
}

// Get returns a skill visible to the viewer. Private skills of other users
// are indistinguishable from absent ones.
func (s *SkillService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Skill, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	skill, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "skill not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load skill")
	}
	if skill.Visibility == models.VisibilityPrivate && skill.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "skill not found")
	}
	return skill, nil
}

// List returns public skills plus the viewer's own.
func (s *SkillService) List(ctx context.Context, actor *models.JWTClaims) ([]models.Skill, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	skills, err := s.store.ListVisible(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list skills")
	}
	return skills, nil
}
