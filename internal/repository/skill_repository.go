package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/skillswap-app/session-api/internal/models"
)

const skillColumns = `id, user_id, type, title, description, tags, visibility, created_at`

// SkillRepository reads the skills catalog. The engine treats the catalog as
// a collaborator: existence, ownership and visibility lookups only.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository constructs the repository.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// GetByID returns a single skill.
func (r *SkillRepository) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	query := fmt.Sprintf(`SELECT %s FROM skills WHERE id = $1`, skillColumns)
	var skill models.Skill
	if err := r.db.GetContext(ctx, &skill, query, id); err != nil {
		return nil, err
	}
	return &skill, nil
}

// ListVisible returns public skills plus the viewer's own, newest first.
func (r *SkillRepository) ListVisible(ctx context.Context, viewerID string) ([]models.Skill, error) {
	query := fmt.Sprintf(`SELECT %s FROM skills
		WHERE visibility = 'public' OR user_id = $1
		ORDER BY created_at DESC`, skillColumns)
	var skills []models.Skill
	if err := r.db.SelectContext(ctx, &skills, query, viewerID); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}
