package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillswap-app/session-api/internal/models"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
)

func TestSkillServiceGetPrivateHiddenFromOthers(t *testing.T) {
	svc := NewSkillService(seededSkills(), zap.NewNop())

	_, err := svc.Get(context.Background(), requester(), "sk-2")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSkillServiceGetPrivateVisibleToOwner(t *testing.T) {
	svc := NewSkillService(seededSkills(), zap.NewNop())

	skill, err := svc.Get(context.Background(), provider(), "sk-2")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, skill.Visibility)
}

func TestSkillServiceGetPrivateVisibleToAdmin(t *testing.T) {
	svc := NewSkillService(seededSkills(), zap.NewNop())

	skill, err := svc.Get(context.Background(), admin(), "sk-2")
	require.NoError(t, err)
	assert.Equal(t, "sk-2", skill.ID)
}
