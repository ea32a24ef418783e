package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap-app/session-api/internal/models"
	"github.com/skillswap-app/session-api/pkg/response"
)

type skillService interface {
	Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Skill, error)
	List(ctx context.Context, actor *models.JWTClaims) ([]models.Skill, error)
}

// SkillHandler exposes the read-only skill catalog.
type SkillHandler struct {
	skills skillService
}

// NewSkillHandler constructs SkillHandler.
func NewSkillHandler(skills skillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// List godoc
// @Summary List skills visible to the caller
// @Tags Skills
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /skills [get]
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skills.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, skills)
}

// Get godoc
// @Summary Fetch a single skill
// @Tags Skills
// @Produce json
// @Param id path string true "Skill ID"
// @Success 200 {object} response.Envelope
// @Router /skills/{id} [get]
func (h *SkillHandler) Get(c *gin.Context) {
	skill, err := h.skills.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, skill)
}
