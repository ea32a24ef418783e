package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap-app/session-api/internal/dto"
	"github.com/skillswap-app/session-api/internal/models"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
	"github.com/skillswap-app/session-api/pkg/response"
)

type sessionService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateSessionRequest) (*models.SessionRequest, error)
	ListMine(ctx context.Context, actorID string) (*dto.SessionListResponse, error)
	Respond(ctx context.Context, actor *models.JWTClaims, requestID string, action models.RequestAction) (*models.SessionRequest, error)
	Schedule(ctx context.Context, actor *models.JWTClaims, requestID string, req dto.ScheduleRequest) (*models.SessionRequest, error)
	ProviderAvailability(ctx context.Context, actor *models.JWTClaims, requestID string) ([]models.AvailabilitySlot, error)
	ListAll(ctx context.Context, query dto.AdminSessionQuery) ([]models.SessionRequest, error)
}

// SessionHandler exposes the session-request lifecycle endpoints.
type SessionHandler struct {
	sessions sessionService
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(sessions sessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create godoc
// @Summary Request a session on a skill
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Session request payload"
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.sessions.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// ListMine godoc
// @Summary List the caller's session requests, made and received
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sessions/mine [get]
func (h *SessionHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.sessions.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Respond godoc
// @Summary Accept, decline, cancel, or complete a session request
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session request ID"
// @Param payload body dto.RespondRequest true "Lifecycle action"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/respond [post]
func (h *SessionHandler) Respond(c *gin.Context) {
	var req dto.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	updated, err := h.sessions.Respond(c.Request.Context(), claimsFromContext(c), c.Param("id"), req.Action)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

// Schedule godoc
// @Summary Propose, confirm, or clear a session time
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session request ID"
// @Param payload body dto.ScheduleRequest true "Scheduling action"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/schedule [post]
func (h *SessionHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	updated, err := h.sessions.Schedule(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

// ListAll godoc
// @Summary List all session requests for moderation (admin only)
// @Tags Admin
// @Produce json
// @Param status query string false "Filter by lifecycle status"
// @Param schedule_status query string false "Filter by negotiation substate"
// @Param limit query int false "Page size (max 50)"
// @Param offset query int false "Offset into the result set"
// @Success 200 {object} response.Envelope
// @Router /admin/sessions [get]
func (h *SessionHandler) ListAll(c *gin.Context) {
	var query dto.AdminSessionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	reqs, err := h.sessions.ListAll(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reqs)
}

// ProviderAvailability godoc
// @Summary List the provider's proposable slots for a session request
// @Tags Sessions
// @Produce json
// @Param id path string true "Session request ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/availability [get]
func (h *SessionHandler) ProviderAvailability(c *gin.Context) {
	slots, err := h.sessions.ProviderAvailability(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}
