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

type reviewService interface {
	Submit(ctx context.Context, actor *models.JWTClaims, req dto.CreateReviewRequest) (*models.Review, error)
	ListForSession(ctx context.Context, actor *models.JWTClaims, sessionRequestID string) ([]models.Review, error)
}

// ReviewHandler exposes session feedback endpoints.
type ReviewHandler struct {
	reviews reviewService
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(reviews reviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create godoc
// @Summary Leave feedback on a completed session
// @Tags Reviews
// @Accept json
// @Produce json
// @Param payload body dto.CreateReviewRequest true "Review payload"
// @Success 201 {object} response.Envelope
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	review, err := h.reviews.Submit(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// ListForSession godoc
// @Summary List a session's reviews
// @Tags Reviews
// @Produce json
// @Param id path string true "Session request ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/reviews [get]
func (h *ReviewHandler) ListForSession(c *gin.Context) {
	reviews, err := h.reviews.ListForSession(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews)
}
