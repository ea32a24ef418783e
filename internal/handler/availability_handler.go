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

type availabilityService interface {
	ListMine(ctx context.Context, userID string) ([]models.AvailabilitySlot, error)
	Create(ctx context.Context, userID string, req dto.CreateSlotRequest) (*models.AvailabilitySlot, error)
	Delete(ctx context.Context, userID, slotID string) error
}

// AvailabilityHandler exposes the caller's availability calendar.
type AvailabilityHandler struct {
	availability availabilityService
}

// NewAvailabilityHandler constructs AvailabilityHandler.
func NewAvailabilityHandler(availability availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// ListMine godoc
// @Summary List the caller's active availability slots
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	slots, err := h.availability.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// Create godoc
// @Summary Publish an availability slot
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.CreateSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /availability [post]
func (h *AvailabilityHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.availability.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Delete godoc
// @Summary Remove one of the caller's availability slots
// @Tags Availability
// @Produce json
// @Param id path string true "Slot ID"
// @Success 204 "No Content"
// @Router /availability/{id} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.availability.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
