package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillswap-app/session-api/internal/dto"
	"github.com/skillswap-app/session-api/internal/models"
	appErrors "github.com/skillswap-app/session-api/pkg/errors"
	"github.com/skillswap-app/session-api/pkg/response"
)

type notificationService interface {
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// NotificationHandler exposes the caller's notification inbox.
type NotificationHandler struct {
	notifications notificationService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifications notificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List godoc
// @Summary List the caller's newest notifications
// @Tags Notifications
// @Produce json
// @Param limit query int false "Max items to return"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	items, err := h.notifications.List(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// UnreadCount godoc
// @Summary Count the caller's unread notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.UnreadCountResponse{Unread: count})
}

// MarkRead godoc
// @Summary Mark one notification read
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MarkAllRead godoc
// @Summary Mark all of the caller's notifications read
// @Tags Notifications
// @Produce json
// @Success 204 "No Content"
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.notifications.MarkAllRead(c.Request.Context(), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
