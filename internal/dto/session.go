package dto

import (
	"time"

	"github.com/skillswap-app/session-api/internal/models"
)

// CreateSessionRequest is the payload to request a session on a skill.
type CreateSessionRequest struct {
	SkillID string `json:"skill_id" validate:"required"`
	Message string `json:"message" validate:"max=500"`
}

// RespondRequest carries a lifecycle intent for a session request.
type RespondRequest struct {
	Action models.RequestAction `json:"action" validate:"required,oneof=accept decline cancel complete"`
}

// ScheduleRequest carries a negotiation intent for an accepted request.
// For propose, either SlotID or an explicit ScheduledStart/ScheduledEnd pair
// must be supplied; confirm and clear take no payload beyond the action.
type ScheduleRequest struct {
	Action         models.ScheduleAction `json:"action" validate:"required,oneof=propose confirm clear"`
	SlotID         string                `json:"slot_id"`
	ScheduledStart *time.Time            `json:"scheduled_start"`
	ScheduledEnd   *time.Time            `json:"scheduled_end"`
	Timezone       string                `json:"timezone"`
}

// AdminSessionQuery filters the admin moderation listing of session
// requests. Unknown filter values are ignored rather than rejected.
type AdminSessionQuery struct {
	Status         string `form:"status"`
	ScheduleStatus string `form:"schedule_status"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

// SessionListResponse partitions the caller's requests by role.
type SessionListResponse struct {
	Made     []models.SessionRequest `json:"made"`
	Received []models.SessionRequest `json:"received"`
}
