package dto

import "time"

// CreateSlotRequest is the payload to publish an availability slot.
type CreateSlotRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Timezone  string    `json:"timezone"`
}
