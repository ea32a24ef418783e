package models

import "time"

// AvailabilitySlot is a provider-owned time window offered for scheduling.
// Slots are soft-deleted (deactivated) and may be reserved by at most one
// session request while a proposal is in flight.
type AvailabilitySlot struct {
	ID                string     `db:"id" json:"id"`
	UserID            string     `db:"user_id" json:"user_id"`
	StartTime         time.Time  `db:"start_time" json:"start_time"`
	EndTime           time.Time  `db:"end_time" json:"end_time"`
	Timezone          string     `db:"timezone" json:"timezone"`
	Active            bool       `db:"active" json:"active"`
	ReservedRequestID *string    `db:"reserved_request_id" json:"reserved_request_id,omitempty"`
	ReservedAt        *time.Time `db:"reserved_at" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}
