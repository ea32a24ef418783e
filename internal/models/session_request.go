package models

import "time"

// RequestStatus is the coarse lifecycle state of a session request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusDeclined  RequestStatus = "declined"
	StatusCancelled RequestStatus = "cancelled"
	StatusCompleted RequestStatus = "completed"
)

// Terminal reports whether no further lifecycle transitions are possible.
func (s RequestStatus) Terminal() bool {
	switch s {
	case StatusDeclined, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ScheduleStatus is the negotiation substate layered on top of an accepted
// request. It only ever leaves "none" while the request is accepted.
type ScheduleStatus string

const (
	ScheduleNone      ScheduleStatus = "none"
	ScheduleProposed  ScheduleStatus = "proposed"
	ScheduleConfirmed ScheduleStatus = "confirmed"
)

// RequestAction is a lifecycle intent issued against a session request.
type RequestAction string

const (
	ActionAccept   RequestAction = "accept"
	ActionDecline  RequestAction = "decline"
	ActionCancel   RequestAction = "cancel"
	ActionComplete RequestAction = "complete"
)

// ScheduleAction is a negotiation intent issued against an accepted request.
type ScheduleAction string

const (
	ActionPropose ScheduleAction = "propose"
	ActionConfirm ScheduleAction = "confirm"
	ActionClear   ScheduleAction = "clear"
)

// SessionRequest is one request for help on a skill. The scheduled_* fields
// are a snapshot taken at proposal time; they never reference the slot row.
type SessionRequest struct {
	ID             string         `db:"id" json:"id"`
	RequesterID    string         `db:"requester_id" json:"requester_id"`
	ProviderID     string         `db:"provider_id" json:"provider_id"`
	SkillID        string         `db:"skill_id" json:"skill_id"`
	SkillTitle     *string        `db:"skill_title" json:"skill_title,omitempty"`
	Message        *string        `db:"message" json:"message,omitempty"`
	Status         RequestStatus  `db:"status" json:"status"`
	ScheduleStatus ScheduleStatus `db:"schedule_status" json:"schedule_status"`
	ScheduledStart *time.Time     `db:"scheduled_start" json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time     `db:"scheduled_end" json:"scheduled_end,omitempty"`
	Timezone       *string        `db:"timezone" json:"timezone,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	RespondedAt    *time.Time     `db:"responded_at" json:"responded_at,omitempty"`
}

// Participant reports whether the given user is the requester or provider.
func (r *SessionRequest) Participant(userID string) bool {
	return userID == r.RequesterID || userID == r.ProviderID
}

// CounterpartyOf returns the other participant relative to userID.
func (r *SessionRequest) CounterpartyOf(userID string) string {
	if userID == r.RequesterID {
		return r.ProviderID
	}
	return r.RequesterID
}
