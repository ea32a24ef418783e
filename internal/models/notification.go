package models

import "time"

// NotificationKind identifies the transition that produced a notification.
type NotificationKind string

const (
	NotifSessionRequested  NotificationKind = "session_requested"
	NotifSessionAccepted   NotificationKind = "session_accepted"
	NotifSessionDeclined   NotificationKind = "session_declined"
	NotifSessionCancelled  NotificationKind = "session_cancelled"
	NotifSessionCompleted  NotificationKind = "session_completed"
	NotifScheduleProposed  NotificationKind = "schedule_proposed"
	NotifScheduleConfirmed NotificationKind = "schedule_confirmed"
	NotifScheduleCleared   NotificationKind = "schedule_cleared"
)

// Notification is an event record for the recipient's inbox. Rows are written
// in the same transaction as the state change that caused them and are only
// ever mutated by the recipient marking them read.
type Notification struct {
	ID               string           `db:"id" json:"id"`
	UserID           string           `db:"user_id" json:"user_id"`
	Kind             NotificationKind `db:"kind" json:"kind"`
	Title            string           `db:"title" json:"title"`
	Body             string           `db:"body" json:"body"`
	SessionRequestID *string          `db:"session_request_id" json:"session_request_id,omitempty"`
	SkillID          *string          `db:"skill_id" json:"skill_id,omitempty"`
	Read             bool             `db:"is_read" json:"is_read"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
}
