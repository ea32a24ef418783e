package models

import "time"

// Review is feedback left by one participant of a completed session for the
// other. At most one review exists per (session_request_id, from_user_id).
type Review struct {
	ID               string    `db:"id" json:"id"`
	SessionRequestID string    `db:"session_request_id" json:"session_request_id"`
	FromUserID       string    `db:"from_user_id" json:"from_user_id"`
	ToUserID         string    `db:"to_user_id" json:"to_user_id"`
	Rating           int       `db:"rating" json:"rating"`
	Comment          *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
