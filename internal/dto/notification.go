package dto

// UnreadCountResponse reports the caller's unread notification count.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
