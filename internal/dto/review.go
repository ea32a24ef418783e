package dto

// CreateReviewRequest is the payload to leave feedback on a completed session.
type CreateReviewRequest struct {
	SessionRequestID string `json:"session_request_id" validate:"required"`
	Rating           int    `json:"rating" validate:"required,min=1,max=5"`
	Comment          string `json:"comment"`
}
