package models

import "time"

// SkillType distinguishes skills offered to teach from skills sought.
type SkillType string

const (
	SkillOffer SkillType = "offer"
	SkillSeek  SkillType = "seek"
)

// SkillVisibility controls who can see and request a skill.
type SkillVisibility string

const (
	VisibilityPublic  SkillVisibility = "public"
	VisibilityPrivate SkillVisibility = "private"
)

// Skill is a catalog entry owned by the user who created it. The engine
// consults it for existence, ownership and visibility when a session request
// is created.
type Skill struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	Type        SkillType       `db:"type" json:"type"`
	Title       string          `db:"title" json:"title"`
	Description *string         `db:"description" json:"description,omitempty"`
	Tags        *string         `db:"tags" json:"tags,omitempty"`
	Visibility  SkillVisibility `db:"visibility" json:"visibility"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
