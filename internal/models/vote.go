package models

import (
	"time"
)

const (
	VoteUp   = 1
	VoteDown = -1

	// MaxItemIDLength must match the ItemID column size.
	MaxItemIDLength = 512
)

// Vote is a user's reaction to one item. (user_id, feedback_type, item_id) is
// unique; a repeated cast updates Value in place.
type Vote struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_vote_triple,priority:1" json:"userId"`
	User         User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FeedbackType FeedbackType `gorm:"type:varchar(16);not null;uniqueIndex:idx_vote_triple,priority:2;index:idx_vote_item,priority:1" json:"type"`
	ItemID       string       `gorm:"size:512;not null;uniqueIndex:idx_vote_triple,priority:3;index:idx_vote_item,priority:2" json:"itemId"`
	Value        int          `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Tally counts the votes on one item.
type Tally struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}
