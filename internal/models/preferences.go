package models

import (
	"time"

	"gorm.io/datatypes"
)

// Preferences is the onboarding profile of one user. A save replaces the
// whole row.
type Preferences struct {
	ID           uint                             `gorm:"primaryKey" json:"-"`
	UserID       string                           `gorm:"type:varchar(36);not null;uniqueIndex" json:"-"`
	Assets       datatypes.JSONSlice[Asset]       `gorm:"not null" json:"assets"`
	InvestorType InvestorType                     `gorm:"type:varchar(32);not null;default:''" json:"investorType"`
	ContentTypes datatypes.JSONSlice[ContentType] `gorm:"not null" json:"contentTypes"`
	CreatedAt    time.Time                        `json:"-"`
	UpdatedAt    time.Time                        `json:"updatedAt"`
}

// EmptyPreferences is what a user who never saved preferences sees.
func EmptyPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:       userID,
		Assets:       datatypes.JSONSlice[Asset]{},
		ContentTypes: datatypes.JSONSlice[ContentType]{},
	}
}

// Enabled reports whether the section's content toggle is on.
func (p *Preferences) Enabled(s Section) bool {
	if p == nil {
		return false
	}
	want := s.ContentType()
	for _, c := range p.ContentTypes {
		if c == want {
			return true
		}
	}
	return false
}
