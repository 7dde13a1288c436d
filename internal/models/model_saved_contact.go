package models

import (
	"time"

	"gorm.io/datatypes"
)

// SavedContact is a user's bookmark of a profile with a copy of its contact data.
// At most one row exists per (user_id, profile_id).
type SavedContact struct {
	ID          string         `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID      string         `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uk_user_profile,priority:1" json:"user_id"`
	ProfileID   string         `gorm:"column:profile_id;type:varchar(36);not null;uniqueIndex:uk_user_profile,priority:2;index" json:"profile_id"`
	ContactData datatypes.JSON `gorm:"column:contact_data" json:"contact_data"`
	SavedAt     time.Time      `gorm:"column:saved_at;not null" json:"saved_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (SavedContact) TableName() string {
	return "vcard_saved_contact"
}
