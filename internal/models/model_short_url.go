package models

import "time"

// ShortURL maps a short code to a profile. Each profile has at most one code.
type ShortURL struct {
	Code      string    `gorm:"column:code;type:varchar(32);primaryKey" json:"code"`
	ProfileID string    `gorm:"column:profile_id;type:varchar(36);not null;uniqueIndex" json:"profile_id"`
	Clicks    int64     `gorm:"column:clicks;not null;default:0" json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
}

func (ShortURL) TableName() string {
	return "vcard_short_url"
}
