package models

import (
	"time"

	"github.com/fatflowers/vcard/pkg/types"
	"gorm.io/datatypes"
)

// AnalyticsEvent is an append-only record of a visitor action on a profile.
type AnalyticsEvent struct {
	ID        string            `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ProfileID string            `gorm:"column:profile_id;type:varchar(36);not null;index:idx_profile_event,priority:1" json:"profile_id"`
	EventType types.EventType   `gorm:"column:event_type;type:varchar(32);not null;index:idx_profile_event,priority:2" json:"event_type"`
	EventData datatypes.JSONMap `gorm:"column:event_data" json:"event_data"`
	// Platform is set for share events.
	Platform  string            `gorm:"column:platform;type:varchar(32)" json:"platform,omitempty"`
	VisitorIP string            `gorm:"column:visitor_ip;type:varchar(64)" json:"visitor_ip"`
	UserAgent string            `gorm:"column:user_agent;type:varchar(512)" json:"user_agent"`
	Referrer  string            `gorm:"column:referrer;type:varchar(512)" json:"referrer"`
	SessionID string            `gorm:"column:session_id;type:varchar(64)" json:"session_id"`
	UserID    string            `gorm:"column:user_id;type:varchar(64)" json:"user_id,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;index" json:"created_at"`
}

func (AnalyticsEvent) TableName() string {
	return "vcard_analytics"
}
