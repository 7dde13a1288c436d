package models

import (
	"time"

	"github.com/fatflowers/vcard/pkg/types"
	"gorm.io/datatypes"
)

// SubscriptionLog records subscription changes for troubleshooting.
type SubscriptionLog struct {
	ID         string                            `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID     string                            `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	Reason     types.SubscriptionChangeReason    `gorm:"column:reason;type:varchar(64);not null" json:"reason"`
	// Before is nil for the first subscription of a user.
	Before     datatypes.JSONType[*Subscription] `gorm:"column:before" json:"before"`
	After      datatypes.JSONType[*Subscription] `gorm:"column:after" json:"after"`
	OperatorID string                            `gorm:"column:operator_id;type:varchar(64)" json:"operator_id"`
	CreatedAt  time.Time                         `json:"created_at"`
}

func (SubscriptionLog) TableName() string {
	return "vcard_subscription_log"
}
