package models

import (
	"time"

	"github.com/fatflowers/vcard/pkg/types"
	"gorm.io/datatypes"
)

// Subscription is a user's plan state. One row per user.
// Use Valid() to determine whether the subscription is currently usable.
type Subscription struct {
	ID           string                   `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID       string                   `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex" json:"user_id"`
	Plan         string                   `gorm:"column:plan;type:varchar(64);not null" json:"plan"`
	Status       types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	BillingCycle types.BillingCycle       `gorm:"column:billing_cycle;type:varchar(32)" json:"billing_cycle"`
	Amount       int64                    `gorm:"column:amount;not null;default:0" json:"amount"`
	Currency     string                   `gorm:"column:currency;type:varchar(8)" json:"currency"`
	PeriodStart  *time.Time               `gorm:"column:current_period_start;default:null" json:"current_period_start"`
	// ExpireAt is the end of the current period; nil means no expiry.
	ExpireAt     *time.Time               `gorm:"column:current_period_end;default:null" json:"current_period_end"`
	AutoRenew    bool                     `gorm:"column:auto_renew;not null" json:"auto_renew"`
	// Extra holds provider references and operator notes.
	Extra        datatypes.JSONMap        `gorm:"column:extra" json:"extra"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "vcard_subscription"
}

func (s *Subscription) Valid() bool {
	return s != nil &&
		s.Status == types.SubscriptionStatusActive &&
		(s.ExpireAt == nil || s.ExpireAt.After(time.Now()))
}
