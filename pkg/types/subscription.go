package types

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonPurchase SubscriptionChangeReason = "purchase"
	SubscriptionChangeReasonCancel   SubscriptionChangeReason = "cancel"
	SubscriptionChangeReasonAdmin    SubscriptionChangeReason = "admin"
	SubscriptionChangeReasonExpire   SubscriptionChangeReason = "expire"
)

// Plan is a subscription tier loaded from config.
type Plan struct {
	ID           string `json:"id" mapstructure:"id"`
	Name         string `json:"name" mapstructure:"name"`
	MaxProfiles  int    `json:"max_profiles" mapstructure:"max_profiles"`
	Price        int64  `json:"price" mapstructure:"price"`
	Currency     string `json:"currency" mapstructure:"currency"`
	DurationDays *int   `json:"duration_days" mapstructure:"duration_days"`
}

// Unlimited reports whether the plan has no profile cap.
func (p *Plan) Unlimited() bool {
	return p.MaxProfiles <= 0
}

// PeriodEnd returns the end of a period starting at start, or nil for plans without a duration.
func (p *Plan) PeriodEnd(start time.Time, cycle BillingCycle) *time.Time {
	if p.DurationDays == nil {
		return nil
	}
	days := *p.DurationDays
	if cycle == BillingCycleYearly {
		days *= 12
	}
	end := start.AddDate(0, 0, days)
	return &end
}

type UserSubscriptionInfo struct {
	Plan     string             `json:"plan"`
	Status   SubscriptionStatus `json:"status"`
	ExpireAt *time.Time         `json:"expire_at"`
	Profiles int64              `json:"profiles"`
	Limit    int                `json:"limit"`
}
