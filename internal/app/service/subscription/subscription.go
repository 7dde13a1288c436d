package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/config"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/tool"
	"github.com/fatflowers/vcard/pkg/types"
)

var ErrPlanNotFound = errors.New("plan not found")

type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
	now func() time.Time
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, db: db, log: log, now: time.Now}
}

// UpsertRequest changes a user's plan. Purchases and admin grants both go through it.
type UpsertRequest struct {
	UserID       string                         `json:"user_id" binding:"required"`
	PlanID       string                         `json:"plan_id" binding:"required"`
	BillingCycle types.BillingCycle             `json:"billing_cycle"`
	AutoRenew    *bool                          `json:"auto_renew"`
	OperatorID   string                         `json:"-"`
	Reason       types.SubscriptionChangeReason `json:"-"`
}

// Get returns the user's subscription row, or nil when the user never subscribed.
func (s *Service) Get(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// ActivePlan resolves the plan limiting the user: the subscribed plan while the
// subscription is valid, the configured default plan otherwise.
func (s *Service) ActivePlan(ctx context.Context, userID string) (*types.Plan, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.planFor(sub), nil
}

func (s *Service) planFor(sub *models.Subscription) *types.Plan {
	if sub.Valid() {
		if p := s.cfg.GetPlanByID(sub.Plan); p != nil {
			return p
		}
	}
	return s.cfg.GetPlanByID(s.cfg.DefaultPlan)
}

// Info summarizes the user's plan together with their current profile usage.
func (s *Service) Info(ctx context.Context, userID string, profiles int64) (*types.UserSubscriptionInfo, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan := s.planFor(sub)
	info := &types.UserSubscriptionInfo{
		Plan:     plan.ID,
		Status:   types.SubscriptionStatusActive,
		Profiles: profiles,
		Limit:    plan.MaxProfiles,
	}
	if sub != nil && sub.Plan == plan.ID {
		info.Status = sub.Status
		info.ExpireAt = sub.ExpireAt
	}
	return info, nil
}

// Upsert moves the user onto a plan and starts a new billing period now.
func (s *Service) Upsert(ctx context.Context, req *UpsertRequest) (*models.Subscription, error) {
	plan := s.cfg.GetPlanByID(req.PlanID)
	if plan == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, req.PlanID)
	}
	cycle := req.BillingCycle
	if cycle == "" {
		cycle = types.BillingCycleMonthly
	}
	reason := req.Reason
	if reason == "" {
		reason = types.SubscriptionChangeReasonPurchase
	}

	start := s.now()
	sub := &models.Subscription{
		UserID:       req.UserID,
		Plan:         plan.ID,
		Status:       types.SubscriptionStatusActive,
		BillingCycle: cycle,
		Amount:       amountFor(plan, cycle),
		Currency:     plan.Currency,
		PeriodStart:  &start,
		ExpireAt:     plan.PeriodEnd(start, cycle),
		AutoRenew:    req.AutoRenew == nil || *req.AutoRenew,
		Extra:        datatypes.JSONMap{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.upsertSubscription(ctx, tx, sub, reason, req.OperatorID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert subscription: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infof("subscription upserted, user_id=%s, plan=%s, reason=%s", sub.UserID, sub.Plan, reason)
	return sub, nil
}

// Cancel stops auto renewal and marks the subscription cancelled. The user
// falls back to the default plan.
func (s *Service) Cancel(ctx context.Context, userID, operatorID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.Subscription
		if err := tx.Where("user_id = ?", userID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get subscription: %w", err)
		}
		sub.Status = types.SubscriptionStatusCancelled
		sub.AutoRenew = false
		if _, err := s.upsertSubscription(ctx, tx, &sub, types.SubscriptionChangeReasonCancel, operatorID); err != nil {
			return err
		}
		return nil
	})
}

func amountFor(plan *types.Plan, cycle types.BillingCycle) int64 {
	if cycle == types.BillingCycleYearly {
		return plan.Price * 12
	}
	return plan.Price
}

// upsertSubscription saves m keyed by user_id and reports whether validity changed.
// The change log is written asynchronously.
func (s *Service) upsertSubscription(ctx context.Context, tx *gorm.DB, m *models.Subscription, reason types.SubscriptionChangeReason, operatorID string) (bool, error) {
	var original models.Subscription
	if err := tx.WithContext(ctx).Where("user_id = ?", m.UserID).First(&original).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("failed to get original subscription: %w", err)
		}
	}

	if original.ID != "" {
		m.ID = original.ID
		m.CreatedAt = original.CreatedAt
	} else if m.ID == "" {
		m.ID = tool.GenerateUUIDV7()
	}

	var before *models.Subscription
	if original.ID != "" {
		cp := original
		before = &cp
	}

	if err := tx.WithContext(ctx).Save(m).Error; err != nil {
		return false, fmt.Errorf("failed to save subscription: %w", err)
	}

	changed := (before != nil && before.Valid() != m.Valid()) || (before == nil && m.Valid())

	after := *m
	go func(b, a *models.Subscription) {
		entry := &models.SubscriptionLog{
			ID:         tool.GenerateUUIDV7(),
			UserID:     a.UserID,
			Reason:     reason,
			Before:     datatypes.NewJSONType(b),
			After:      datatypes.NewJSONType(a),
			OperatorID: operatorID,
		}
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}(before, &after)

	return changed, nil
}
