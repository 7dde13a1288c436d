package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/vcard/internal/app/service/subscription"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/tool"
	"github.com/fatflowers/vcard/pkg/types"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrForbidden        = errors.New("forbidden")
	ErrPlanLimitReached = errors.New("profile limit reached for current plan")
	ErrUnknownCounter   = errors.New("unknown counter")
)

// PlanResolver returns the plan currently limiting a user.
type PlanResolver interface {
	ActivePlan(ctx context.Context, userID string) (*types.Plan, error)
}

type Service struct {
	db        *gorm.DB
	log       *zap.SugaredLogger
	plans     PlanResolver
	validator *Validator
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, sub *subscription.Service) *Service {
	return &Service{db: db, log: log, plans: sub, validator: NewValidator()}
}

// Validate checks input without saving it.
func (s *Service) Validate(in *Input) error {
	return s.validator.Validate(in)
}

// Create validates the input, enforces the owner's plan limit and stores a new profile.
func (s *Service) Create(ctx context.Context, ownerID string, in *Input) (*models.Profile, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	plan, err := s.plans.ActivePlan(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}

	p := &models.Profile{ID: tool.GenerateUUIDV7(), OwnerID: ownerID}
	in.Apply(p)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if plan != nil && !plan.Unlimited() {
			var count int64
			if err := tx.Model(&models.Profile{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count profiles: %w", err)
			}
			if count >= int64(plan.MaxProfiles) {
				return ErrPlanLimitReached
			}
		}
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("profile created", "profile_id", p.ID, "owner_id", ownerID, "type", p.Type())
	return p, nil
}

// Get loads a profile by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// GetForActor loads a profile the actor is allowed to manage.
func (s *Service) GetForActor(ctx context.Context, actor types.Actor, id string) (*models.Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.OwnerID) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*models.Profile, error) {
	var items []*models.Profile
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return items, nil
}

func (s *Service) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// Update replaces the editable fields of a profile owned by the actor.
// Counters and ownership are left untouched.
func (s *Service) Update(ctx context.Context, actor types.Actor, id string, in *Input) (*models.Profile, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	p, err := s.GetForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	in.Apply(p)
	if err := s.db.WithContext(ctx).Omit("owner_id", "created_at", "views", "downloads", "qr_scans", "shares", "contact_saves").Save(p).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("profile updated", "profile_id", p.ID, "actor", actor.UserID)
	return p, nil
}

// Delete removes a profile along with its short URL and saved copies.
func (s *Service) Delete(ctx context.Context, actor types.Actor, id string) error {
	p, err := s.GetForActor(ctx, actor, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", p.ID).Delete(&models.ShortURL{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", p.ID).Delete(&models.SavedContact{}).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("profile deleted", "profile_id", p.ID, "actor", actor.UserID)
	return nil
}

var counterColumns = map[string]bool{
	"views":         true,
	"downloads":     true,
	"qr_scans":      true,
	"shares":        true,
	"contact_saves": true,
}

// IncrementCounter bumps a counter column atomically.
func (s *Service) IncrementCounter(ctx context.Context, id, column string) error {
	return IncrementCounter(s.db.WithContext(ctx), id, column)
}

// IncrementCounter runs on any handle so callers can use it inside their own transactions.
func IncrementCounter(db *gorm.DB, id, column string) error {
	if !counterColumns[column] {
		return fmt.Errorf("%w: %s", ErrUnknownCounter, column)
	}
	res := db.Model(&models.Profile{}).Where("id = ?", id).UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 && !db.DryRun {
		return ErrProfileNotFound
	}
	return nil
}
