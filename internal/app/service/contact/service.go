package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/app/service/profile"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/tool"
	"github.com/fatflowers/vcard/pkg/types"
)

var ErrInvalidContactData = errors.New("invalid contact data")

// Tracker records analytics events.
type Tracker interface {
	Track(ctx context.Context, ev *analytics.Event) error
}

type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	tracker Tracker
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, tracker *analytics.Service) *Service {
	return &Service{db: db, log: log, tracker: tracker}
}

// SavedContact is a saved profile as returned to its user.
type SavedContact struct {
	ProfileID   string         `json:"profile_id"`
	ContactData map[string]any `json:"contact_data"`
	SavedAt     time.Time      `json:"saved_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// contactJSON encodes client supplied data, or the profile snapshot when none is given.
func contactJSON(data map[string]any, p *models.Profile) (datatypes.JSON, error) {
	if len(data) == 0 {
		snap := p.ContactSnapshot()
		if len(snap) == 0 {
			return nil, fmt.Errorf("%w: profile %s has no contact fields", ErrInvalidContactData, p.ID)
		}
		b, err := json.Marshal(snap)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(b), nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContactData, err)
	}
	return datatypes.JSON(b), nil
}

// Save stores or refreshes the user's copy of a profile. created is true when
// the profile was not saved before; only then is a contact_save event tracked.
func (s *Service) Save(ctx context.Context, userID, profileID string, data map[string]any, visitor analytics.Visitor) (created bool, err error) {
	db := s.db.WithContext(ctx)

	var p models.Profile
	if err := db.Where("id = ?", profileID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, profile.ErrProfileNotFound
		}
		return false, fmt.Errorf("failed to get profile: %w", err)
	}
	payload, err := contactJSON(data, &p)
	if err != nil {
		return false, err
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.SavedContact
		res := tx.Where("user_id = ? AND profile_id = ?", userID, profileID).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Model(&existing).Updates(map[string]any{"contact_data": payload, "updated_at": now}).Error
		}
		created = true
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "profile_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"contact_data", "updated_at"}),
		}).Create(&models.SavedContact{
			ID:          tool.GenerateUUIDV7(),
			UserID:      userID,
			ProfileID:   profileID,
			ContactData: payload,
			SavedAt:     now,
			UpdatedAt:   now,
		}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to save contact: %w", err)
	}

	if created {
		visitor.UserID = userID
		if err := s.tracker.Track(ctx, &analytics.Event{ProfileID: profileID, Type: types.EventTypeContactSave, Visitor: visitor}); err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("track contact save failed", "profile_id", profileID, "err", err)
		}
	}
	return created, nil
}

// List returns the user's saved contacts, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]*SavedContact, error) {
	var rows []*models.SavedContact
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list saved contacts: %w", err)
	}
	return lo.Map(rows, func(r *models.SavedContact, _ int) *SavedContact { return toView(r) }), nil
}

func toView(r *models.SavedContact) *SavedContact {
	v := &SavedContact{ProfileID: r.ProfileID, SavedAt: r.SavedAt, UpdatedAt: r.UpdatedAt}
	if len(r.ContactData) > 0 {
		// rows written by older clients may hold non-object JSON; show them empty
		_ = json.Unmarshal(r.ContactData, &v.ContactData)
	}
	if v.ContactData == nil {
		v.ContactData = map[string]any{}
	}
	return v
}

// Remove deletes the user's copy of a profile and reports whether one existed.
func (s *Service) Remove(ctx context.Context, userID, profileID string) (bool, error) {
	res := s.db.WithContext(ctx).Where("user_id = ? AND profile_id = ?", userID, profileID).Delete(&models.SavedContact{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove saved contact: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Sync imports contacts saved on a device. Only profiles that exist and are not
// yet saved by the user are inserted; the number inserted is returned.
func (s *Service) Sync(ctx context.Context, userID string, local map[string]map[string]any) (int, error) {
	if len(local) == 0 {
		return 0, nil
	}
	db := s.db.WithContext(ctx)
	ids := lo.Keys(local)

	var profiles []*models.Profile
	if err := db.Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return 0, fmt.Errorf("failed to load profiles: %w", err)
	}
	var saved []string
	if err := db.Model(&models.SavedContact{}).Where("user_id = ? AND profile_id IN ?", userID, ids).Pluck("profile_id", &saved).Error; err != nil {
		return 0, fmt.Errorf("failed to load saved contacts: %w", err)
	}

	now := time.Now()
	var rows []*models.SavedContact
	for _, p := range profiles {
		if lo.Contains(saved, p.ID) {
			continue
		}
		payload, err := contactJSON(local[p.ID], p)
		if err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("skip contact in sync", "profile_id", p.ID, "err", err)
			continue
		}
		rows = append(rows, &models.SavedContact{
			ID:          tool.GenerateUUIDV7(),
			UserID:      userID,
			ProfileID:   p.ID,
			ContactData: payload,
			SavedAt:     now,
			UpdatedAt:   now,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to sync contacts: %w", res.Error)
	}
	logctx.FromCtx(ctx, s.log).Infow("contacts synced", "user_id", userID, "count", res.RowsAffected)
	return int(res.RowsAffected), nil
}

func (s *Service) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.SavedContact{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count saved contacts: %w", err)
	}
	return n, nil
}

type SavedProfile struct {
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	SaveCount int64  `json:"save_count"`
}

type Statistics struct {
	TotalContacts      int64           `json:"total_contacts"`
	TotalUsers         int64           `json:"total_users"`
	AvgContactsPerUser float64         `json:"avg_contacts_per_user"`
	MostSavedProfiles  []*SavedProfile `json:"most_saved_profiles"`
}

const mostSavedLimit = 10

// Statistics summarizes saved contacts across all users.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	db := s.db.WithContext(ctx)
	stats := &Statistics{MostSavedProfiles: []*SavedProfile{}}

	if err := db.Model(&models.SavedContact{}).Count(&stats.TotalContacts).Error; err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	if err := db.Model(&models.SavedContact{}).Distinct("user_id").Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	stats.AvgContactsPerUser = averagePerUser(stats.TotalContacts, stats.TotalUsers)

	var top []*SavedProfile
	err := db.Model(&models.SavedContact{}).
		Select("profile_id, COUNT(*) AS save_count").
		Group("profile_id").
		Order("save_count DESC").
		Limit(mostSavedLimit).
		Find(&top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank profiles: %w", err)
	}
	if len(top) == 0 {
		return stats, nil
	}

	var profiles []*models.Profile
	ids := lo.Map(top, func(t *SavedProfile, _ int) string { return t.ProfileID })
	if err := db.Select("id", "business_name", "first_name", "last_name").Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile names: %w", err)
	}
	names := lo.SliceToMap(profiles, func(p *models.Profile) (string, string) { return p.ID, p.DisplayName() })
	for _, t := range top {
		t.Name = names[t.ProfileID]
	}
	stats.MostSavedProfiles = top
	return stats, nil
}

func averagePerUser(total, users int64) float64 {
	if users == 0 {
		return 0
	}
	return math.Round(float64(total)/float64(users)*100) / 100
}
