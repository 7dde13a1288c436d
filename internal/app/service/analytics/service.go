package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fatflowers/vcard/internal/app/service/profile"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/metrics"
	"github.com/fatflowers/vcard/pkg/tool"
	"github.com/fatflowers/vcard/pkg/types"
)

var ErrInvalidEventType = errors.New("invalid event type")

// Visitor identifies who triggered an event. All fields are optional.
type Visitor struct {
	IP        string
	UserAgent string
	Referrer  string
	SessionID string
	UserID    string
}

type Event struct {
	ProfileID string
	Type      types.EventType
	// Platform names the share target for share events.
	Platform string
	Data     map[string]any
	Visitor  Visitor
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Track appends an event and bumps the matching profile counter in one transaction.
// Events for unknown profiles fail with profile.ErrProfileNotFound.
func (s *Service) Track(ctx context.Context, ev *Event) error {
	if !ev.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEventType, ev.Type)
	}
	record := &models.AnalyticsEvent{
		ID:        tool.GenerateUUIDV7(),
		ProfileID: ev.ProfileID,
		EventType: ev.Type,
		EventData: datatypes.JSONMap(ev.Data),
		Platform:  ev.Platform,
		VisitorIP: ev.Visitor.IP,
		UserAgent: truncate(ev.Visitor.UserAgent, 512),
		Referrer:  truncate(ev.Visitor.Referrer, 512),
		SessionID: ev.Visitor.SessionID,
		UserID:    ev.Visitor.UserID,
	}
	if record.EventData == nil {
		record.EventData = datatypes.JSONMap{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if col := ev.Type.Counter(); col != "" {
			if err := profile.IncrementCounter(tx, ev.ProfileID, col); err != nil {
				return err
			}
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return fmt.Errorf("failed to track %s event: %w", ev.Type, err)
	}
	metrics.IncEvent(string(ev.Type))
	logctx.FromCtx(ctx, s.log).Debugw("event tracked", "profile_id", ev.ProfileID, "type", ev.Type)
	return nil
}

// TrackAsync records the event in the background; failures are only logged.
// Used on public read paths where tracking must not delay the response.
func (s *Service) TrackAsync(ctx context.Context, ev *Event) {
	log := logctx.FromCtx(ctx, s.log)
	go func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Track(tctx, ev); err != nil {
			log.Warnw("track event failed", "profile_id", ev.ProfileID, "type", ev.Type, "err", err)
		}
	}()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Summary is the per-profile analytics view shown to the owner.
type Summary struct {
	ProfileID        string                   `json:"profile_id"`
	Views            int64                    `json:"views"`
	Downloads        int64                    `json:"downloads"`
	QRScans          int64                    `json:"qr_scans"`
	Shares           int64                    `json:"shares"`
	ContactSaves     int64                    `json:"contact_saves"`
	ShortURLClicks   int64                    `json:"short_url_clicks"`
	SharesByPlatform map[string]int64         `json:"shares_by_platform"`
	RecentEvents     []*models.AnalyticsEvent `json:"recent_events"`
}

const recentEventsLimit = 20

func (s *Service) ProfileSummary(ctx context.Context, p *models.Profile) (*Summary, error) {
	db := s.db.WithContext(ctx)
	sum := &Summary{
		ProfileID:        p.ID,
		Views:            p.Views,
		Downloads:        p.Downloads,
		QRScans:          p.QRScans,
		Shares:           p.Shares,
		ContactSaves:     p.ContactSaves,
		SharesByPlatform: map[string]int64{},
	}

	var short models.ShortURL
	if err := db.Where("profile_id = ?", p.ID).Limit(1).Find(&short).Error; err != nil {
		return nil, fmt.Errorf("failed to get short url: %w", err)
	}
	sum.ShortURLClicks = short.Clicks

	var rows []EventStatisticResponseDataItem
	err := db.Model(&models.AnalyticsEvent{}).
		Select("platform AS label, COUNT(*) AS value").
		Where("profile_id = ? AND event_type = ?", p.ID, types.EventTypeShare).
		Group("platform").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count shares: %w", err)
	}
	for _, r := range rows {
		label := r.Label
		if label == "" {
			label = "other"
		}
		sum.SharesByPlatform[label] += r.Value
	}

	if err := db.Where("profile_id = ?", p.ID).Order("created_at DESC").Limit(recentEventsLimit).Find(&sum.RecentEvents).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	return sum, nil
}
