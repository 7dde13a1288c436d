package sharing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/config"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/tool"
	"github.com/fatflowers/vcard/pkg/types"
)

var (
	ErrShortURLNotFound = errors.New("short url not found")
	ErrInvalidPlatform  = errors.New("invalid share platform")
	ErrNoShortCode      = errors.New("could not allocate a short code")
)

const (
	maxSlugLen       = 20
	randomCodeLen    = 8
	randomCodeTries  = 5
	idSuffixLen      = 8
	shortURLPrefix   = "vc/"
	profileURLPrefix = "p/"
)

type Tracker interface {
	Track(ctx context.Context, ev *analytics.Event) error
}

type Service struct {
	cfg     *config.Config
	db      *gorm.DB
	log     *zap.SugaredLogger
	tracker Tracker
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, tracker *analytics.Service) *Service {
	return &Service{cfg: cfg, db: db, log: log, tracker: tracker}
}

// ProfileURL is the public page of a profile.
func (s *Service) ProfileURL(p *models.Profile) string {
	return s.cfg.URL(profileURLPrefix + p.ID)
}

func (s *Service) ShortURL(code string) string {
	return s.cfg.URL(shortURLPrefix + code)
}

type QRCode struct {
	URL        string    `json:"url"`
	ProfileURL string    `json:"profile_url"`
	Options    QROptions `json:"options"`
}

// GenerateQR builds the QR image URL for the profile page and counts a qr_scan.
func (s *Service) GenerateQR(ctx context.Context, p *models.Profile, opts QROptions, visitor analytics.Visitor) (*QRCode, error) {
	opts = opts.withDefaults(s.cfg.Sharing.QRSize)
	target := s.ProfileURL(p)
	qr := &QRCode{URL: QRCodeURL(s.cfg.Sharing.QRBaseURL, target, opts), ProfileURL: target, Options: opts}
	err := s.tracker.Track(ctx, &analytics.Event{
		ProfileID: p.ID,
		Type:      types.EventTypeQRScan,
		Data:      map[string]any{"size": opts.Size},
		Visitor:   visitor,
	})
	if err != nil {
		return nil, err
	}
	return qr, nil
}

// TrackShare records a share on one of SharePlatforms.
func (s *Service) TrackShare(ctx context.Context, p *models.Profile, platform string, data map[string]any, visitor analytics.Visitor) error {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if !lo.Contains(SharePlatforms, platform) {
		return fmt.Errorf("%w: %q", ErrInvalidPlatform, platform)
	}
	return s.tracker.Track(ctx, &analytics.Event{
		ProfileID: p.ID,
		Type:      types.EventTypeShare,
		Platform:  platform,
		Data:      data,
		Visitor:   visitor,
	})
}

var reNonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and joins its alphanumeric runs with '-', cut to maxSlugLen.
func Slug(s string) string {
	slug := strings.Trim(reNonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// codeCandidates lists short codes to try in order, before random ones.
func codeCandidates(p *models.Profile) []string {
	var base string
	if p.IsBusiness() {
		base = p.Field("business_name")
	} else {
		base = strings.TrimSpace(p.Field("first_name") + "-" + p.Field("last_name"))
	}
	slug := Slug(base)
	if slug == "" {
		return nil
	}
	return []string{slug, slug + "-" + idSuffix(p.ID)}
}

// idSuffix is the tail of the profile ID without dashes. UUIDv7 IDs start with
// a timestamp, so the tail is the part that differs between close profiles.
func idSuffix(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > idSuffixLen {
		id = id[len(id)-idSuffixLen:]
	}
	return id
}

// EnsureShortURL returns the profile's short URL, allocating a code on first use.
func (s *Service) EnsureShortURL(ctx context.Context, p *models.Profile) (*models.ShortURL, string, error) {
	db := s.db.WithContext(ctx)

	var existing models.ShortURL
	res := db.Where("profile_id = ?", p.ID).Limit(1).Find(&existing)
	if res.Error != nil {
		return nil, "", fmt.Errorf("failed to get short url: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return &existing, s.ShortURL(existing.Code), nil
	}

	candidates := codeCandidates(p)
	for i := 0; i < randomCodeTries; i++ {
		candidates = append(candidates, tool.RandomCode(randomCodeLen))
	}
	for _, code := range candidates {
		row := &models.ShortURL{Code: code, ProfileID: p.ID}
		ins := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if ins.Error != nil {
			return nil, "", fmt.Errorf("failed to store short url: %w", ins.Error)
		}
		if ins.RowsAffected == 1 {
			logctx.FromCtx(ctx, s.log).Infow("short url created", "profile_id", p.ID, "code", code)
			return row, s.ShortURL(code), nil
		}
		// either the code is taken or a concurrent request already created one for this profile
		var again models.ShortURL
		if err := db.Where("profile_id = ?", p.ID).Limit(1).Find(&again).Error; err == nil && again.Code != "" {
			return &again, s.ShortURL(again.Code), nil
		}
	}
	return nil, "", ErrNoShortCode
}

// ResolveShortURL maps a code to its profile URL and counts the click.
func (s *Service) ResolveShortURL(ctx context.Context, code string, visitor analytics.Visitor) (string, error) {
	db := s.db.WithContext(ctx)
	var row models.ShortURL
	if err := db.Where("code = ?", code).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrShortURLNotFound
		}
		return "", fmt.Errorf("failed to resolve short url: %w", err)
	}
	if err := db.Model(&models.ShortURL{}).Where("code = ?", code).UpdateColumn("clicks", gorm.Expr("clicks + ?", 1)).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("count short url click failed", "code", code, "err", err)
	}
	err := s.tracker.Track(ctx, &analytics.Event{
		ProfileID: row.ProfileID,
		Type:      types.EventTypeShortURLClick,
		Data:      map[string]any{"code": code},
		Visitor:   visitor,
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("track short url click failed", "code", code, "err", err)
	}
	return s.cfg.URL(profileURLPrefix + row.ProfileID), nil
}
