package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	mw "github.com/fatflowers/vcard/internal/app/api/middleware"
	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/app/service/contact"
	"github.com/fatflowers/vcard/internal/app/service/profile"
	"github.com/fatflowers/vcard/internal/app/service/sharing"
	"github.com/fatflowers/vcard/internal/app/service/subscription"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/internal/render"
	"github.com/fatflowers/vcard/internal/vcard"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/response"
	"github.com/fatflowers/vcard/pkg/types"
)

type ProfileService interface {
	Validate(in *profile.Input) error
	Create(ctx context.Context, ownerID string, in *profile.Input) (*models.Profile, error)
	Get(ctx context.Context, id string) (*models.Profile, error)
	GetForActor(ctx context.Context, actor types.Actor, id string) (*models.Profile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Profile, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Update(ctx context.Context, actor types.Actor, id string, in *profile.Input) (*models.Profile, error)
	Delete(ctx context.Context, actor types.Actor, id string) error
}

type EventTracker interface {
	Track(ctx context.Context, ev *analytics.Event) error
	TrackAsync(ctx context.Context, ev *analytics.Event)
}

type AnalyticsService interface {
	EventTracker
	ProfileSummary(ctx context.Context, p *models.Profile) (*analytics.Summary, error)
	GetDailyEventStatistic(ctx context.Context, req *analytics.EventStatisticRequest) (*analytics.EventStatisticResponse, error)
}

type ContactService interface {
	Save(ctx context.Context, userID, profileID string, data map[string]any, visitor analytics.Visitor) (bool, error)
	List(ctx context.Context, userID string) ([]*contact.SavedContact, error)
	Remove(ctx context.Context, userID, profileID string) (bool, error)
	Sync(ctx context.Context, userID string, local map[string]map[string]any) (int, error)
	Count(ctx context.Context, userID string) (int64, error)
	Statistics(ctx context.Context) (*contact.Statistics, error)
}

type SharingService interface {
	ProfileURL(p *models.Profile) string
	GenerateQR(ctx context.Context, p *models.Profile, opts sharing.QROptions, visitor analytics.Visitor) (*sharing.QRCode, error)
	TrackShare(ctx context.Context, p *models.Profile, platform string, data map[string]any, visitor analytics.Visitor) error
	EnsureShortURL(ctx context.Context, p *models.Profile) (*models.ShortURL, string, error)
	ResolveShortURL(ctx context.Context, code string, visitor analytics.Visitor) (string, error)
}

type SubscriptionService interface {
	Info(ctx context.Context, userID string, profiles int64) (*types.UserSubscriptionInfo, error)
	Upsert(ctx context.Context, req *subscription.UpsertRequest) (*models.Subscription, error)
	Cancel(ctx context.Context, userID, operatorID string) error
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(userID string, role types.Role) (string, error)
}

type Renderer interface {
	Render(templateKey, schemeKey string, src render.Source) string
}

type Exporter interface {
	Export(src vcard.Source, format vcard.Format) (*vcard.Export, error)
}

var nopLog = zap.NewNop().Sugar()

// validate checks query option structs tagged with `validate`.
var validate = validator.New(validator.WithRequiredStructEnabled())

const sessionHeader = "X-Session-ID"

// visitorFrom collects analytics attribution from the request.
func visitorFrom(c *gin.Context) analytics.Visitor {
	v := analytics.Visitor{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
		SessionID: c.GetHeader(sessionHeader),
	}
	if actor, ok := mw.ActorFrom(c); ok {
		v.UserID = actor.UserID
	}
	return v
}

// mustActor returns the authenticated caller; routes using it sit behind auth.Required.
func mustActor(c *gin.Context) types.Actor {
	actor, _ := mw.ActorFrom(c)
	return actor
}

func badRequest(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, data))
}

// writeError maps service errors onto response codes.
func writeError(c *gin.Context, err error) {
	var verr *profile.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, verr.Fields))
	case errors.Is(err, profile.ErrProfileNotFound), errors.Is(err, sharing.ErrShortURLNotFound):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
	case errors.Is(err, profile.ErrForbidden):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeForbidden, err.Error()))
	case errors.Is(err, profile.ErrPlanLimitReached),
		errors.Is(err, contact.ErrInvalidContactData),
		errors.Is(err, sharing.ErrInvalidPlatform),
		errors.Is(err, analytics.ErrInvalidFilter),
		errors.Is(err, analytics.ErrInvalidEventType),
		errors.Is(err, subscription.ErrPlanNotFound),
		errors.Is(err, vcard.ErrUnsupportedFormat):
		badRequest(c, err.Error())
	default:
		logctx.FromGin(c, nopLog).Errorw("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}
