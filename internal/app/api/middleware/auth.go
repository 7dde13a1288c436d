package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"github.com/fatflowers/vcard/pkg/config"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/response"
	"github.com/fatflowers/vcard/pkg/tool"
	"github.com/fatflowers/vcard/pkg/types"
)

const ginActorKey = "actor"

var ErrInvalidToken = errors.New("invalid token")

// Claims is the bearer token payload.
type Claims struct {
	UserID string     `json:"user_id"`
	Role   types.Role `json:"role"`
	jwt.StandardClaims
}

// Authenticator issues and verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewAuthenticator(cfg *config.Config, log *zap.SugaredLogger) (*Authenticator, error) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if cfg.Env == config.EnvProd {
			return nil, errors.New("auth.jwt_secret is required in prod")
		}
		secret = tool.RandomCode(48)
		log.Warnw("auth.jwt_secret not set, tokens are signed with an ephemeral secret")
	}
	ttl := time.Duration(cfg.Auth.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Authenticator{secret: []byte(secret), issuer: cfg.Auth.Issuer, ttl: ttl, log: log, now: time.Now}, nil
}

// Issue signs a token for userID with the given role.
func (a *Authenticator) Issue(userID string, role types.Role) (string, error) {
	now := a.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			Issuer:    a.issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse verifies signature, expiry and issuer.
func (a *Authenticator) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if a.issuer != "" && !claims.VerifyIssuer(a.issuer, true) {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	if claims.Role == "" {
		claims.Role = types.RoleEndUser
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (a *Authenticator) attach(c *gin.Context, claims *Claims) {
	actor := types.Actor{UserID: claims.UserID, Role: claims.Role}
	c.Set(ginActorKey, actor)

	ctx := logctx.WithUserID(c.Request.Context(), actor.UserID)
	if l, ok := c.Get(logctx.GinLoggerKey); ok {
		if log, ok := l.(*zap.SugaredLogger); ok && log != nil {
			log = log.With("user_id", actor.UserID)
			c.Set(logctx.GinLoggerKey, log)
			ctx = logctx.WithLogger(ctx, log)
		}
	}
	c.Request = c.Request.WithContext(ctx)
}

// Optional attaches the actor when a valid token is present and never rejects.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := a.Parse(token); err == nil {
				a.attach(c, claims)
			}
		}
		c.Next()
	}
}

// Required rejects requests without a valid bearer token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}
		claims, err := a.Parse(token)
		if err != nil {
			logctx.FromGin(c, a.log).Infow("reject token", "err", err)
			c.AbortWithStatusJSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeUnauthorized, "security check failed"))
			return
		}
		a.attach(c, claims)
		c.Next()
	}
}

// RequireRole must run after Required.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeForbidden, "insufficient role"))
	}
}

// ActorFrom returns the authenticated caller, if any.
func ActorFrom(c *gin.Context) (types.Actor, bool) {
	v, ok := c.Get(ginActorKey)
	if !ok {
		return types.Actor{}, false
	}
	actor, ok := v.(types.Actor)
	return actor, ok
}
