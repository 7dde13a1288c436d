package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/vcard/docs"
	"github.com/fatflowers/vcard/internal/app/api/handlers"
	mw "github.com/fatflowers/vcard/internal/app/api/middleware"
	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/app/service/contact"
	"github.com/fatflowers/vcard/internal/app/service/profile"
	"github.com/fatflowers/vcard/internal/app/service/sharing"
	subsvc "github.com/fatflowers/vcard/internal/app/service/subscription"
	"github.com/fatflowers/vcard/internal/render"
	"github.com/fatflowers/vcard/internal/vcard"
	cfgpkg "github.com/fatflowers/vcard/pkg/config"
	"github.com/fatflowers/vcard/pkg/metrics"
	"github.com/fatflowers/vcard/pkg/types"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func newRenderer(cfg *cfgpkg.Config, log *zap.SugaredLogger) *render.Engine {
	return render.NewEngine(cfg.Templates.Dir, log)
}

func newEncoder(cfg *cfgpkg.Config) *vcard.Encoder {
	return vcard.NewEncoder(vcard.Options{
		Version:   cfg.Export.VCardVersion,
		SiteHost:  cfg.SiteHost(),
		FoldLines: cfg.Export.FoldLines,
	})
}

type routeParams struct {
	fx.In

	Engine        *gin.Engine
	Log           *zap.SugaredLogger
	Config        *cfgpkg.Config
	DB            *gorm.DB
	Auth          *mw.Authenticator
	Profiles      *profile.Service
	Analytics     *analytics.Service
	Contacts      *contact.Service
	Sharing       *sharing.Service
	Subscriptions *subsvc.Service
	Renderer      *render.Engine
	Encoder       *vcard.Encoder
	Lifecycle     fx.Lifecycle
}

func registerRoutes(p routeParams) {
	r, log, cfg := p.Engine, p.Log, p.Config

	if cfg.MetricsAddr != "" {
		prom := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			Subsystem:   "vcard",
			MetricsList: metrics.DomainMetrics,
			Logger:      log,
			Registry:    prometheus.NewRegistry(),
		})
		r.Use(prom.HandlerFunc())
		runMetricsServer(p.Lifecycle, log, cfg.MetricsAddr, prom.Handler())
	}

	// Public pages and system endpoints
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), p.Auth.Optional())
	handlers.RegisterHealthRoutes(pub, handlers.DBPinger{DB: p.DB})
	handlers.RegisterPublicRoutes(pub, p.Profiles, p.Renderer, p.Sharing, p.Analytics)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API: the same prefix is served with optional and with required auth
	public := r.Group("/api/v1")
	public.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), p.Auth.Optional())
	private := r.Group("/api/v1")
	private.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), p.Auth.Required())

	handlers.RegisterProfileRoutes(public, private, p.Profiles)
	handlers.RegisterExportRoutes(public, private, p.Profiles, p.Encoder, p.Analytics)
	handlers.RegisterSharingRoutes(public, private, p.Profiles, p.Sharing)
	handlers.RegisterTemplateRoutes(public, p.Renderer)
	handlers.RegisterAnalyticsRoutes(private, p.Profiles, p.Analytics)
	handlers.RegisterContactRoutes(private, p.Contacts)
	handlers.RegisterSubscriptionRoutes(private, p.Subscriptions, p.Profiles)

	// Admin APIs
	admin := private.Group("", mw.RequireRole(types.RoleAdmin))
	handlers.RegisterAdminRoutes(admin, p.Auth, p.Subscriptions, p.Contacts, p.Analytics)
}

func runMetricsServer(lc fx.Lifecycle, log *zap.SugaredLogger, addr string, h http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("metrics started", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("metrics server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr, "site", cfg.Site.BaseURL)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Provide(mw.NewAuthenticator),
	fx.Provide(newRenderer),
	fx.Provide(newEncoder),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
