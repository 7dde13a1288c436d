package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/response"
)

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DBPinger adapts a gorm handle to Pinger.
type DBPinger struct{ DB *gorm.DB }

func (p DBPinger) PingContext(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// @Summary      Health check
// @Description  Returns service status and database reachability
// @Tags         System
// @Produce      json
// @Success      200  {object}  handlers.RespHealth
// @Router       /healthz [get]
func Healthz(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logctx.FromGin(c, nopLog).Warnw("database ping failed", "err", err)
			c.JSON(http.StatusOK, response.ErrorT(response.APIResponseCodeError, map[string]string{"status": "degraded", "database": "unreachable"}))
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]string{"status": "ok", "database": "ok"}))
	}
}

func RegisterHealthRoutes(r gin.IRouter, db Pinger) {
	r.GET("/healthz", Healthz(db))
}
