package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/vcard/pkg/response"
)

// @Summary      Profile analytics
// @Description  Counters, short URL clicks, shares per platform and recent events. Owner or admin only.
// @Tags         Analytics
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  handlers.RespAnalyticsSummary
// @Router       /api/v1/profiles/{id}/analytics [get]
func ApiProfileAnalytics(profiles ProfileService, stats AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := profiles.GetForActor(c.Request.Context(), mustActor(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		sum, err := stats.ProfileSummary(c.Request.Context(), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sum))
	}
}

func RegisterAnalyticsRoutes(private gin.IRouter, profiles ProfileService, stats AnalyticsService) {
	private.GET("/profiles/:id/analytics", ApiProfileAnalytics(profiles, stats))
}
