package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/vcard/pkg/response"
)

// @Summary      Current subscription
// @Description  Plan, status and profile usage of the caller.
// @Tags         Subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespSubscriptionInfo
// @Router       /api/v1/subscription [get]
func ApiGetSubscription(subs SubscriptionService, profiles ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := mustActor(c).UserID
		n, err := profiles.CountByOwner(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		info, err := subs.Info(c.Request.Context(), userID, n)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

// @Summary      Cancel subscription
// @Description  Stops auto renewal. The plan stays usable until it expires.
// @Tags         Subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/subscription/cancel [post]
func ApiCancelSubscription(subs SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := mustActor(c).UserID
		if err := subs.Cancel(c.Request.Context(), userID, userID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterSubscriptionRoutes(private gin.IRouter, subs SubscriptionService, profiles ProfileService) {
	private.GET("/subscription", ApiGetSubscription(subs, profiles))
	private.POST("/subscription/cancel", ApiCancelSubscription(subs))
}
