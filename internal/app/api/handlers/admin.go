package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/app/service/subscription"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/response"
	"github.com/fatflowers/vcard/pkg/types"
)

// @Summary      Set a user's plan
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      subscription.UpsertRequest  true  "User and plan"
// @Success      200      {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscription [put]
func ApiAdminUpsertSubscription(subs SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscription.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		req.OperatorID = mustActor(c).UserID
		req.Reason = types.SubscriptionChangeReasonAdmin
		sub, err := subs.Upsert(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Saved contact statistics
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespContactStatistics
// @Router       /api/v1/admin/contacts/statistics [get]
func ApiAdminContactStatistics(contacts ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := contacts.Statistics(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(stats))
	}
}

// @Summary      Daily event statistics
// @Description  Computes the requested daily series over analytics events matching the filters.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      analytics.EventStatisticRequest  true  "Filters and series"
// @Success      200      {object}  handlers.RespEventStatistic
// @Router       /api/v1/admin/events/statistics [post]
func ApiAdminEventStatistics(stats AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analytics.EventStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := req.Validate(); err != nil {
			writeError(c, err)
			return
		}
		res, err := stats.GetDailyEventStatistic(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type IssueTokenRequest struct {
	UserID string     `json:"user_id" binding:"required"`
	Role   types.Role `json:"role" binding:"required"`
}

type IssueTokenResponse struct {
	Token string `json:"token"`
}

// @Summary      Issue a bearer token
// @Description  Signs a token for any user and role. Used to bootstrap accounts.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      handlers.IssueTokenRequest  true  "User and role"
// @Success      200      {object}  handlers.RespIssueToken
// @Router       /api/v1/admin/tokens [post]
func ApiAdminIssueToken(issuer TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IssueTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if !req.Role.Valid() {
			badRequest(c, "unknown role: "+string(req.Role))
			return
		}
		tok, err := issuer.Issue(req.UserID, req.Role)
		if err != nil {
			writeError(c, err)
			return
		}
		logctx.FromGin(c, nopLog).Infow("token issued", "user_id", req.UserID, "role", req.Role, "operator_id", mustActor(c).UserID)
		c.JSON(http.StatusOK, response.OKT(IssueTokenResponse{Token: tok}))
	}
}

// RegisterAdminRoutes expects r to already require an admin role.
func RegisterAdminRoutes(r gin.IRouter, issuer TokenIssuer, subs SubscriptionService, contacts ContactService, stats AnalyticsService) {
	g := r.Group("/admin")
	g.POST("/tokens", ApiAdminIssueToken(issuer))
	g.PUT("/subscription", ApiAdminUpsertSubscription(subs))
	g.GET("/contacts/statistics", ApiAdminContactStatistics(contacts))
	g.POST("/events/statistics", ApiAdminEventStatistics(stats))
}
