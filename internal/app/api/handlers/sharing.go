package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/vcard/internal/app/service/sharing"
	"github.com/fatflowers/vcard/pkg/response"
)

// @Summary      Profile QR code
// @Description  Returns a QR image URL for the public profile page and counts a QR scan.
// @Tags         Sharing
// @Produce      json
// @Param        id                path   string  true   "Profile ID"
// @Param        size              query  int     false  "Pixel size, 100-1000"
// @Param        error_correction  query  string  false  "L, M, Q or H"
// @Param        margin            query  int     false  "Quiet zone"
// @Param        foreground_color  query  string  false  "rrggbb"
// @Param        background_color  query  string  false  "rrggbb"
// @Success      200  {object}  handlers.RespQRCode
// @Router       /api/v1/profiles/{id}/qr [get]
func ApiProfileQRCode(profiles ProfileService, share SharingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var opts sharing.QROptions
		if err := c.ShouldBindQuery(&opts); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := validate.Struct(&opts); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := profiles.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		qr, err := share.GenerateQR(c.Request.Context(), p, opts, visitorFrom(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(qr))
	}
}

type ShareInfo struct {
	URL         string              `json:"url"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Links       []sharing.ShareLink `json:"links"`
}

// @Summary      Share links
// @Tags         Sharing
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  handlers.RespShareInfo
// @Router       /api/v1/profiles/{id}/share [get]
func ApiShareLinks(profiles ProfileService, share SharingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := profiles.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		u := share.ProfileURL(p)
		c.JSON(http.StatusOK, response.OKT(&ShareInfo{
			URL:         u,
			Title:       sharing.ShareTitle(p),
			Description: sharing.ShareDescription(p),
			Links:       sharing.ShareLinks(p, u),
		}))
	}
}

type TrackShareRequest struct {
	Platform string         `json:"platform" binding:"required"`
	Data     map[string]any `json:"data"`
}

// @Summary      Track share
// @Tags         Sharing
// @Accept       json
// @Produce      json
// @Param        id       path  string             true  "Profile ID"
// @Param        request  body  TrackShareRequest  true  "Platform shared to"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/profiles/{id}/share [post]
func ApiTrackShare(profiles ProfileService, share SharingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TrackShareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := profiles.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if err := share.TrackShare(c.Request.Context(), p, req.Platform, req.Data, visitorFrom(c)); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type ShortURLResponse struct {
	Code   string `json:"code"`
	URL    string `json:"url"`
	Clicks int64  `json:"clicks"`
}

// @Summary      Get or create short URL
// @Tags         Sharing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  handlers.RespShortURL
// @Router       /api/v1/profiles/{id}/short-url [post]
func ApiCreateShortURL(profiles ProfileService, share SharingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := profiles.GetForActor(c.Request.Context(), mustActor(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		row, u, err := share.EnsureShortURL(c.Request.Context(), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ShortURLResponse{Code: row.Code, URL: u, Clicks: row.Clicks}))
	}
}

// @Summary      Embed code
// @Tags         Sharing
// @Produce      json
// @Param        id      path   string  true   "Profile ID"
// @Param        width   query  int     false  "iframe width"
// @Param        height  query  int     false  "iframe height"
// @Param        theme   query  string  false  "light or dark"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/profiles/{id}/embed [get]
func ApiEmbedCode(profiles ProfileService, share SharingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var opts sharing.EmbedOptions
		if err := c.ShouldBindQuery(&opts); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := profiles.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(gin.H{"code": sharing.EmbedCode(p, share.ProfileURL(p), opts)}))
	}
}

// @Summary      NFC payload
// @Tags         Sharing
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/profiles/{id}/nfc [get]
func ApiNFCData(profiles ProfileService, share SharingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := profiles.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sharing.NFCData(share.ProfileURL(p))))
	}
}

func RegisterSharingRoutes(public, private gin.IRouter, profiles ProfileService, share SharingService) {
	public.GET("/profiles/:id/qr", ApiProfileQRCode(profiles, share))
	public.GET("/profiles/:id/share", ApiShareLinks(profiles, share))
	public.POST("/profiles/:id/share", ApiTrackShare(profiles, share))
	public.GET("/profiles/:id/embed", ApiEmbedCode(profiles, share))
	public.GET("/profiles/:id/nfc", ApiNFCData(profiles, share))
	private.POST("/profiles/:id/short-url", ApiCreateShortURL(profiles, share))
}
