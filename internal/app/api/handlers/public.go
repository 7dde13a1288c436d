package handlers

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/app/service/profile"
	"github.com/fatflowers/vcard/internal/app/service/sharing"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/metrics"
	"github.com/fatflowers/vcard/pkg/types"
)

const htmlContentType = "text/html; charset=utf-8"

// pageHTML wraps a rendered card in a standalone document with share metadata.
func pageHTML(p *models.Profile, body, pageURL string) string {
	title := html.EscapeString(sharing.ShareTitle(p))
	desc := html.EscapeString(sharing.ShareDescription(p))
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	fmt.Fprintf(&b, `<meta name="description" content="%s">`+"\n", desc)
	fmt.Fprintf(&b, `<meta property="og:title" content="%s">`+"\n", title)
	fmt.Fprintf(&b, `<meta property="og:description" content="%s">`+"\n", desc)
	fmt.Fprintf(&b, `<meta property="og:url" content="%s">`+"\n", html.EscapeString(pageURL))
	ogType := "profile"
	if p.IsBusiness() {
		ogType = "business.business"
	}
	fmt.Fprintf(&b, `<meta property="og:type" content="%s">`+"\n", ogType)
	if img := p.Field("business_logo"); img != "" {
		fmt.Fprintf(&b, `<meta property="og:image" content="%s">`+"\n", html.EscapeString(img))
	} else if img := p.Field("featured_image"); img != "" {
		fmt.Fprintf(&b, `<meta property="og:image" content="%s">`+"\n", html.EscapeString(img))
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

const notFoundPage = "<!DOCTYPE html>\n<html><head><title>Not found</title></head><body><h1>Profile not found</h1></body></html>\n"

// @Summary      Public profile page
// @Description  Renders the profile with its template and color scheme. Query parameters template and color_scheme override the saved choice. Counts a view.
// @Tags         Public
// @Produce      html
// @Param        id            path   string  true   "Profile ID"
// @Param        template      query  string  false  "Template key"
// @Param        color_scheme  query  string  false  "Color scheme key"
// @Success      200  {string}  string
// @Router       /p/{id} [get]
func ApiRenderProfilePage(profiles ProfileService, renderer Renderer, share SharingService, tracker EventTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := profiles.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, profile.ErrProfileNotFound) {
				c.Data(http.StatusNotFound, htmlContentType, []byte(notFoundPage))
				return
			}
			logctx.FromGin(c, nopLog).Errorw("load profile page failed", "id", c.Param("id"), "err", err)
			c.Data(http.StatusInternalServerError, htmlContentType, []byte("<h1>Something went wrong</h1>"))
			return
		}

		templateKey := c.DefaultQuery("template", p.TemplateName)
		schemeKey := c.DefaultQuery("color_scheme", p.ColorScheme)
		body := renderer.Render(templateKey, schemeKey, p)
		if strings.HasPrefix(body, `<div class="vcard-fallback">`) {
			metrics.IncRenderFallback(templateKey)
		}

		tracker.TrackAsync(c.Request.Context(), &analytics.Event{ProfileID: p.ID, Type: types.EventTypeView, Visitor: visitorFrom(c)})
		c.Data(http.StatusOK, htmlContentType, []byte(pageHTML(p, body, share.ProfileURL(p))))
	}
}

// @Summary      Short URL redirect
// @Tags         Public
// @Param        code  path  string  true  "Short code"
// @Success      302
// @Router       /vc/{code} [get]
func ApiShortURLRedirect(share SharingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, err := share.ResolveShortURL(c.Request.Context(), c.Param("code"), visitorFrom(c))
		if err != nil {
			if errors.Is(err, sharing.ErrShortURLNotFound) {
				c.Data(http.StatusNotFound, htmlContentType, []byte(notFoundPage))
				return
			}
			logctx.FromGin(c, nopLog).Errorw("resolve short url failed", "code", c.Param("code"), "err", err)
			c.Data(http.StatusInternalServerError, htmlContentType, []byte("<h1>Something went wrong</h1>"))
			return
		}
		c.Redirect(http.StatusFound, target)
	}
}

func RegisterPublicRoutes(r gin.IRouter, profiles ProfileService, renderer Renderer, share SharingService, tracker EventTracker) {
	r.GET("/p/:id", ApiRenderProfilePage(profiles, renderer, share, tracker))
	r.GET("/vc/:code", ApiShortURLRedirect(share))
}
