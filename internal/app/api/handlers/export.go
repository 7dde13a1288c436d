package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/vcard"
	"github.com/fatflowers/vcard/pkg/logctx"
	"github.com/fatflowers/vcard/pkg/metrics"
	"github.com/fatflowers/vcard/pkg/response"
	"github.com/fatflowers/vcard/pkg/types"
)

// @Summary      Download profile
// @Description  Returns the profile as a vCard (.vcf) or CSV attachment and counts a download.
// @Tags         Export
// @Produce      text/vcard
// @Produce      text/csv
// @Param        id      path   string  true   "Profile ID"
// @Param        format  query  string  false  "vcf (default) or csv"
// @Success      200  {file}  file
// @Router       /api/v1/profiles/{id}/export [get]
func ApiExportProfile(profiles ProfileService, exporter Exporter, tracker EventTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, err := vcard.ParseFormat(c.Query("format"))
		if err != nil {
			writeError(c, err)
			return
		}
		p, err := profiles.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := exporter.Export(p, format)
		if err != nil {
			logctx.FromGin(c, nopLog).Errorw("export profile failed", "profile_id", p.ID, "format", format, "err", err)
			writeError(c, err)
			return
		}

		tracker.TrackAsync(c.Request.Context(), &analytics.Event{
			ProfileID: p.ID,
			Type:      types.EventTypeDownload,
			Data:      map[string]any{"format": string(format)},
			Visitor:   visitorFrom(c),
		})
		metrics.IncExport(string(format))

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
		c.Header("Cache-Control", "no-cache, must-revalidate")
		c.Data(http.StatusOK, out.MIMEType+"; charset=utf-8", []byte(out.Content))
	}
}

type ExportPreviewRequest struct {
	Format string `json:"format"`
}

// @Summary      Preview export
// @Description  Returns the generated file content with its validation report, without counting a download.
// @Tags         Export
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                true   "Profile ID"
// @Param        request  body  ExportPreviewRequest  false  "Format, vcf by default"
// @Success      200  {object}  handlers.RespExport
// @Router       /api/v1/profiles/{id}/export/preview [post]
func ApiExportPreview(profiles ProfileService, exporter Exporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExportPreviewRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err.Error())
				return
			}
		}
		format, err := vcard.ParseFormat(req.Format)
		if err != nil {
			writeError(c, err)
			return
		}
		p, err := profiles.GetForActor(c.Request.Context(), mustActor(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := exporter.Export(p, format)
		if err != nil {
			logctx.FromGin(c, nopLog).Errorw("export preview failed", "profile_id", p.ID, "format", format, "err", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

func RegisterExportRoutes(public, private gin.IRouter, profiles ProfileService, exporter Exporter, tracker EventTracker) {
	public.GET("/profiles/:id/export", ApiExportProfile(profiles, exporter, tracker))
	private.POST("/profiles/:id/export/preview", ApiExportPreview(profiles, exporter))
}
