package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/vcard/internal/app/service/profile"
	"github.com/fatflowers/vcard/internal/render"
	"github.com/fatflowers/vcard/pkg/response"
)

// @Summary      List templates
// @Tags         Templates
// @Produce      json
// @Param        industry  query     string  false  "Only templates tagged with this industry"
// @Success      200       {object}  handlers.RespTemplates
// @Router       /api/v1/templates [get]
func ApiListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, response.OKT(render.Templates(c.Query("industry"))))
}

// @Summary      Color schemes for a template
// @Tags         Templates
// @Produce      json
// @Param        key  path      string  true  "Template key"
// @Success      200  {object}  handlers.RespColorSchemes
// @Router       /api/v1/templates/{key}/color-schemes [get]
func ApiTemplateColorSchemes(c *gin.Context) {
	key := c.Param("key")
	if _, ok := render.LookupTemplate(key); !ok {
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "template not found"))
		return
	}
	c.JSON(http.StatusOK, response.OKT(render.ColorSchemes(key)))
}

type TemplatePreviewRequest struct {
	Template    string         `json:"template"`
	ColorScheme string         `json:"color_scheme"`
	Profile     *profile.Input `json:"profile" binding:"required"`
}

type TemplatePreview struct {
	Template    string `json:"template"`
	ColorScheme string `json:"color_scheme"`
	HTML        string `json:"html"`
}

// @Summary      Preview a template
// @Description  Renders unsaved profile fields with the given template and color scheme.
// @Tags         Templates
// @Accept       json
// @Produce      json
// @Param        request  body      TemplatePreviewRequest  true  "Template, scheme and profile fields"
// @Success      200      {object}  handlers.RespTemplatePreview
// @Router       /api/v1/templates/preview [post]
func ApiTemplatePreview(renderer Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TemplatePreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if req.Template == "" {
			req.Template = req.Profile.TemplateName
		}
		if req.ColorScheme == "" {
			req.ColorScheme = req.Profile.ColorScheme
		}
		c.JSON(http.StatusOK, response.OKT(&TemplatePreview{
			Template:    req.Template,
			ColorScheme: req.ColorScheme,
			HTML:        renderer.Render(req.Template, req.ColorScheme, req.Profile.Preview()),
		}))
	}
}

func RegisterTemplateRoutes(r gin.IRouter, renderer Renderer) {
	r.GET("/templates", ApiListTemplates)
	r.GET("/templates/:key/color-schemes", ApiTemplateColorSchemes)
	r.POST("/templates/preview", ApiTemplatePreview(renderer))
}
