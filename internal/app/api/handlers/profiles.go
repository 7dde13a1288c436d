package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/vcard/internal/app/service/profile"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/response"
)

// ProfileView is a profile with its derived type.
type ProfileView struct {
	*models.Profile
	Type string `json:"type"`
}

func toProfileView(p *models.Profile) *ProfileView {
	return &ProfileView{Profile: p, Type: string(p.Type())}
}

// @Summary      Create profile
// @Description  Creates a business or personal profile owned by the caller. Limited by the caller's plan.
// @Tags         Profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body profile.Input true "Profile fields"
// @Success      200  {object}  handlers.RespProfile
// @Router       /api/v1/profiles [post]
func ApiCreateProfile(profiles ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in profile.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := profiles.Create(c.Request.Context(), mustActor(c).UserID, &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toProfileView(p)))
	}
}

// @Summary      List my profiles
// @Tags         Profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespProfileList
// @Router       /api/v1/profiles [get]
func ApiListMyProfiles(profiles ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := profiles.ListByOwner(c.Request.Context(), mustActor(c).UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		views := make([]*ProfileView, 0, len(items))
		for _, p := range items {
			views = append(views, toProfileView(p))
		}
		c.JSON(http.StatusOK, response.OKT(views))
	}
}

// @Summary      Get profile
// @Tags         Profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  handlers.RespProfile
// @Router       /api/v1/profiles/{id} [get]
func ApiGetProfile(profiles ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := profiles.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toProfileView(p)))
	}
}

// @Summary      Update profile
// @Description  Replaces the editable fields. Owner or admin only.
// @Tags         Profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Param        request body profile.Input true "Profile fields"
// @Success      200  {object}  handlers.RespProfile
// @Router       /api/v1/profiles/{id} [put]
func ApiUpdateProfile(profiles ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in profile.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := profiles.Update(c.Request.Context(), mustActor(c), c.Param("id"), &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toProfileView(p)))
	}
}

// @Summary      Delete profile
// @Tags         Profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/profiles/{id} [delete]
func ApiDeleteProfile(profiles ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := profiles.Delete(c.Request.Context(), mustActor(c), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Validate profile input
// @Description  Runs the same validation as create/update without saving.
// @Tags         Profiles
// @Accept       json
// @Produce      json
// @Param        request body profile.Input true "Profile fields"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/profiles/validate [post]
func ApiValidateProfile(profiles ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in profile.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := profiles.Validate(&in); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(gin.H{"valid": true, "type": typeOfInput(&in)}))
	}
}

func typeOfInput(in *profile.Input) string {
	return string(in.Preview().Type())
}

// RegisterProfileRoutes mounts CRUD routes. public carries optional auth, private requires it.
func RegisterProfileRoutes(public, private gin.IRouter, profiles ProfileService) {
	public.GET("/profiles/:id", ApiGetProfile(profiles))
	public.POST("/profiles/validate", ApiValidateProfile(profiles))

	private.POST("/profiles", ApiCreateProfile(profiles))
	private.GET("/profiles", ApiListMyProfiles(profiles))
	private.PUT("/profiles/:id", ApiUpdateProfile(profiles))
	private.DELETE("/profiles/:id", ApiDeleteProfile(profiles))
}
