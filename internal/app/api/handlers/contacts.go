package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/vcard/internal/app/service/contact"
	"github.com/fatflowers/vcard/pkg/response"
)

type ContactList struct {
	Contacts []*contact.SavedContact `json:"contacts"`
	Total    int                     `json:"total"`
}

// @Summary      List saved contacts
// @Tags         Contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespContactList
// @Router       /api/v1/contacts [get]
func ApiListContacts(contacts ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := contacts.List(c.Request.Context(), mustActor(c).UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ContactList{Contacts: items, Total: len(items)}))
	}
}

type SaveContactRequest struct {
	ProfileID   string         `json:"profile_id" binding:"required"`
	ContactData map[string]any `json:"contact_data"`
}

type SaveContactResponse struct {
	ProfileID string `json:"profile_id"`
	Created   bool   `json:"created"`
}

// @Summary      Save contact
// @Description  Saves a profile to the caller's contacts. Saving again refreshes the stored data.
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SaveContactRequest  true  "Profile and optional contact data"
// @Success      200      {object}  handlers.RespSaveContact
// @Router       /api/v1/contacts [post]
func ApiSaveContact(contacts ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaveContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		created, err := contacts.Save(c.Request.Context(), mustActor(c).UserID, req.ProfileID, req.ContactData, visitorFrom(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&SaveContactResponse{ProfileID: req.ProfileID, Created: created}))
	}
}

// @Summary      Remove saved contact
// @Tags         Contacts
// @Produce      json
// @Security     BearerAuth
// @Param        profile_id  path      string  true  "Profile ID"
// @Success      200         {object}  handlers.RespOK
// @Router       /api/v1/contacts/{profile_id} [delete]
func ApiRemoveContact(contacts ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := contacts.Remove(c.Request.Context(), mustActor(c).UserID, c.Param("profile_id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if !removed {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "contact not found"))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type SyncContactsRequest struct {
	LocalContacts map[string]map[string]any `json:"local_contacts" binding:"required"`
}

type SyncContactsResponse struct {
	Synced int   `json:"synced"`
	Total  int64 `json:"total"`
}

// @Summary      Sync local contacts
// @Description  Merges contacts saved on the device, keyed by profile ID, into the caller's account.
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SyncContactsRequest  true  "Device contacts"
// @Success      200      {object}  handlers.RespSyncContacts
// @Router       /api/v1/contacts/sync [post]
func ApiSyncContacts(contacts ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SyncContactsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		userID := mustActor(c).UserID
		n, err := contacts.Sync(c.Request.Context(), userID, req.LocalContacts)
		if err != nil {
			writeError(c, err)
			return
		}
		total, err := contacts.Count(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&SyncContactsResponse{Synced: n, Total: total}))
	}
}

func RegisterContactRoutes(private gin.IRouter, contacts ContactService) {
	g := private.Group("/contacts")
	g.GET("", ApiListContacts(contacts))
	g.POST("", ApiSaveContact(contacts))
	g.POST("/sync", ApiSyncContacts(contacts))
	g.DELETE("/:profile_id", ApiRemoveContact(contacts))
}
