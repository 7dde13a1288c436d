package handlers

import (
	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/app/service/contact"
	"github.com/fatflowers/vcard/internal/app/service/sharing"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/internal/render"
	"github.com/fatflowers/vcard/internal/vcard"
	"github.com/fatflowers/vcard/pkg/response"
	"github.com/fatflowers/vcard/pkg/types"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{} `json:"data"`
}

// RespHealth wraps the health status.
type RespHealth struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    map[string]string `json:"data"`
}

// RespProfile wraps a single profile.
type RespProfile struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ProfileView `json:"data"`
}

// RespProfileList wraps the caller's profiles.
type RespProfileList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []ProfileView `json:"data"`
}

// RespExport wraps a generated export with its validation report.
type RespExport struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    vcard.Export `json:"data"`
}

// RespQRCode wraps a QR image description.
type RespQRCode struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    sharing.QRCode `json:"data"`
}

// RespShareInfo wraps share links.
type RespShareInfo struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ShareInfo `json:"data"`
}

// RespShortURL wraps a short URL.
type RespShortURL struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ShortURLResponse `json:"data"`
}

// RespAnalyticsSummary wraps the owner's analytics view.
type RespAnalyticsSummary struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    analytics.Summary `json:"data"`
}

// RespTemplates wraps the template catalog.
type RespTemplates struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []render.Template `json:"data"`
}

// RespColorSchemes wraps color schemes.
type RespColorSchemes struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []render.ColorScheme `json:"data"`
}

// RespTemplatePreview wraps rendered preview HTML.
type RespTemplatePreview struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    TemplatePreview `json:"data"`
}

// RespContactList wraps saved contacts.
type RespContactList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ContactList `json:"data"`
}

// RespSaveContact wraps the save result.
type RespSaveContact struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SaveContactResponse `json:"data"`
}

// RespSyncContacts wraps the sync result.
type RespSyncContacts struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SyncContactsResponse `json:"data"`
}

// RespSubscriptionInfo wraps the caller's plan usage.
type RespSubscriptionInfo struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    types.UserSubscriptionInfo `json:"data"`
}

// RespSubscription wraps a subscription row.
type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Subscription `json:"data"`
}

// RespContactStatistics wraps saved contact statistics.
type RespContactStatistics struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    contact.Statistics `json:"data"`
}

// RespEventStatistic wraps daily event series.
type RespEventStatistic struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    analytics.EventStatisticResponse `json:"data"`
}

// RespIssueToken wraps a signed bearer token.
type RespIssueToken struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    IssueTokenResponse       `json:"data"`
}
