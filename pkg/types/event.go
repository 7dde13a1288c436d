package types

type EventType string

const (
	EventTypeView          EventType = "view"
	EventTypeDownload      EventType = "download"
	EventTypeQRScan        EventType = "qr_scan"
	EventTypeShare         EventType = "share"
	EventTypeContactSave   EventType = "contact_save"
	EventTypeShortURLClick EventType = "short_url_click"
)

var EventTypes = []EventType{
	EventTypeView,
	EventTypeDownload,
	EventTypeQRScan,
	EventTypeShare,
	EventTypeContactSave,
	EventTypeShortURLClick,
}

func (e EventType) Valid() bool {
	for _, t := range EventTypes {
		if t == e {
			return true
		}
	}
	return false
}

// Counter returns the profile counter column bumped by this event, or "" if none.
func (e EventType) Counter() string {
	switch e {
	case EventTypeView:
		return "views"
	case EventTypeDownload:
		return "downloads"
	case EventTypeQRScan:
		return "qr_scans"
	case EventTypeShare:
		return "shares"
	case EventTypeContactSave:
		return "contact_saves"
	}
	return ""
}

type Role string

const (
	RoleAdmin         Role = "admin"
	RoleBusinessOwner Role = "business_owner"
	RoleEndUser       Role = "end_user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBusinessOwner, RoleEndUser:
		return true
	}
	return false
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the actor may modify a resource owned by ownerID.
func (a Actor) CanManage(ownerID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == ownerID)
}
