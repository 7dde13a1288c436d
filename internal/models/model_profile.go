package models

import (
	"strings"
	"time"

	"github.com/fatflowers/vcard/pkg/types"
)

// Profile is a business or personal card owned by a user.
// It is a business profile when it has a business name, services or products.
type Profile struct {
	ID      string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	OwnerID string `gorm:"column:owner_id;type:varchar(64);not null;index" json:"owner_id"`

	BusinessName        string `gorm:"column:business_name;type:varchar(255)" json:"business_name"`
	BusinessTagline     string `gorm:"column:business_tagline;type:varchar(255)" json:"business_tagline"`
	BusinessDescription string `gorm:"column:business_description;type:text" json:"business_description"`
	FirstName           string `gorm:"column:first_name;type:varchar(128)" json:"first_name"`
	LastName            string `gorm:"column:last_name;type:varchar(128)" json:"last_name"`
	JobTitle            string `gorm:"column:job_title;type:varchar(255)" json:"job_title"`
	Company             string `gorm:"column:company;type:varchar(255)" json:"company"`

	Phone          string `gorm:"column:phone;type:varchar(64)" json:"phone"`
	SecondaryPhone string `gorm:"column:secondary_phone;type:varchar(64)" json:"secondary_phone"`
	WhatsApp       string `gorm:"column:whatsapp;type:varchar(64)" json:"whatsapp"`
	Email          string `gorm:"column:email;type:varchar(255)" json:"email"`
	Website        string `gorm:"column:website;type:varchar(512)" json:"website"`

	Address   string `gorm:"column:address;type:varchar(512)" json:"address"`
	City      string `gorm:"column:city;type:varchar(128)" json:"city"`
	State     string `gorm:"column:state;type:varchar(128)" json:"state"`
	ZipCode   string `gorm:"column:zip_code;type:varchar(32)" json:"zip_code"`
	Country   string `gorm:"column:country;type:varchar(128)" json:"country"`
	Latitude  string `gorm:"column:latitude;type:varchar(32)" json:"latitude"`
	Longitude string `gorm:"column:longitude;type:varchar(32)" json:"longitude"`

	TemplateName   string `gorm:"column:template_name;type:varchar(64)" json:"template_name"`
	ColorScheme    string `gorm:"column:color_scheme;type:varchar(64)" json:"color_scheme"`
	PrimaryColor   string `gorm:"column:primary_color;type:varchar(16)" json:"primary_color"`
	SecondaryColor string `gorm:"column:secondary_color;type:varchar(16)" json:"secondary_color"`
	FontFamily     string `gorm:"column:font_family;type:varchar(128)" json:"font_family"`

	BusinessLogo  string `gorm:"column:business_logo;type:varchar(512)" json:"business_logo"`
	CoverImage    string `gorm:"column:cover_image;type:varchar(512)" json:"cover_image"`
	FeaturedImage string `gorm:"column:featured_image;type:varchar(512)" json:"featured_image"`

	Facebook  string `gorm:"column:facebook;type:varchar(512)" json:"facebook"`
	Instagram string `gorm:"column:instagram;type:varchar(512)" json:"instagram"`
	LinkedIn  string `gorm:"column:linkedin;type:varchar(512)" json:"linkedin"`
	Twitter   string `gorm:"column:twitter;type:varchar(512)" json:"twitter"`
	YouTube   string `gorm:"column:youtube;type:varchar(512)" json:"youtube"`
	TikTok    string `gorm:"column:tiktok;type:varchar(512)" json:"tiktok"`

	ServiceList JSONList[types.Service]      `gorm:"column:services" json:"services"`
	ProductList JSONList[types.Product]      `gorm:"column:products" json:"products"`
	Gallery     JSONList[types.GalleryImage] `gorm:"column:gallery" json:"gallery"`
	Hours       JSONHours                    `gorm:"column:business_hours" json:"business_hours"`

	Views        int64 `gorm:"column:views;not null;default:0" json:"views"`
	Downloads    int64 `gorm:"column:downloads;not null;default:0" json:"downloads"`
	QRScans      int64 `gorm:"column:qr_scans;not null;default:0" json:"qr_scans"`
	Shares       int64 `gorm:"column:shares;not null;default:0" json:"shares"`
	ContactSaves int64 `gorm:"column:contact_saves;not null;default:0" json:"contact_saves"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "vcard_profile"
}

var profileFields = map[string]func(p *Profile) string{
	"id":                   func(p *Profile) string { return p.ID },
	"business_name":        func(p *Profile) string { return p.BusinessName },
	"business_tagline":     func(p *Profile) string { return p.BusinessTagline },
	"business_description": func(p *Profile) string { return p.BusinessDescription },
	"first_name":           func(p *Profile) string { return p.FirstName },
	"last_name":            func(p *Profile) string { return p.LastName },
	"job_title":            func(p *Profile) string { return p.JobTitle },
	"company":              func(p *Profile) string { return p.Company },
	"phone":                func(p *Profile) string { return p.Phone },
	"secondary_phone":      func(p *Profile) string { return p.SecondaryPhone },
	"whatsapp":             func(p *Profile) string { return p.WhatsApp },
	"email":                func(p *Profile) string { return p.Email },
	"website":              func(p *Profile) string { return p.Website },
	"address":              func(p *Profile) string { return p.Address },
	"city":                 func(p *Profile) string { return p.City },
	"state":                func(p *Profile) string { return p.State },
	"zip_code":             func(p *Profile) string { return p.ZipCode },
	"country":              func(p *Profile) string { return p.Country },
	"latitude":             func(p *Profile) string { return p.Latitude },
	"longitude":            func(p *Profile) string { return p.Longitude },
	"template_name":        func(p *Profile) string { return p.TemplateName },
	"color_scheme":         func(p *Profile) string { return p.ColorScheme },
	"primary_color":        func(p *Profile) string { return p.PrimaryColor },
	"secondary_color":      func(p *Profile) string { return p.SecondaryColor },
	"font_family":          func(p *Profile) string { return p.FontFamily },
	"business_logo":        func(p *Profile) string { return p.BusinessLogo },
	"cover_image":          func(p *Profile) string { return p.CoverImage },
	"featured_image":       func(p *Profile) string { return p.FeaturedImage },
	"facebook":             func(p *Profile) string { return p.Facebook },
	"instagram":            func(p *Profile) string { return p.Instagram },
	"linkedin":             func(p *Profile) string { return p.LinkedIn },
	"twitter":              func(p *Profile) string { return p.Twitter },
	"youtube":              func(p *Profile) string { return p.YouTube },
	"tiktok":               func(p *Profile) string { return p.TikTok },
}

// Field returns a named scalar field, trimmed. Unknown names return "".
func (p *Profile) Field(name string) string {
	if p == nil {
		return ""
	}
	if get, ok := profileFields[name]; ok {
		return strings.TrimSpace(get(p))
	}
	return ""
}

func (p *Profile) IsBusiness() bool {
	return strings.TrimSpace(p.BusinessName) != "" || len(p.ServiceList) > 0 || len(p.ProductList) > 0
}

func (p *Profile) Type() types.ProfileType {
	if p.IsBusiness() {
		return types.ProfileTypeBusiness
	}
	return types.ProfileTypePersonal
}

func (p *Profile) Services() []types.Service { return p.ServiceList }

func (p *Profile) Products() []types.Product { return p.ProductList }

func (p *Profile) GalleryImages() []types.GalleryImage { return p.Gallery }

func (p *Profile) BusinessHours() types.BusinessHours { return types.BusinessHours(p.Hours) }

// SocialLinks returns the configured social profiles in platform order.
func (p *Profile) SocialLinks() []types.SocialLink {
	var links []types.SocialLink
	for _, platform := range types.SocialPlatforms {
		if u := p.Field(string(platform)); u != "" {
			links = append(links, types.SocialLink{Platform: platform, URL: u})
		}
	}
	return links
}

// DisplayName is the business name, or "first last" for personal profiles.
func (p *Profile) DisplayName() string {
	if name := p.Field("business_name"); name != "" {
		return name
	}
	return strings.TrimSpace(p.Field("first_name") + " " + p.Field("last_name"))
}

// ContactSnapshot is the denormalized copy stored when a visitor saves the profile.
func (p *Profile) ContactSnapshot() map[string]string {
	snap := map[string]string{
		"name":      p.DisplayName(),
		"job_title": p.Field("job_title"),
		"company":   p.Field("company"),
		"phone":     p.Field("phone"),
		"email":     p.Field("email"),
		"website":   p.Field("website"),
		"address":   p.Field("address"),
		"city":      p.Field("city"),
	}
	for k, v := range snap {
		if v == "" {
			delete(snap, k)
		}
	}
	return snap
}
