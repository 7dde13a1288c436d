package profile

import (
	"strings"

	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/types"
)

// Input is the editable part of a profile, as accepted by create and update.
type Input struct {
	BusinessName        string `json:"business_name" validate:"max=255"`
	BusinessTagline     string `json:"business_tagline" validate:"max=255"`
	BusinessDescription string `json:"business_description"`
	FirstName           string `json:"first_name" validate:"max=128"`
	LastName            string `json:"last_name" validate:"max=128"`
	JobTitle            string `json:"job_title" validate:"max=255"`
	Company             string `json:"company" validate:"max=255"`

	Phone          string `json:"phone" validate:"omitempty,phone"`
	SecondaryPhone string `json:"secondary_phone" validate:"omitempty,phone"`
	WhatsApp       string `json:"whatsapp" validate:"omitempty,phone"`
	Email          string `json:"email" validate:"omitempty,email"`
	Website        string `json:"website" validate:"omitempty,url"`

	Address   string `json:"address" validate:"max=512"`
	City      string `json:"city" validate:"max=128"`
	State     string `json:"state" validate:"max=128"`
	ZipCode   string `json:"zip_code" validate:"max=32"`
	Country   string `json:"country" validate:"max=128"`
	Latitude  string `json:"latitude" validate:"omitempty,latitude"`
	Longitude string `json:"longitude" validate:"omitempty,longitude"`

	TemplateName   string `json:"template_name" validate:"omitempty,template"`
	ColorScheme    string `json:"color_scheme" validate:"omitempty,colorscheme"`
	PrimaryColor   string `json:"primary_color" validate:"omitempty,len=7,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,len=7,hexcolor"`
	FontFamily     string `json:"font_family" validate:"max=128"`

	BusinessLogo  string `json:"business_logo" validate:"omitempty,url"`
	CoverImage    string `json:"cover_image" validate:"omitempty,url"`
	FeaturedImage string `json:"featured_image" validate:"omitempty,url"`

	Facebook  string `json:"facebook" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	Twitter   string `json:"twitter" validate:"omitempty,url"`
	YouTube   string `json:"youtube" validate:"omitempty,url"`
	TikTok    string `json:"tiktok" validate:"omitempty,url"`

	Services      []types.Service      `json:"services" validate:"omitempty,dive"`
	Products      []types.Product      `json:"products" validate:"omitempty,dive"`
	Gallery       []types.GalleryImage `json:"gallery" validate:"omitempty,dive"`
	BusinessHours types.BusinessHours  `json:"business_hours" validate:"omitempty,dive,keys,weekday,endkeys"`
}

func (in *Input) IsBusiness() bool {
	return strings.TrimSpace(in.BusinessName) != "" || len(in.Services) > 0 || len(in.Products) > 0
}

// Apply copies the input onto p, replacing every editable field.
func (in *Input) Apply(p *models.Profile) {
	p.BusinessName = strings.TrimSpace(in.BusinessName)
	p.BusinessTagline = strings.TrimSpace(in.BusinessTagline)
	p.BusinessDescription = strings.TrimSpace(in.BusinessDescription)
	p.FirstName = strings.TrimSpace(in.FirstName)
	p.LastName = strings.TrimSpace(in.LastName)
	p.JobTitle = strings.TrimSpace(in.JobTitle)
	p.Company = strings.TrimSpace(in.Company)

	p.Phone = strings.TrimSpace(in.Phone)
	p.SecondaryPhone = strings.TrimSpace(in.SecondaryPhone)
	p.WhatsApp = strings.TrimSpace(in.WhatsApp)
	p.Email = strings.TrimSpace(in.Email)
	p.Website = strings.TrimSpace(in.Website)

	p.Address = strings.TrimSpace(in.Address)
	p.City = strings.TrimSpace(in.City)
	p.State = strings.TrimSpace(in.State)
	p.ZipCode = strings.TrimSpace(in.ZipCode)
	p.Country = strings.TrimSpace(in.Country)
	p.Latitude = strings.TrimSpace(in.Latitude)
	p.Longitude = strings.TrimSpace(in.Longitude)

	p.TemplateName = in.TemplateName
	p.ColorScheme = in.ColorScheme
	p.PrimaryColor = in.PrimaryColor
	p.SecondaryColor = in.SecondaryColor
	p.FontFamily = strings.TrimSpace(in.FontFamily)

	p.BusinessLogo = in.BusinessLogo
	p.CoverImage = in.CoverImage
	p.FeaturedImage = in.FeaturedImage

	p.Facebook = in.Facebook
	p.Instagram = in.Instagram
	p.LinkedIn = in.LinkedIn
	p.Twitter = in.Twitter
	p.YouTube = in.YouTube
	p.TikTok = in.TikTok

	p.ServiceList = in.Services
	p.ProductList = in.Products
	p.Gallery = in.Gallery
	p.Hours = models.JSONHours(in.BusinessHours)
}

// Preview builds an unsaved profile from the input, for template previews.
func (in *Input) Preview() *models.Profile {
	p := &models.Profile{ID: "preview"}
	in.Apply(p)
	return p
}
