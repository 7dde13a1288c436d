package types

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ProfileType string

const (
	ProfileTypeBusiness ProfileType = "business"
	ProfileTypePersonal ProfileType = "personal"
)

// Service is one offering listed on a business profile.
type Service struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty" validate:"omitempty,price"`
	Category    string `json:"category,omitempty"`
	Image       string `json:"image,omitempty" validate:"omitempty,url"`
	Duration    string `json:"duration,omitempty"`
}

type Product struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price,omitempty" validate:"omitempty,price"`
	Category    string   `json:"category,omitempty"`
	InStock     *bool    `json:"in_stock,omitempty"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// Available reports whether the product is in stock. Unset means in stock.
func (p Product) Available() bool {
	return p.InStock == nil || *p.InStock
}

type GalleryImage struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt,omitempty"`
}

type DaySchedule struct {
	Open   string `json:"open,omitempty" validate:"omitempty,hhmm"`
	Close  string `json:"close,omitempty" validate:"omitempty,hhmm"`
	Closed bool   `json:"closed"`
}

// BusinessHours maps a lowercase weekday name to its schedule.
type BusinessHours map[string]DaySchedule

const (
	DefaultOpenTime  = "09:00"
	DefaultCloseTime = "17:00"
)

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayHours is the display form of one weekday.
type DayHours struct {
	Day    string `json:"day"`
	Label  string `json:"label"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Status string `json:"status"`
	Closed bool   `json:"closed"`
}

// FormatBusinessHours expands hours to all seven weekdays, monday first.
// Days without an entry are closed; open days without times get 09:00-17:00.
// Returns nil when no hours are configured at all.
func FormatBusinessHours(hours BusinessHours) []DayHours {
	if len(hours) == 0 {
		return nil
	}
	out := make([]DayHours, 0, len(Weekdays))
	for _, day := range Weekdays {
		d := DayHours{Day: day, Label: TitleCase(day)}
		sched, ok := hours[day]
		if !ok || sched.Closed {
			d.Closed = true
			d.Status = "Closed"
			out = append(out, d)
			continue
		}
		d.Open, d.Close = sched.Open, sched.Close
		if d.Open == "" {
			d.Open = DefaultOpenTime
		}
		if d.Close == "" {
			d.Close = DefaultCloseTime
		}
		d.Status = d.Open + " - " + d.Close
		out = append(out, d)
	}
	return out
}

type SocialPlatform string

const (
	SocialFacebook  SocialPlatform = "facebook"
	SocialInstagram SocialPlatform = "instagram"
	SocialLinkedIn  SocialPlatform = "linkedin"
	SocialTwitter   SocialPlatform = "twitter"
	SocialYouTube   SocialPlatform = "youtube"
	SocialTikTok    SocialPlatform = "tiktok"
)

var SocialPlatforms = []SocialPlatform{SocialFacebook, SocialInstagram, SocialLinkedIn, SocialTwitter, SocialYouTube, SocialTikTok}

type SocialLink struct {
	Platform SocialPlatform `json:"platform"`
	URL      string         `json:"url"`
}

// TitleCase upper-cases the first letter of each word ("linkedin" -> "Linkedin").
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}
