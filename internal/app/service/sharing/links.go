package sharing

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/types"
)

const (
	defaultQRSize         = 300
	defaultErrorLevel     = "M"
	defaultMargin         = 4
	defaultForeground     = "000000"
	defaultBackground     = "FFFFFF"
	defaultEmbedWidth     = 300
	defaultEmbedHeight    = 400
	defaultShareTitle     = "vCard Profile"
	defaultShareBlurb     = "Check out this professional profile"
	descriptionWordLimit  = 20
	descriptionMaxService = 3
)

// QROptions customizes the QR image. Zero values take the defaults.
type QROptions struct {
	Size            int    `form:"size" json:"size" validate:"omitempty,min=100,max=1000"`
	ErrorCorrection string `form:"error_correction" json:"error_correction" validate:"omitempty,oneof=L M Q H"`
	Margin          *int   `form:"margin" json:"margin" validate:"omitempty,min=0,max=20"`
	Foreground      string `form:"foreground_color" json:"foreground_color" validate:"omitempty,hexadecimal,len=6"`
	Background      string `form:"background_color" json:"background_color" validate:"omitempty,hexadecimal,len=6"`
}

func (o QROptions) withDefaults(size int) QROptions {
	if o.Size <= 0 {
		o.Size = size
	}
	if o.Size <= 0 {
		o.Size = defaultQRSize
	}
	if o.ErrorCorrection == "" {
		o.ErrorCorrection = defaultErrorLevel
	}
	if o.Margin == nil {
		m := defaultMargin
		o.Margin = &m
	}
	o.Foreground = strings.ToUpper(strings.TrimPrefix(o.Foreground, "#"))
	o.Background = strings.ToUpper(strings.TrimPrefix(o.Background, "#"))
	if o.Foreground == "" {
		o.Foreground = defaultForeground
	}
	if o.Background == "" {
		o.Background = defaultBackground
	}
	return o
}

// QRCodeURL builds a chart-API QR image URL encoding target.
func QRCodeURL(base, target string, o QROptions) string {
	q := url.Values{}
	q.Set("chs", fmt.Sprintf("%dx%d", o.Size, o.Size))
	q.Set("cht", "qr")
	q.Set("chl", target)
	q.Set("choe", "UTF-8")
	q.Set("chld", o.ErrorCorrection+"|"+strconv.Itoa(*o.Margin))
	if o.Foreground != defaultForeground || o.Background != defaultBackground {
		q.Set("chco", o.Foreground+","+o.Background)
	}
	return base + "?" + q.Encode()
}

type ShareLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	Action   string `json:"action,omitempty"`
}

// SharePlatforms are the share targets in display order.
var SharePlatforms = []string{"facebook", "twitter", "linkedin", "whatsapp", "telegram", "email", "copy"}

// ShareLinks returns one link per platform for sharing profileURL.
func ShareLinks(p *models.Profile, profileURL string) []ShareLink {
	u := url.QueryEscape(profileURL)
	title := url.QueryEscape(ShareTitle(p))
	desc := url.QueryEscape(ShareDescription(p))
	return []ShareLink{
		{Platform: "facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + u, Label: "Share on Facebook", Icon: "fab fa-facebook-f", Color: "#1877F2"},
		{Platform: "twitter", URL: "https://twitter.com/intent/tweet?url=" + u + "&text=" + title, Label: "Share on Twitter", Icon: "fab fa-twitter", Color: "#1DA1F2"},
		{Platform: "linkedin", URL: "https://www.linkedin.com/sharing/share-offsite/?url=" + u, Label: "Share on LinkedIn", Icon: "fab fa-linkedin-in", Color: "#0A66C2"},
		{Platform: "whatsapp", URL: "https://wa.me/?text=" + title + "%20" + u, Label: "Share on WhatsApp", Icon: "fab fa-whatsapp", Color: "#25D366"},
		{Platform: "telegram", URL: "https://t.me/share/url?url=" + u + "&text=" + title, Label: "Share on Telegram", Icon: "fab fa-telegram-plane", Color: "#0088CC"},
		{Platform: "email", URL: "mailto:?subject=" + title + "&body=" + desc + "%0A%0A" + u, Label: "Share via Email", Icon: "fas fa-envelope", Color: "#6B7280"},
		{Platform: "copy", URL: "javascript:void(0)", Label: "Copy Link", Icon: "fas fa-copy", Color: "#6B7280", Action: "copy-link"},
	}
}

// ShareTitle is "Business - Tagline" or "First Last - Title at Company".
func ShareTitle(p *models.Profile) string {
	var title string
	if p.IsBusiness() {
		title = p.Field("business_name")
		if tagline := p.Field("business_tagline"); tagline != "" {
			title += " - " + tagline
		}
	} else {
		title = strings.TrimSpace(p.Field("first_name") + " " + p.Field("last_name"))
		job, company := p.Field("job_title"), p.Field("company")
		switch {
		case job != "" && company != "":
			title += " - " + job + " at " + company
		case job != "":
			title += " - " + job
		case company != "":
			title += " - " + company
		}
	}
	if strings.TrimSpace(title) == "" {
		return defaultShareTitle
	}
	return title
}

// ShareDescription is the business description, else the first services, else
// a generic line, cut to 20 words.
func ShareDescription(p *models.Profile) string {
	var desc string
	if p.IsBusiness() {
		desc = p.Field("business_description")
		if desc == "" && len(p.Services()) > 0 {
			names := lo.FilterMap(p.Services(), func(s types.Service, _ int) (string, bool) {
				n := strings.TrimSpace(s.Name)
				return n, n != ""
			})
			if len(names) > 0 {
				desc = "Services: " + strings.Join(lo.Slice(names, 0, descriptionMaxService), ", ")
				if len(names) > descriptionMaxService {
					desc += " and more"
				}
			}
		}
	}
	if desc == "" {
		desc = defaultShareBlurb
	}
	return trimWords(desc, descriptionWordLimit)
}

func trimWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "…"
}

// EmbedOptions sizes the embedded iframe.
type EmbedOptions struct {
	Width           int    `form:"width" json:"width"`
	Height          int    `form:"height" json:"height"`
	Theme           string `form:"theme" json:"theme"`
	ShowQR          *bool  `form:"show_qr" json:"show_qr"`
	ShowContactForm bool   `form:"show_contact_form" json:"show_contact_form"`
}

// EmbedCode returns an iframe snippet pointing at the embed view of profileURL.
func EmbedCode(p *models.Profile, profileURL string, o EmbedOptions) string {
	if o.Width <= 0 {
		o.Width = defaultEmbedWidth
	}
	if o.Height <= 0 {
		o.Height = defaultEmbedHeight
	}
	if o.Theme != "dark" {
		o.Theme = "light"
	}
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	q := url.Values{}
	q.Set("embed", "1")
	q.Set("width", strconv.Itoa(o.Width))
	q.Set("height", strconv.Itoa(o.Height))
	q.Set("theme", o.Theme)
	q.Set("show_qr", flag(o.ShowQR == nil || *o.ShowQR))
	q.Set("show_contact_form", flag(o.ShowContactForm))

	sep := "?"
	if strings.Contains(profileURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf(`<iframe src="%s" width="%d" height="%d" frameborder="0" scrolling="auto" title="%s"></iframe>`,
		html.EscapeString(profileURL+sep+q.Encode()), o.Width, o.Height, html.EscapeString(ShareTitle(p)))
}

type NFCPayload struct {
	Type         string            `json:"type"`
	Data         string            `json:"data"`
	Format       string            `json:"format"`
	Instructions map[string]string `json:"instructions"`
}

// NFCData describes what to write to an NFC tag for the profile.
func NFCData(profileURL string) *NFCPayload {
	return &NFCPayload{
		Type:   "url",
		Data:   profileURL,
		Format: "text/plain",
		Instructions: map[string]string{
			"android": "Use NFC Tools app to write this URL to an NFC tag",
			"ios":     "Use NFC TagInfo app to write this URL to an NFC tag",
		},
	}
}
