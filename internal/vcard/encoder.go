package vcard

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/fatflowers/vcard/pkg/types"
)

// Source is the read side of a profile as seen by the encoder.
// Field returns "" for unset or unknown names; "id" must be supported.
type Source interface {
	Field(name string) string
	IsBusiness() bool
	Services() []types.Service
	Products() []types.Product
	BusinessHours() types.BusinessHours
	SocialLinks() []types.SocialLink
}

const (
	Version4 = "4.0"
	Version3 = "3.0"

	revLayout = "20060102T150405Z"
)

type Options struct {
	// Version is written to the VERSION line, 4.0 unless 3.0 is requested.
	Version string
	// SiteHost is the domain part of UID.
	SiteHost string
	// FoldLines wraps content lines longer than 75 octets.
	FoldLines bool
	Now       func() time.Time
}

// Encoder turns a profile snapshot into vCard or CSV text. It holds no state
// between calls and is safe for concurrent use.
type Encoder struct {
	version   string
	siteHost  string
	foldLines bool
	now       func() time.Time
}

func NewEncoder(opts Options) *Encoder {
	e := &Encoder{
		version:   Version4,
		siteHost:  opts.SiteHost,
		foldLines: opts.FoldLines,
		now:       opts.Now,
	}
	if opts.Version == Version3 {
		e.version = Version3
	}
	if e.siteHost == "" {
		e.siteHost = "localhost"
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

type lines []string

func (l *lines) add(name, value string) {
	*l = append(*l, name+":"+value)
}

// EncodeVCF renders the profile as CRLF-joined vCard lines.
func (e *Encoder) EncodeVCF(src Source) string {
	var l lines
	l.add("BEGIN", "VCARD")
	l.add("VERSION", e.version)

	business := src.IsBusiness()
	if business {
		e.writeBusinessIdentity(&l, src)
	} else {
		e.writePersonalIdentity(&l, src)
	}
	e.writeContact(&l, src)
	e.writeAddress(&l, src)

	if lat, long := src.Field("latitude"), src.Field("longitude"); lat != "" && long != "" {
		l.add("GEO", lat+","+long)
	}
	if business {
		if desc := src.Field("business_description"); desc != "" {
			l.add("NOTE", Escape(desc))
		}
	}

	for _, link := range src.SocialLinks() {
		l.add("X-SOCIALPROFILE;TYPE="+string(link.Platform), link.URL)
		l.add("URL;TYPE="+string(link.Platform), link.URL)
	}
	for _, s := range src.Services() {
		if v := offering(s.Name, s.Price, s.Description); v != "" {
			l.add("X-SERVICE", Escape(v))
		}
	}
	for _, p := range src.Products() {
		if v := offering(p.Name, p.Price, p.Description); v != "" {
			l.add("X-PRODUCT", Escape(v))
		}
	}
	for _, d := range types.FormatBusinessHours(src.BusinessHours()) {
		value := "CLOSED"
		if !d.Closed {
			value = d.Open + "-" + d.Close
		}
		l.add("X-BUSINESS-HOURS;DAY="+strings.ToUpper(d.Day), value)
	}

	photo := src.Field("featured_image")
	if business {
		photo = src.Field("business_logo")
	}
	if photo != "" {
		l.add("PHOTO", photo)
	}
	if cats := Categories(src); len(cats) > 0 {
		l.add("CATEGORIES", strings.Join(lo.Map(cats, func(c string, _ int) string { return Escape(c) }), ","))
	}

	l.add("REV", e.now().UTC().Format(revLayout))
	l.add("UID", "vcard-"+src.Field("id")+"@"+e.siteHost)
	l.add("END", "VCARD")

	if e.foldLines {
		var folded []string
		for _, line := range l {
			folded = append(folded, fold(line)...)
		}
		return strings.Join(folded, "\r\n")
	}
	return strings.Join(l, "\r\n")
}

func (e *Encoder) writeBusinessIdentity(l *lines, src Source) {
	name := Escape(src.Field("business_name"))
	l.add("FN", name)
	l.add("ORG", name)
	title := src.Field("job_title")
	if title == "" {
		title = "Business Owner"
	}
	l.add("TITLE", Escape(title))
	if tagline := src.Field("business_tagline"); tagline != "" {
		l.add("ROLE", Escape(tagline))
	}
}

func (e *Encoder) writePersonalIdentity(l *lines, src Source) {
	first, last := src.Field("first_name"), src.Field("last_name")
	fn := strings.TrimSpace(first + " " + last)
	if fn == "" {
		fn = src.Field("email")
	}
	l.add("FN", Escape(fn))
	l.add("N", joinComponents(last, first, "", "", ""))
	if company := src.Field("company"); company != "" {
		l.add("ORG", Escape(company))
	}
	if title := src.Field("job_title"); title != "" {
		l.add("TITLE", Escape(title))
	}
}

func (e *Encoder) writeContact(l *lines, src Source) {
	if phone := src.Field("phone"); phone != "" {
		l.add("TEL;TYPE=work,voice", Escape(phone))
	}
	if phone := src.Field("secondary_phone"); phone != "" {
		l.add("TEL;TYPE=work,voice", Escape(phone))
	}
	if wa := src.Field("whatsapp"); wa != "" {
		l.add("TEL;TYPE=work,cell", Escape(wa))
		l.add("IMPP;TYPE=work", "whatsapp:"+Escape(wa))
	}
	if email := src.Field("email"); email != "" {
		l.add("EMAIL;TYPE=work", Escape(email))
	}
	if site := src.Field("website"); site != "" {
		l.add("URL", site)
	}
}

func (e *Encoder) writeAddress(l *lines, src Source) {
	parts := []string{
		src.Field("address"),
		src.Field("city"),
		src.Field("state"),
		src.Field("zip_code"),
		src.Field("country"),
	}
	if lo.EveryBy(parts, func(p string) bool { return p == "" }) {
		return
	}
	l.add("ADR;TYPE=work", joinComponents(append([]string{"", ""}, parts...)...))
}

// offering formats "name - price: description"; price and description are optional.
func offering(name, price, desc string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	v := name
	if price = strings.TrimSpace(price); price != "" {
		v += " - " + price
	}
	if desc = strings.TrimSpace(desc); desc != "" {
		v += ": " + desc
	}
	return v
}

// Categories returns the industry of the profile template followed by service
// and product categories, deduplicated in first-seen order.
func Categories(src Source) []string {
	var cats []string
	if tpl := src.Field("template_name"); tpl != "" {
		cats = append(cats, IndustryForTemplate(tpl))
	}
	for _, s := range src.Services() {
		cats = append(cats, strings.TrimSpace(s.Category))
	}
	for _, p := range src.Products() {
		cats = append(cats, strings.TrimSpace(p.Category))
	}
	return lo.Uniq(lo.Compact(cats))
}

var industries = map[string]string{
	"ceo":           "Executive/Corporate",
	"freelancer":    "Freelance/Consulting",
	"restaurant":    "Food & Beverage",
	"coffeebar":     "Food & Beverage",
	"construction":  "Construction",
	"education":     "Education",
	"fitness":       "Health & Fitness",
	"handyman":      "Home Services",
	"healthcare":    "Healthcare",
	"immigration":   "Legal Services",
	"lawyer":        "Legal Services",
	"makeup-artist": "Beauty & Cosmetics",
	"ngo":           "Non-Profit",
	"saloon":        "Beauty & Personal Care",
	"tour":          "Travel & Tourism",
}

// IndustryForTemplate maps a template key to an industry label, "Business" if unknown.
func IndustryForTemplate(template string) string {
	if v, ok := industries[template]; ok {
		return v
	}
	return "Business"
}
