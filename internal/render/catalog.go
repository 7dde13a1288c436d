package render

import "github.com/samber/lo"

// Template describes a profile layout.
type Template struct {
	Key                string   `json:"key"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Layout             string   `json:"layout"`
	RecommendedSchemes []string `json:"recommended_schemes"`
	Features           []string `json:"features"`
	Industries         []string `json:"industries"`
}

type ColorScheme struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Primary     string `json:"primary"`
	Secondary   string `json:"secondary"`
	Accent      string `json:"accent"`
	Text        string `json:"text"`
	TextLight   string `json:"text_light"`
	Background  string `json:"background"`
	CardBG      string `json:"card_bg"`
	Border      string `json:"border"`
	Success     string `json:"success"`
	Warning     string `json:"warning"`
	Error       string `json:"error"`
}

const (
	DefaultColorScheme = "professional"
	// DefaultTemplate is used for profiles that never picked a template.
	DefaultTemplate = "ceo"
)

var templates = []Template{
	{
		Key:                "ceo",
		Name:               "Executive",
		Description:        "Professional layout for executives and business leaders",
		Layout:             "header-focused",
		RecommendedSchemes: []string{"professional", "finance", "corporate", "luxury"},
		Features:           []string{"large_header", "services_grid", "contact_prominent"},
		Industries:         []string{"business", "finance", "consulting", "legal"},
	},
	{
		Key:                "freelancer",
		Name:               "Creative Professional",
		Description:        "Modern layout for freelancers and creative professionals",
		Layout:             "portfolio-focused",
		RecommendedSchemes: []string{"creative", "modern", "artistic", "vibrant"},
		Features:           []string{"gallery_prominent", "skills_showcase", "portfolio_grid"},
		Industries:         []string{"design", "photography", "marketing", "creative"},
	},
	{
		Key:                "restaurant",
		Name:               "Restaurant & Food",
		Description:        "Appetizing layout for restaurants and food businesses",
		Layout:             "menu-focused",
		RecommendedSchemes: []string{"warm", "food", "hospitality", "organic"},
		Features:           []string{"menu_display", "gallery_food", "hours_prominent"},
		Industries:         []string{"restaurant", "food", "catering", "hospitality"},
	},
	{
		Key:                "healthcare",
		Name:               "Healthcare & Medical",
		Description:        "Clean, trustworthy layout for healthcare professionals",
		Layout:             "service-focused",
		RecommendedSchemes: []string{"healthcare", "clean", "trust", "medical"},
		Features:           []string{"services_detailed", "credentials", "appointment_booking"},
		Industries:         []string{"healthcare", "medical", "dental", "therapy"},
	},
	{
		Key:                "construction",
		Name:               "Construction & Trade",
		Description:        "Strong, reliable layout for construction and trade businesses",
		Layout:             "project-focused",
		RecommendedSchemes: []string{"industrial", "strong", "reliable", "earth"},
		Features:           []string{"project_gallery", "services_list", "contact_direct"},
		Industries:         []string{"construction", "contracting", "trades", "engineering"},
	},
	{
		Key:                "education",
		Name:               "Education & Training",
		Description:        "Professional layout for educators and training providers",
		Layout:             "content-focused",
		RecommendedSchemes: []string{"academic", "professional", "trust", "knowledge"},
		Features:           []string{"courses_list", "credentials", "testimonials"},
		Industries:         []string{"education", "training", "coaching", "consulting"},
	},
	{
		Key:                "fitness",
		Name:               "Fitness & Wellness",
		Description:        "Energetic layout for fitness and wellness professionals",
		Layout:             "action-focused",
		RecommendedSchemes: []string{"energetic", "health", "vibrant", "active"},
		Features:           []string{"programs_showcase", "before_after", "booking_prominent"},
		Industries:         []string{"fitness", "wellness", "sports", "health"},
	},
}

var colorSchemes = []ColorScheme{
	{
		Key: "professional", Name: "Professional Blue", Description: "Classic professional look with blue accents",
		Primary: "#2563eb", Secondary: "#64748b", Accent: "#f8fafc", Text: "#1e293b", TextLight: "#64748b",
		Background: "#ffffff", CardBG: "#f8fafc", Border: "#e2e8f0", Success: "#059669", Warning: "#d97706", Error: "#dc2626",
	},
	{
		Key: "healthcare", Name: "Medical Green", Description: "Clean and trustworthy healthcare colors",
		Primary: "#059669", Secondary: "#6b7280", Accent: "#f0fdf4", Text: "#111827", TextLight: "#6b7280",
		Background: "#ffffff", CardBG: "#f9fafb", Border: "#d1d5db", Success: "#10b981", Warning: "#f59e0b", Error: "#ef4444",
	},
	{
		Key: "creative", Name: "Creative Purple", Description: "Modern and creative with purple highlights",
		Primary: "#7c3aed", Secondary: "#a855f7", Accent: "#faf5ff", Text: "#1f2937", TextLight: "#6b7280",
		Background: "#ffffff", CardBG: "#f9fafb", Border: "#e5e7eb", Success: "#10b981", Warning: "#f59e0b", Error: "#ef4444",
	},
	{
		Key: "finance", Name: "Finance Navy", Description: "Trustworthy navy blue for financial services",
		Primary: "#1e40af", Secondary: "#374151", Accent: "#f9fafb", Text: "#111827", TextLight: "#6b7280",
		Background: "#ffffff", CardBG: "#f3f4f6", Border: "#d1d5db", Success: "#059669", Warning: "#d97706", Error: "#dc2626",
	},
	{
		Key: "warm", Name: "Warm Orange", Description: "Welcoming warm colors for hospitality",
		Primary: "#ea580c", Secondary: "#92400e", Accent: "#fff7ed", Text: "#1c1917", TextLight: "#78716c",
		Background: "#ffffff", CardBG: "#fefcfb", Border: "#e7e5e4", Success: "#16a34a", Warning: "#ca8a04", Error: "#dc2626",
	},
	{
		Key: "industrial", Name: "Industrial Gray", Description: "Strong and reliable colors for construction",
		Primary: "#374151", Secondary: "#6b7280", Accent: "#f9fafb", Text: "#111827", TextLight: "#6b7280",
		Background: "#ffffff", CardBG: "#f3f4f6", Border: "#d1d5db", Success: "#059669", Warning: "#d97706", Error: "#dc2626",
	},
	{
		Key: "energetic", Name: "Energetic Red", Description: "Dynamic colors for fitness and sports",
		Primary: "#dc2626", Secondary: "#991b1b", Accent: "#fef2f2", Text: "#1f2937", TextLight: "#6b7280",
		Background: "#ffffff", CardBG: "#fefcfc", Border: "#f3f4f6", Success: "#16a34a", Warning: "#d97706", Error: "#b91c1c",
	},
	{
		Key: "luxury", Name: "Luxury Gold", Description: "Premium gold accents for luxury services",
		Primary: "#d97706", Secondary: "#92400e", Accent: "#fffbeb", Text: "#1c1917", TextLight: "#78716c",
		Background: "#ffffff", CardBG: "#fefdfb", Border: "#f3f4f6", Success: "#059669", Warning: "#ca8a04", Error: "#dc2626",
	},
}

// TemplateKeys lists every known template key in catalog order.
func TemplateKeys() []string {
	return lo.Map(templates, func(t Template, _ int) string { return t.Key })
}

// Templates returns all templates, or those tagged with industry when it is set.
func Templates(industry string) []Template {
	if industry == "" {
		return templates
	}
	return lo.Filter(templates, func(t Template, _ int) bool { return lo.Contains(t.Industries, industry) })
}

func LookupTemplate(key string) (Template, bool) {
	return lo.Find(templates, func(t Template) bool { return t.Key == key })
}

func LookupColorScheme(key string) (ColorScheme, bool) {
	return lo.Find(colorSchemes, func(c ColorScheme) bool { return c.Key == key })
}

// ColorSchemes returns the known schemes recommended for templateKey, or all
// schemes when the template is unknown or empty.
func ColorSchemes(templateKey string) []ColorScheme {
	tpl, ok := LookupTemplate(templateKey)
	if !ok {
		return colorSchemes
	}
	var out []ColorScheme
	for _, key := range tpl.RecommendedSchemes {
		if cs, ok := LookupColorScheme(key); ok {
			out = append(out, cs)
		}
	}
	return out
}
