package render

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reHexColor   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	reFontFamily = regexp.MustCompile(`^[A-Za-z0-9 ,'"-]+$`)
)

// CSS returns custom properties scoped to .vcard-template.template-<key>.
// A profile's own primary/secondary color and font family override the scheme.
func CSS(templateKey string, scheme ColorScheme, src Source) string {
	primary, secondary, font := scheme.Primary, scheme.Secondary, ""
	if src != nil {
		if c := src.Field("primary_color"); reHexColor.MatchString(c) {
			primary = c
		}
		if c := src.Field("secondary_color"); reHexColor.MatchString(c) {
			secondary = c
		}
		if f := src.Field("font_family"); reFontFamily.MatchString(f) {
			font = f
		}
	}

	sel := ".vcard-template.template-" + templateKey
	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", sel)
	vars := [][2]string{
		{"primary-color", primary},
		{"secondary-color", secondary},
		{"accent-color", scheme.Accent},
		{"text-color", scheme.Text},
		{"text-light-color", scheme.TextLight},
		{"background-color", scheme.Background},
		{"card-bg-color", scheme.CardBG},
		{"border-color", scheme.Border},
		{"success-color", scheme.Success},
		{"warning-color", scheme.Warning},
		{"error-color", scheme.Error},
	}
	for _, v := range vars {
		fmt.Fprintf(&b, "  --%s: %s;\n", v[0], v[1])
	}
	if font != "" {
		fmt.Fprintf(&b, "  font-family: %s;\n", font)
	}
	b.WriteString("}\n")

	helpers := [][2]string{
		{"primary-bg", "background-color: var(--primary-color);"},
		{"secondary-bg", "background-color: var(--secondary-color);"},
		{"accent-bg", "background-color: var(--accent-color);"},
		{"card-bg", "background-color: var(--card-bg-color);"},
		{"primary-text", "color: var(--primary-color);"},
		{"secondary-text", "color: var(--secondary-color);"},
		{"text-color", "color: var(--text-color);"},
		{"text-light", "color: var(--text-light-color);"},
		{"border-color", "border-color: var(--border-color);"},
	}
	for _, h := range helpers {
		fmt.Fprintf(&b, "%s .%s { %s }\n", sel, h[0], h[1])
	}
	return b.String()
}
