package render

import (
	_ "embed"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fatflowers/vcard/pkg/types"
)

//go:embed templates/basic.html
var basicTemplate string

const sharedTemplateFile = "single-vcard_profile.html"

// Source is the read side of a profile as seen by the renderer.
type Source interface {
	Field(name string) string
	IsBusiness() bool
	Services() []types.Service
	Products() []types.Product
	GalleryImages() []types.GalleryImage
	BusinessHours() types.BusinessHours
	SocialLinks() []types.SocialLink
}

// Engine renders profiles into HTML from placeholder templates.
// Template sources are read once per key and memoized.
type Engine struct {
	dir      string
	log      *zap.SugaredLogger
	readFile func(name string) ([]byte, error)

	mu    sync.RWMutex
	cache map[string]string
}

// NewEngine creates an engine reading template files from dir. An empty dir
// always uses the built-in layout.
func NewEngine(dir string, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{dir: dir, log: log, readFile: os.ReadFile, cache: map[string]string{}}
}

// Render produces `<style>…</style><div class="vcard-template …">…</div>` for
// the given template and color scheme. Unknown keys, unreadable templates and
// render panics all produce the minimal fallback card.
func (e *Engine) Render(templateKey, schemeKey string, src Source) (out string) {
	if templateKey == "" {
		templateKey = DefaultTemplate
	}
	if schemeKey == "" {
		schemeKey = DefaultColorScheme
	}
	tpl, ok := LookupTemplate(templateKey)
	scheme, ok2 := LookupColorScheme(schemeKey)
	if !ok || !ok2 {
		return Fallback(src)
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Errorw("render template panicked", "template", templateKey, "panic", r)
			out = Fallback(src)
		}
	}()

	source, err := e.load(templateKey)
	if err != nil {
		e.log.Errorw("load template failed", "template", templateKey, "err", err)
		return Fallback(src)
	}

	body := Parse(source, tpl, schemeKey, src)
	var b strings.Builder
	b.WriteString("<style>")
	b.WriteString(CSS(tpl.Key, scheme, src))
	b.WriteString("</style>")
	fmt.Fprintf(&b, `<div class="vcard-template template-%s color-scheme-%s">`, html.EscapeString(tpl.Key), html.EscapeString(schemeKey))
	b.WriteString(body)
	b.WriteString("</div>")
	return b.String()
}

// load resolves vcard-<key>.html, then the shared profile template, then the
// built-in layout.
func (e *Engine) load(key string) (string, error) {
	e.mu.RLock()
	cached, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	source := basicTemplate
	if e.dir != "" {
		for _, name := range []string{"vcard-" + key + ".html", sharedTemplateFile} {
			b, err := e.readFile(filepath.Join(e.dir, name))
			if err == nil {
				source = string(b)
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("read template %s: %w", name, err)
			}
		}
	}

	e.mu.Lock()
	e.cache[key] = source
	e.mu.Unlock()
	return source, nil
}

var conditionalNames = []string{"services", "products", "gallery", "business_profile"}

var conditionalBlocks = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(conditionalNames))
	for _, name := range conditionalNames {
		m[name] = regexp.MustCompile(`(?s)\{\{#if_` + name + `\}\}.*?\{\{/if_` + name + `\}\}`)
	}
	return m
}()

// strayMarkers matches block markers left unpaired or naming an unknown block.
var strayMarkers = regexp.MustCompile(`\{\{[#/]if_[a-z0-9_]+\}\}`)

// Parse applies conditional blocks and substitutes every known placeholder.
// Conditionals are resolved before substitution so profile data can never
// open or close a block.
func Parse(source string, tpl Template, schemeKey string, src Source) string {
	conditions := map[string]bool{
		"services":         len(src.Services()) > 0,
		"products":         len(src.Products()) > 0,
		"gallery":          len(src.GalleryImages()) > 0,
		"business_profile": src.IsBusiness(),
	}
	for _, name := range conditionalNames {
		if conditions[name] {
			source = strings.NewReplacer("{{#if_"+name+"}}", "", "{{/if_"+name+"}}", "").Replace(source)
		} else {
			source = conditionalBlocks[name].ReplaceAllString(source, "")
		}
	}
	source = strayMarkers.ReplaceAllString(source, "")
	return strings.NewReplacer(placeholders(tpl, schemeKey, src)...).Replace(source)
}

func placeholders(tpl Template, schemeKey string, src Source) []string {
	text := func(field string) string { return html.EscapeString(src.Field(field)) }
	return []string{
		"{{business_name}}", html.EscapeString(displayName(src)),
		"{{business_tagline}}", text("business_tagline"),
		"{{business_description}}", text("business_description"),
		"{{first_name}}", text("first_name"),
		"{{last_name}}", text("last_name"),
		"{{job_title}}", text("job_title"),
		"{{company}}", text("company"),
		"{{email}}", text("email"),
		"{{phone}}", text("phone"),
		"{{secondary_phone}}", text("secondary_phone"),
		"{{whatsapp}}", text("whatsapp"),
		"{{website}}", text("website"),
		"{{address}}", html.EscapeString(formatAddress(src)),
		"{{business_hours}}", formatBusinessHours(src),
		"{{services}}", formatServices(src, tpl),
		"{{products}}", formatProducts(src, tpl),
		"{{gallery}}", formatGallery(src),
		"{{social_media}}", formatSocialMedia(src),
		"{{business_logo}}", formatBusinessLogo(src),
		"{{cover_image}}", formatCoverImage(src),
		"{{template_class}}", "vcard-template-" + tpl.Layout,
		"{{color_scheme_class}}", "color-scheme-" + html.EscapeString(schemeKey),
	}
}

func displayName(src Source) string {
	if name := src.Field("business_name"); name != "" {
		return name
	}
	return strings.TrimSpace(src.Field("first_name") + " " + src.Field("last_name"))
}

// Fallback is the minimal card shown when a template cannot be rendered.
func Fallback(src Source) string {
	var b strings.Builder
	b.WriteString(`<div class="vcard-fallback">`)
	b.WriteString("<h1>" + html.EscapeString(displayName(src)) + "</h1>")
	if email := src.Field("email"); email != "" {
		e := html.EscapeString(email)
		b.WriteString(`<p>Email: <a href="mailto:` + e + `">` + e + `</a></p>`)
	}
	if phone := src.Field("phone"); phone != "" {
		p := html.EscapeString(phone)
		b.WriteString(`<p>Phone: <a href="tel:` + p + `">` + p + `</a></p>`)
	}
	b.WriteString("</div>")
	return b.String()
}
