package render

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/vcard/pkg/types"
)

type fakeSource struct {
	fields   map[string]string
	business bool
	services []types.Service
	products []types.Product
	gallery  []types.GalleryImage
	hours    types.BusinessHours
}

func (f *fakeSource) Field(name string) string { return f.fields[name] }
func (f *fakeSource) IsBusiness() bool { return f.business }
func (f *fakeSource) Services() []types.Service { return f.services }
func (f *fakeSource) Products() []types.Product { return f.products }
func (f *fakeSource) GalleryImages() []types.GalleryImage { return f.gallery }
func (f *fakeSource) BusinessHours() types.BusinessHours { return f.hours }
func (f *fakeSource) SocialLinks() []types.SocialLink {
	if u := f.fields["instagram"]; u != "" {
		return []types.SocialLink{{Platform: types.SocialInstagram, URL: u}}
	}
	return nil
}

func personal() *fakeSource {
	return &fakeSource{fields: map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.test",
		"phone":      "+44 20 0000 0000",
	}}
}

func TestRender_UnknownKeysFallBack(t *testing.T) {
	e := NewEngine("", nil)
	out := e.Render("nope", "professional", personal())
	require.Equal(t, `<div class="vcard-fallback"><h1>Ada Lovelace</h1><p>Email: <a href="mailto:ada@example.test">ada@example.test</a></p><p>Phone: <a href="tel:+44 20 0000 0000">+44 20 0000 0000</a></p></div>`, out)

	require.Equal(t, out, e.Render("ceo", "nope", personal()))
}

func TestRender_ConditionalSections(t *testing.T) {
	e := NewEngine("", nil)

	out := e.Render("ceo", "", personal())
	require.True(t, strings.HasPrefix(out, "<style>.vcard-template.template-ceo {"))
	require.Contains(t, out, `<div class="vcard-template template-ceo color-scheme-professional">`)
	require.NotContains(t, out, "{{")
	require.NotContains(t, out, "if_services")
	require.NotContains(t, out, `<h3 class="primary-text">Services</h3>`)
	require.NotContains(t, out, "business-description")
	require.NotContains(t, out, "gallery-section")

	biz := personal()
	biz.business = true
	biz.fields["business_name"] = "Acme <Tools>"
	biz.services = []types.Service{{Name: "Repair", Price: "$50", Duration: "1h"}}
	biz.gallery = []types.GalleryImage{{URL: "https://img.test/1.jpg", Alt: "Shop"}}
	out = e.Render("construction", "industrial", biz)
	require.NotContains(t, out, "{{")
	require.Contains(t, out, `<h3 class="primary-text">Services</h3>`)
	require.Contains(t, out, `<div class="services-section layout-project-focused"><div class="service-item"><h4 class="service-name">Repair</h4><span class="service-price">$50</span><span class="service-duration">1h</span></div></div>`)
	require.Contains(t, out, `<h1 class="business-name primary-text">Acme &lt;Tools&gt;</h1>`)
	require.Contains(t, out, "business-description")
	require.Contains(t, out, `<img src="https://img.test/1.jpg" alt="Shop">`)
	require.Contains(t, out, "vcard-template-project-focused")
	require.NotContains(t, out, `<h3 class="primary-text">Products</h3>`)
}

func TestParse_DataCannotOpenBlocks(t *testing.T) {
	src := personal()
	src.fields["job_title"] = "{{#if_services}}x{{/if_services}} {{email}}"
	tpl, _ := LookupTemplate("ceo")
	out := Parse("<p>{{job_title}}</p>{{#if_services}}S{{/if_services}}{{unknown}}", tpl, "professional", src)
	require.Equal(t, "<p>{{#if_services}}x{{/if_services}} {{email}}</p>{{unknown}}", out)
}

func TestParse_DropsStrayMarkers(t *testing.T) {
	tpl, _ := LookupTemplate("ceo")
	src := personal()
	src.fields["job_title"] = "{{/if_gallery}}"

	// unclosed known block, unknown block names and a dangling close
	out := Parse("{{#if_services}}A{{#if_hours}}B{{/if_hours}}{{/if_products}}<i>{{job_title}}</i>", tpl, "professional", src)
	require.Equal(t, "AB<i>{{/if_gallery}}</i>", out)

	src.services = []types.Service{{Name: "Tea"}}
	out = Parse("{{#if_services}}S{{/if_services}}{{/if_services}}", tpl, "professional", src)
	require.Equal(t, "S", out)
}

func TestRender_LoadsTemplateFilesAndCaches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vcard-ceo.html"), []byte(`<main>{{business_name}} {{color_scheme_class}}</main>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, sharedTemplateFile), []byte(`<section>{{email}}</section>`), 0o644))

	e := NewEngine(dir, nil)
	require.Contains(t, e.Render("ceo", "luxury", personal()), "<main>Ada Lovelace color-scheme-luxury</main>")
	require.Contains(t, e.Render("fitness", "energetic", personal()), "<section>ada@example.test</section>")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vcard-ceo.html"), []byte(`changed`), 0o644))
	require.Contains(t, e.Render("ceo", "luxury", personal()), "<main>Ada Lovelace color-scheme-luxury</main>")
}

func TestRender_ReadErrorFallsBack(t *testing.T) {
	e := NewEngine("/templates", nil)
	e.readFile = func(string) ([]byte, error) { return nil, fs.ErrPermission }
	require.True(t, strings.HasPrefix(e.Render("ceo", "professional", personal()), `<div class="vcard-fallback">`))

	e = NewEngine("/templates", nil)
	e.readFile = func(string) ([]byte, error) { return nil, errors.Join(fs.ErrNotExist) }
	require.Contains(t, e.Render("ceo", "professional", personal()), `class="vcard-profile-header`)
}

func TestCSS_Overrides(t *testing.T) {
	scheme, ok := LookupColorScheme("professional")
	require.True(t, ok)

	css := CSS("ceo", scheme, personal())
	require.Contains(t, css, "  --primary-color: #2563eb;\n")
	require.Contains(t, css, "  --error-color: #dc2626;\n")
	require.NotContains(t, css, "font-family")

	src := personal()
	src.fields["primary_color"] = "#112233"
	src.fields["secondary_color"] = "red;}"
	src.fields["font_family"] = "Inter, sans-serif"
	css = CSS("ceo", scheme, src)
	require.Contains(t, css, "  --primary-color: #112233;\n")
	require.Contains(t, css, "  --secondary-color: #64748b;\n")
	require.Contains(t, css, "  font-family: Inter, sans-serif;\n")
	require.Contains(t, css, ".vcard-template.template-ceo .primary-text { color: var(--primary-color); }")
}

func TestCatalog(t *testing.T) {
	require.Len(t, Templates(""), 7)
	consulting := Templates("consulting")
	require.Len(t, consulting, 2)
	require.Equal(t, "ceo", consulting[0].Key)
	require.Equal(t, "education", consulting[1].Key)

	schemes := ColorSchemes("ceo")
	keys := make([]string, len(schemes))
	for i, s := range schemes {
		keys[i] = s.Key
	}
	require.Equal(t, []string{"professional", "finance", "luxury"}, keys)
	require.Len(t, ColorSchemes(""), 8)
	require.Len(t, TemplateKeys(), 7)
}
