package render

import (
	"html"
	"strings"

	"github.com/samber/lo"

	"github.com/fatflowers/vcard/pkg/types"
)

var esc = html.EscapeString

func formatAddress(src Source) string {
	parts := lo.Compact([]string{
		src.Field("address"),
		src.Field("city"),
		src.Field("state"),
		src.Field("zip_code"),
		src.Field("country"),
	})
	return strings.Join(parts, ", ")
}

func formatBusinessHours(src Source) string {
	hours := types.FormatBusinessHours(src.BusinessHours())
	if len(hours) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="business-hours">`)
	for _, d := range hours {
		b.WriteString(`<div class="hours-day">`)
		b.WriteString(`<span class="day">` + esc(d.Label) + `</span>`)
		b.WriteString(`<span class="time">` + esc(d.Status) + `</span>`)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func formatServices(src Source, tpl Template) string {
	services := src.Services()
	if len(services) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="services-section layout-` + esc(tpl.Layout) + `">`)
	for _, s := range services {
		b.WriteString(`<div class="service-item">`)
		if s.Image != "" {
			b.WriteString(`<div class="service-image"><img src="` + esc(s.Image) + `" alt="` + esc(s.Name) + `"></div>`)
		}
		b.WriteString(`<h4 class="service-name">` + esc(s.Name) + `</h4>`)
		if s.Price != "" {
			b.WriteString(`<span class="service-price">` + esc(s.Price) + `</span>`)
		}
		if s.Description != "" {
			b.WriteString(`<p class="service-description">` + esc(s.Description) + `</p>`)
		}
		if s.Duration != "" {
			b.WriteString(`<span class="service-duration">` + esc(s.Duration) + `</span>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func formatProducts(src Source, tpl Template) string {
	products := src.Products()
	if len(products) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="products-section layout-` + esc(tpl.Layout) + `">`)
	for _, p := range products {
		b.WriteString(`<div class="product-item">`)
		if len(p.Images) > 0 && p.Images[0] != "" {
			b.WriteString(`<div class="product-image"><img src="` + esc(p.Images[0]) + `" alt="` + esc(p.Name) + `"></div>`)
		}
		b.WriteString(`<div class="product-content">`)
		b.WriteString(`<h4 class="product-name">` + esc(p.Name) + `</h4>`)
		if p.Price != "" {
			b.WriteString(`<span class="product-price">` + esc(p.Price) + `</span>`)
		}
		if p.Description != "" {
			b.WriteString(`<p class="product-description">` + esc(p.Description) + `</p>`)
		}
		if p.InStock != nil {
			if *p.InStock {
				b.WriteString(`<span class="stock-status in-stock">In Stock</span>`)
			} else {
				b.WriteString(`<span class="stock-status out-of-stock">Out of Stock</span>`)
			}
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func formatGallery(src Source) string {
	images := lo.Filter(src.GalleryImages(), func(img types.GalleryImage, _ int) bool { return img.URL != "" })
	if len(images) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="gallery-section"><div class="gallery-grid">`)
	for _, img := range images {
		b.WriteString(`<div class="gallery-item"><img src="` + esc(img.URL) + `" alt="` + esc(img.Alt) + `"></div>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func formatSocialMedia(src Source) string {
	links := src.SocialLinks()
	if len(links) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="social-media-section">`)
	for _, l := range links {
		p := string(l.Platform)
		b.WriteString(`<a href="` + esc(l.URL) + `" class="social-link social-` + esc(p) + `" target="_blank" rel="noopener">`)
		b.WriteString(`<span class="social-icon">` + esc(types.TitleCase(p)) + `</span>`)
		b.WriteString(`</a>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func formatBusinessLogo(src Source) string {
	logo := src.Field("business_logo")
	if logo == "" {
		return ""
	}
	return `<div class="business-logo"><img src="` + esc(logo) + `" alt="` + esc(displayName(src)) + ` Logo"></div>`
}

func formatCoverImage(src Source) string {
	cover := src.Field("cover_image")
	if cover == "" {
		return ""
	}
	return `<div class="cover-image"><img src="` + esc(cover) + `" alt="Cover Image"></div>`
}
