package vcard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/fatflowers/vcard/pkg/types"
)

// Field is one labelled CSV column.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CSVFields flattens the profile into ordered label/value pairs.
func (e *Encoder) CSVFields(src Source) []Field {
	var fields []Field
	add := func(label, value string) { fields = append(fields, Field{Label: label, Value: value}) }

	business := src.IsBusiness()
	if business {
		add("Business Name", src.Field("business_name"))
		add("Owner First Name", src.Field("first_name"))
		add("Owner Last Name", src.Field("last_name"))
		add("Business Tagline", src.Field("business_tagline"))
		add("Business Description", src.Field("business_description"))
	} else {
		add("First Name", src.Field("first_name"))
		add("Last Name", src.Field("last_name"))
		add("Company", src.Field("company"))
	}

	add("Job Title", src.Field("job_title"))
	add("Phone", src.Field("phone"))
	add("Secondary Phone", src.Field("secondary_phone"))
	add("WhatsApp", src.Field("whatsapp"))
	add("Email", src.Field("email"))
	add("Website", src.Field("website"))
	add("Address", src.Field("address"))
	add("City", src.Field("city"))
	add("State", src.Field("state"))
	add("Zip Code", src.Field("zip_code"))
	add("Country", src.Field("country"))
	add("Latitude", src.Field("latitude"))
	add("Longitude", src.Field("longitude"))

	for _, link := range src.SocialLinks() {
		add(types.TitleCase(string(link.Platform)), link.URL)
	}

	if !business {
		return fields
	}
	if services := src.Services(); len(services) > 0 {
		add("Services", joinOfferings(lo.Map(services, func(s types.Service, _ int) [2]string { return [2]string{s.Name, s.Price} })))
	}
	if products := src.Products(); len(products) > 0 {
		add("Products", joinOfferings(lo.Map(products, func(p types.Product, _ int) [2]string { return [2]string{p.Name, p.Price} })))
	}
	if hours := types.FormatBusinessHours(src.BusinessHours()); len(hours) > 0 {
		add("Business Hours", strings.Join(lo.Map(hours, func(d types.DayHours, _ int) string {
			return d.Label + ": " + d.Status
		}), "; "))
	}
	return fields
}

func joinOfferings(items [][2]string) string {
	var parts []string
	for _, it := range items {
		name, price := strings.TrimSpace(it[0]), strings.TrimSpace(it[1])
		if name == "" {
			continue
		}
		if price != "" {
			name += " (" + price + ")"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "; ")
}

// WriteCSV writes a header row of labels followed by one row of values.
func WriteCSV(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(lo.Map(fields, func(f Field, _ int) string { return f.Label })); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.Write(lo.Map(fields, func(f Field, _ int) string { return f.Value })); err != nil {
		return nil, fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
