package vcard

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/vcard/pkg/types"
)

type fakeSource struct {
	fields   map[string]string
	business bool
	services []types.Service
	products []types.Product
	hours    types.BusinessHours
}

func (f *fakeSource) Field(name string) string { return f.fields[name] }
func (f *fakeSource) IsBusiness() bool { return f.business }
func (f *fakeSource) Services() []types.Service { return f.services }
func (f *fakeSource) Products() []types.Product { return f.products }
func (f *fakeSource) BusinessHours() types.BusinessHours { return f.hours }
func (f *fakeSource) SocialLinks() []types.SocialLink {
	var links []types.SocialLink
	for _, p := range types.SocialPlatforms {
		if u := f.fields[string(p)]; u != "" {
			links = append(links, types.SocialLink{Platform: p, URL: u})
		}
	}
	return links
}

var fixedNow = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600)).Add(time.Hour) }

func newTestEncoder() *Encoder {
	return NewEncoder(Options{SiteHost: "cards.example.com", Now: fixedNow})
}

func businessSource() *fakeSource {
	return &fakeSource{
		business: true,
		fields: map[string]string{
			"id":                   "42",
			"business_name":        "Acme, Inc.",
			"business_tagline":     "Tools; and more",
			"business_description": "Line1\r\nLine2",
			"phone":                "+1 555 0100",
			"whatsapp":             "+15550101",
			"email":                "hi@acme.test",
			"website":              "https://acme.test",
			"address":              "1 Main St",
			"city":                 "Springfield",
			"state":                "IL",
			"zip_code":             "62701",
			"country":              "USA",
			"latitude":             "39.78",
			"longitude":            "-89.65",
			"template_name":        "construction",
			"business_logo":        "https://acme.test/logo.png",
			"facebook":             "https://facebook.com/acme",
		},
		services: []types.Service{
			{Name: "Repair", Price: "$50", Description: "Fix, mend", Category: "Repairs"},
			{Name: ""},
		},
		products: []types.Product{
			{Name: "Hammer", Category: "Tools"},
			{Name: "Saw", Category: "Tools"},
		},
		hours: types.BusinessHours{"monday": {Open: "08:00", Close: "16:00"}},
	}
}

func TestEncodeVCF_Business(t *testing.T) {
	got := strings.Split(newTestEncoder().EncodeVCF(businessSource()), "\r\n")
	want := []string{
		"BEGIN:VCARD",
		"VERSION:4.0",
		`FN:Acme\, Inc.`,
		`ORG:Acme\, Inc.`,
		"TITLE:Business Owner",
		`ROLE:Tools\; and more`,
		"TEL;TYPE=work,voice:+1 555 0100",
		"TEL;TYPE=work,cell:+15550101",
		"IMPP;TYPE=work:whatsapp:+15550101",
		"EMAIL;TYPE=work:hi@acme.test",
		"URL:https://acme.test",
		"ADR;TYPE=work:;;1 Main St;Springfield;IL;62701;USA",
		"GEO:39.78,-89.65",
		`NOTE:Line1\nLine2`,
		"X-SOCIALPROFILE;TYPE=facebook:https://facebook.com/acme",
		"URL;TYPE=facebook:https://facebook.com/acme",
		`X-SERVICE:Repair - $50: Fix\, mend`,
		"X-PRODUCT:Hammer",
		"X-PRODUCT:Saw",
		"X-BUSINESS-HOURS;DAY=MONDAY:08:00-16:00",
		"X-BUSINESS-HOURS;DAY=TUESDAY:CLOSED",
		"X-BUSINESS-HOURS;DAY=WEDNESDAY:CLOSED",
		"X-BUSINESS-HOURS;DAY=THURSDAY:CLOSED",
		"X-BUSINESS-HOURS;DAY=FRIDAY:CLOSED",
		"X-BUSINESS-HOURS;DAY=SATURDAY:CLOSED",
		"X-BUSINESS-HOURS;DAY=SUNDAY:CLOSED",
		"PHOTO:https://acme.test/logo.png",
		"CATEGORIES:Construction,Repairs,Tools",
		"REV:20260102T030405Z",
		"UID:vcard-42@cards.example.com",
		"END:VCARD",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("vcf mismatch (-want +got):\n%s", diff)
	}

	res := Validate(strings.Join(got, "\r\n"))
	require.True(t, res.Valid)
	require.Empty(t, res.Warnings)
}

func TestEncodeVCF_Personal(t *testing.T) {
	src := &fakeSource{fields: map[string]string{
		"id":                   "7",
		"first_name":           "Ada",
		"last_name":            "Lovelace",
		"company":              "Analytical Engines",
		"job_title":            "Engineer",
		"featured_image":       "https://img.test/ada.jpg",
		"business_logo":        "https://img.test/ignored.png",
		"business_description": "not a business",
	}}
	out := NewEncoder(Options{Version: Version3, Now: fixedNow}).EncodeVCF(src)

	require.True(t, strings.HasPrefix(out, "BEGIN:VCARD\r\nVERSION:3.0\r\n"))
	require.Contains(t, out, "\r\nFN:Ada Lovelace\r\nN:Lovelace;Ada;;;\r\nORG:Analytical Engines\r\nTITLE:Engineer\r\n")
	require.Contains(t, out, "\r\nPHOTO:https://img.test/ada.jpg\r\n")
	require.Contains(t, out, "\r\nUID:vcard-7@localhost\r\n")
	require.NotContains(t, out, "NOTE:")
	require.NotContains(t, out, "ROLE:")
	require.NotContains(t, out, "X-BUSINESS-HOURS")
	require.True(t, strings.HasSuffix(out, "END:VCARD"))
}

func TestEncodeVCF_AddressOmittedWhenEmpty(t *testing.T) {
	src := &fakeSource{fields: map[string]string{"first_name": "A"}}
	require.NotContains(t, newTestEncoder().EncodeVCF(src), "ADR")

	src.fields["city"] = "Springfield"
	require.Contains(t, newTestEncoder().EncodeVCF(src), "\r\nADR;TYPE=work:;;;Springfield;;;\r\n")
}

func TestEncodeVCF_GeoRequiresBoth(t *testing.T) {
	src := &fakeSource{fields: map[string]string{"first_name": "A", "latitude": "1.5"}}
	require.NotContains(t, newTestEncoder().EncodeVCF(src), "GEO:")

	src.fields["longitude"] = "2.5"
	require.Contains(t, newTestEncoder().EncodeVCF(src), "\r\nGEO:1.5,2.5\r\n")

	delete(src.fields, "latitude")
	require.NotContains(t, newTestEncoder().EncodeVCF(src), "GEO:")
}

func TestEncodeVCF_BusinessHoursAlwaysSevenDays(t *testing.T) {
	src := businessSource()
	src.hours = types.BusinessHours{"friday": {}, "sunday": {Closed: true}}
	out := newTestEncoder().EncodeVCF(src)
	require.Equal(t, 7, strings.Count(out, "X-BUSINESS-HOURS;DAY="))
	require.Contains(t, out, "X-BUSINESS-HOURS;DAY=FRIDAY:09:00-17:00")
	require.Contains(t, out, "X-BUSINESS-HOURS;DAY=SUNDAY:CLOSED")

	src.hours = nil
	require.NotContains(t, newTestEncoder().EncodeVCF(src), "X-BUSINESS-HOURS")
}

func TestEncodeVCF_FoldLines(t *testing.T) {
	src := businessSource()
	src.fields["business_description"] = strings.Repeat("é", 100)
	out := NewEncoder(Options{FoldLines: true, Now: fixedNow}).EncodeVCF(src)
	for _, line := range strings.Split(out, "\r\n") {
		require.LessOrEqual(t, len(line), 75)
	}
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	require.Contains(t, unfolded, "NOTE:"+strings.Repeat("é", 100))
}

func TestEscape(t *testing.T) {
	cases := []string{
		"plain",
		`back\slash`,
		"semi;colon, comma",
		"multi\nline\r\nwindows\rmac",
		`\;,` + "\n",
		"",
	}
	for _, in := range cases {
		esc := Escape(in)
		bare, bad := scanValue(esc)
		require.False(t, bare, "unescaped special in %q", esc)
		require.False(t, bad, "bad escape in %q", esc)
		require.NotContains(t, esc, "\n")
		require.NotContains(t, esc, "\r")

		normalized := strings.ReplaceAll(strings.ReplaceAll(in, "\r\n", "\n"), "\r", "\n")
		require.Equal(t, normalized, Unescape(esc))
	}
	require.Equal(t, `a\nb`, Escape("a\r\nb"))
}

func TestCSVFields(t *testing.T) {
	e := newTestEncoder()
	fields := e.CSVFields(businessSource())
	labels := make([]string, len(fields))
	values := map[string]string{}
	for i, f := range fields {
		labels[i] = f.Label
		values[f.Label] = f.Value
	}
	want := []string{
		"Business Name", "Owner First Name", "Owner Last Name", "Business Tagline", "Business Description",
		"Job Title", "Phone", "Secondary Phone", "WhatsApp", "Email", "Website",
		"Address", "City", "State", "Zip Code", "Country", "Latitude", "Longitude",
		"Facebook", "Services", "Products", "Business Hours",
	}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "Repair ($50)", values["Services"])
	require.Equal(t, "Hammer; Saw", values["Products"])
	require.True(t, strings.HasPrefix(values["Business Hours"], "Monday: 08:00 - 16:00; Tuesday: Closed; "))
	require.True(t, strings.HasSuffix(values["Business Hours"], "Sunday: Closed"))

	personal := e.CSVFields(&fakeSource{fields: map[string]string{"first_name": "Ada"}})
	require.Equal(t, "First Name", personal[0].Label)
	require.Equal(t, "Company", personal[2].Label)
	for _, f := range personal {
		require.NotEqual(t, "Services", f.Label)
	}
}

func TestWriteCSV(t *testing.T) {
	b, err := WriteCSV([]Field{{Label: "Name", Value: "Acme, Inc."}, {Label: "Phone", Value: "1"}})
	require.NoError(t, err)
	require.Equal(t, "Name,Phone\n\"Acme, Inc.\",1\n", string(b))
}

func TestValidate(t *testing.T) {
	res := Validate("VERSION:2.1\r\nN:x;y")
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 4)

	long := "NOTE:" + strings.Repeat("a", 80)
	res = Validate("BEGIN:VCARD\r\nVERSION:4.0\r\nFN:A;B\r\nTITLE:x\\qy\r\n" + long + "\r\nEND:VCARD")
	require.True(t, res.Valid)
	require.Len(t, res.Warnings, 3)
	require.Contains(t, res.Warnings[0], "FN contains unescaped")
	require.Contains(t, res.Warnings[1], "TITLE contains an invalid escape")
	require.Contains(t, res.Warnings[2], "line 5 exceeds 75")
}

func TestExportAndFilename(t *testing.T) {
	e := newTestEncoder()
	out, err := e.Export(businessSource(), FormatVCF)
	require.NoError(t, err)
	require.Equal(t, "Acme-Inc.vcf", out.Filename)
	require.Equal(t, "text/vcard", out.MIMEType)
	require.NotNil(t, out.Validation)
	require.True(t, out.Validation.Valid)

	out, err = e.Export(&fakeSource{fields: map[string]string{"first_name": "Ada", "last_name": "Love lace"}}, FormatCSV)
	require.NoError(t, err)
	require.Equal(t, "Ada_Love-lace.csv", out.Filename)
	require.Equal(t, "text/csv", out.MIMEType)
	require.Nil(t, out.Validation)

	require.Equal(t, "vcard.vcf", Filename(&fakeSource{fields: map[string]string{}}, FormatVCF))
	require.Equal(t, "vcard.vcf", Filename(&fakeSource{business: true, fields: map[string]string{"business_name": "***"}}, FormatVCF))

	_, err = e.Export(businessSource(), Format("pdf"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = e.Export(nil, FormatVCF)
	require.ErrorIs(t, err, ErrNilSource)

	f, err := ParseFormat("VCARD")
	require.NoError(t, err)
	require.Equal(t, FormatVCF, f)
	_, err = ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestIndustryForTemplate(t *testing.T) {
	require.Equal(t, "Legal Services", IndustryForTemplate("lawyer"))
	require.Equal(t, "Business", IndustryForTemplate("unknown"))
}
