package vcard

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

type Format string

const (
	FormatVCF Format = "vcf"
	FormatCSV Format = "csv"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNilSource         = errors.New("no profile to export")
)

// ParseFormat accepts "vcf", "vcard" and "csv", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vcf", "vcard":
		return FormatVCF, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) MIMEType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "text/vcard"
}

// Export is a generated file ready for download.
type Export struct {
	Format   Format  `json:"format"`
	Content  string  `json:"content"`
	Filename string  `json:"filename"`
	MIMEType string  `json:"mime_type"`
	Fields   []Field `json:"fields,omitempty"`
	// Validation is set for vCard output only.
	Validation *ValidationResult `json:"validation,omitempty"`
}

// Export renders src in the requested format.
func (e *Encoder) Export(src Source, format Format) (*Export, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	out := &Export{Format: format, Filename: Filename(src, format), MIMEType: format.MIMEType()}
	switch format {
	case FormatVCF:
		out.Content = e.EncodeVCF(src)
		v := Validate(out.Content)
		out.Validation = &v
	case FormatCSV:
		out.Fields = e.CSVFields(src)
		b, err := WriteCSV(out.Fields)
		if err != nil {
			return nil, err
		}
		out.Content = string(b)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return out, nil
}

// Filename derives a download name from the business name, or first_last for
// personal profiles, falling back to "vcard".
func Filename(src Source, format Format) string {
	base := ""
	if src.IsBusiness() {
		base = src.Field("business_name")
	}
	if base == "" {
		base = src.Field("first_name") + "_" + src.Field("last_name")
	}
	base = sanitizeFilename(base)
	if base == "" {
		base = "vcard"
	}
	return base + "." + string(format)
}

func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
