package vcard

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationResult annotates generated vCard text. Warnings never make it invalid.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

var (
	reBegin   = regexp.MustCompile(`(?m)^BEGIN:VCARD\r?$`)
	reEnd     = regexp.MustCompile(`(?m)^END:VCARD\r?$`)
	reVersion = regexp.MustCompile(`(?m)^VERSION:[34]\.0\r?$`)
	reFN      = regexp.MustCompile(`(?m)^FN[;:]`)
)

// properties whose value is a single TEXT, where bare ';' or ',' means the
// producer forgot to escape.
var singleTextProps = map[string]bool{
	"FN":        true,
	"TITLE":     true,
	"ROLE":      true,
	"NOTE":      true,
	"EMAIL":     true,
	"X-SERVICE": true,
	"X-PRODUCT": true,
}

// Validate checks vCard text for the required markers and flags long lines and
// values that look unescaped.
func Validate(text string) ValidationResult {
	res := ValidationResult{Errors: []string{}, Warnings: []string{}}
	if !reBegin.MatchString(text) {
		res.Errors = append(res.Errors, "missing BEGIN:VCARD")
	}
	if !reEnd.MatchString(text) {
		res.Errors = append(res.Errors, "missing END:VCARD")
	}
	if !reVersion.MatchString(text) {
		res.Errors = append(res.Errors, "missing or unsupported VERSION (expected 3.0 or 4.0)")
	}
	if !reFN.MatchString(text) {
		res.Errors = append(res.Errors, "missing FN property")
	}

	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		n := i + 1
		if len(line) > 75 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d exceeds 75 characters", n))
		}
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		prop := strings.ToUpper(name)
		if idx := strings.IndexByte(prop, ';'); idx >= 0 {
			prop = prop[:idx]
		}
		bare, badEscape := scanValue(value)
		if bare && singleTextProps[prop] {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %s contains unescaped special characters", n, prop))
		}
		if badEscape {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %s contains an invalid escape sequence", n, prop))
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// scanValue reports whether value holds a bare ';' or ',' and whether it holds a
// backslash escape other than \\ \; \, \n \N.
func scanValue(value string) (bare, badEscape bool) {
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '\\':
			if i == len(value)-1 {
				badEscape = true
				continue
			}
			switch value[i+1] {
			case '\\', ';', ',', 'n', 'N':
			default:
				badEscape = true
			}
			i++
		case ';', ',':
			bare = true
		}
	}
	return bare, badEscape
}
