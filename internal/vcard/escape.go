package vcard

import "strings"

var escaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// Escape encodes a TEXT value. CRLF and lone CR are treated as a single
// line break, so every line break becomes exactly one `\n`.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return escaper.Replace(s)
}

// Unescape reverses Escape. Unknown escapes keep the escaped character.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// joinComponents escapes each component and joins them with `;`.
func joinComponents(parts ...string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = Escape(p)
	}
	return strings.Join(out, ";")
}

// fold splits a content line into 75-octet physical lines. Continuation
// lines start with a single space. Multi-byte runes are never split.
func fold(line string) []string {
	const limit = 75
	if len(line) <= limit {
		return []string{line}
	}
	var out []string
	rest := line
	width := limit
	for len(rest) > width {
		cut := width
		for cut > 0 && !runeStart(rest[cut]) {
			cut--
		}
		if cut == 0 {
			cut = width
		}
		out = append(out, rest[:cut])
		rest = rest[cut:]
		if len(out) == 1 {
			width = limit - 1
		}
	}
	out = append(out, rest)
	for i := 1; i < len(out); i++ {
		out[i] = " " + out[i]
	}
	return out
}

func runeStart(b byte) bool {
	return b&0xC0 != 0x80
}
