// Package sanitize normalizes user-supplied filenames into safe storage keys.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes, so
// "Café" becomes "Cafe" instead of being rejected outright.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Filename converts an arbitrary filename into a key-safe form: accents are
// folded to ASCII, whitespace runs collapse to a single underscore, and any
// character outside [A-Za-z0-9_.-] is dropped. Input with nothing to keep
// sanitizes to the empty string; callers add their own uniqueness.
func Filename(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	// Collapse all whitespace runs to single underscores
	folded = strings.Join(strings.Fields(folded), "_")

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}

	out := b.String()
	if strings.Trim(out, "._-") == "" {
		return ""
	}

	return out
}
