// Package textsan converts display text to plain ASCII for the PDF and
// spreadsheet/CSV exporters, whose consumers cannot be relied on to render
// symbols outside Latin-1.
package textsan

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// replacements is applied before accent folding; order does not matter
// because no replacement produces another key.
var replacements = strings.NewReplacer(
	"≥", ">=",
	"≤", "<=",
	"°", " deg",
	"Ω", " ohm",
	"µ", "u",
	"μ", "u",
	"×", "x",
	"–", "-",
	"—", "-",
	"→", "->",
	"✔", "[OK]",
	"✘", "[X]",
	"⚡", "",
)

// Placeholder replaces any rune that has no ASCII equivalent.
const Placeholder = "?"

// Sanitize returns s with symbols substituted, accents stripped and any
// remaining non-ASCII rune replaced by Placeholder.
func Sanitize(s string) string {
	s = replacements.Replace(s)

	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(folder, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > unicode.MaxASCII {
			b.WriteString(Placeholder)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SanitizeAll sanitizes every element of in, returning a new slice.
func SanitizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Sanitize(s)
	}
	return out
}
