// Package textnorm normalizes job text, skill names and tags for matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nameSymbols are kept in normalized names so that C++, C# and Node.js
// do not collapse into shorter unrelated names.
const nameSymbols = "+#."

// Normalize lowercases and trims text. It is the only transformation applied
// to job text before matching.
func Normalize(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

// NormalizeName builds the matching form of a skill name or alias:
// diacritics stripped, lowercased, punctuation dropped except nameSymbols,
// whitespace collapsed.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range strings.ToLower(stripped) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), strings.ContainsRune(nameSymbols, r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Slug turns a tag name into its slug form, e.g. "State Management" -> "state-management".
func Slug(name string) string {
	return strings.ReplaceAll(NormalizeName(name), " ", "-")
}
