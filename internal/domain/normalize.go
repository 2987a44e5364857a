package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares a word for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//
// Apostrophes and hyphens are preserved.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ValidWord reports whether a token from a downloaded word list is
// acceptable: non-empty and alphabetic once apostrophes and hyphens
// are removed.
func ValidWord(token string) bool {
	stripped := strings.NewReplacer("'", "", "-", "").Replace(token)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// NormalizeDefinition cleans a raw definition returned by a lookup
// service: trims whitespace, strips one trailing period, and
// upper-cases the first letter.
//
//	"a domesticated carnivore." → "A domesticated carnivore"
func NormalizeDefinition(def string) string {
	def = strings.TrimSpace(def)
	def = strings.TrimSuffix(def, ".")
	if def == "" {
		return ""
	}
	r := []rune(def)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
