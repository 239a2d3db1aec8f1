// Package slug derives URL-safe course identifiers from titles.
package slug

import (
	"strings"
	"unicode"
)

// Derive lowercases the title, strips everything outside Latin/Cyrillic
// letters, digits, whitespace and hyphens, then collapses whitespace and
// hyphen runs into single hyphens. Deterministic and pure.
func Derive(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.Is(unicode.Cyrillic, r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	s := strings.Join(strings.Fields(b.String()), "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// Resolve returns the slug to persist for a title. Edits that do not
// change the title keep the existing slug so URLs never churn; otherwise
// a fresh slug is derived. Collisions are not disambiguated here — the
// store's uniqueness constraint is the authority and its violation is
// surfaced as a typed conflict by the caller.
func Resolve(title, existingTitle, existingSlug string) string {
	if existingSlug != "" && strings.TrimSpace(title) == existingTitle {
		return existingSlug
	}
	return Derive(title)
}
