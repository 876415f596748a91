// Package normalize holds the canonical forms stored for user-entered values.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	regStrip   = regexp.MustCompile(`[\s-]+`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugStrip  = regexp.MustCompile(`[^\w-]+`)
	slugDashes = regexp.MustCompile(`-{2,}`)
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims a raw query or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// DriverName lowercases s, upper-cases the first letter of each
// space-separated word and collapses inner whitespace. "jOhN dOE" becomes
// "John Doe"; "mary-jane" becomes "Mary-jane".
//
// Casers carry state, so each call builds its own.
func DriverName(s string) string {
	words := strings.Fields(cases.Lower(language.Und).String(s))
	upper := cases.Upper(language.Und)
	for i, w := range words {
		_, n := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:n]) + w[n:]
	}
	return strings.Join(words, " ")
}

// Registration upper-cases a vehicle registration and strips whitespace
// and hyphens. "abc-123 xy" becomes "ABC123XY".
func Registration(s string) string {
	return strings.ToUpper(regStrip.ReplaceAllString(s, ""))
}

// Officer is the stored form of the inspecting officer's name.
func Officer(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Slug derives a URL-safe identifier from an organization name.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugStrip.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Role lowercases and trims an organization role claim.
// Unknown values map to "".
func Role(s string) string {
	switch r := strings.ToLower(strings.TrimSpace(s)); r {
	case "org:admin", "org:member":
		return r
	case "admin":
		return "org:admin"
	case "member", "basic_member":
		return "org:member"
	default:
		return ""
	}
}

// Verdict returns PASS or FAIL, or "" when s is neither.
func Verdict(s string) string {
	switch v := strings.ToUpper(strings.TrimSpace(s)); v {
	case "PASS", "FAIL":
		return v
	default:
		return ""
	}
}
