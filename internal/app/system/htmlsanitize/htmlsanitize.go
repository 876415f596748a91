// Package htmlsanitize strips markup from free text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element; script and style bodies are dropped entirely.
var strict = bluemonday.StrictPolicy()

// PlainText returns s with all HTML removed and entities decoded, trimmed.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
