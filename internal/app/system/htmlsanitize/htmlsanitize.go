// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag; it is safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// PlainText strips all markup from s and returns the remaining text,
// unescaped and with runs of whitespace collapsed to a single space.
// Imported spreadsheet cells occasionally carry pasted HTML fragments.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<>&") {
		return strings.Join(strings.Fields(s), " ")
	}
	out := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(out), " ")
}
