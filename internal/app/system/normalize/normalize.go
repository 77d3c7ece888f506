// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/dalemusser/schoolfinder/internal/app/system/htmlsanitize"
)

// Code canonicalizes an administrative code (region, LA, URN):
// trimmed, inner spaces removed, upper-cased.
func Code(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// Name cleans a display name: markup stripped, whitespace collapsed.
// Case is preserved.
func Name(s string) string {
	return htmlsanitize.PlainText(s)
}

// Postcode upper-cases a UK postcode and puts a single space before the
// three-character inward code. Values too short to split are returned
// upper-cased with spaces removed.
func Postcode(s string) string {
	compact := Code(s)
	if len(compact) < 5 {
		return compact
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}
