// Package encoding provides the text escaping and cleanup shared by the
// renderer and the verse lookup client.
package encoding

import (
	"strings"
)

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
	)
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
)

// EscapeHTML escapes text for element content or a quoted attribute value.
// Escapes: & < > "
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// EscapeText escapes only the entities that matter in element content.
// Escapes: & < >
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// NormalizeSpace trims s and collapses every run of whitespace, including
// the line breaks verse pages keep between poetry lines, into one space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
