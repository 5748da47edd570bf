// Package htmlsanitize cleans admin-entered broadcast text for display.
//
// Broadcast messages are delivered by the bot with Telegram's HTML parse
// mode, so admins may type a handful of inline tags. The dashboard shows
// the message back (preview, session history) and must never render
// anything beyond those tags.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/dalemusser/garajhub/internal/app/system/format"
	"github.com/microcosm-cc/bluemonday"
)

var (
	inline = newInlinePolicy()
	strict = bluemonday.StrictPolicy()
)

// newInlinePolicy allows the inline formatting Telegram understands.
func newInlinePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "br")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Sanitize removes everything but inline formatting and safe links.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return inline.Sanitize(s)
}

// SanitizeToHTML sanitizes s and marks it safe for templates. Newlines
// become <br> so multi-line messages keep their shape.
func SanitizeToHTML(s string) template.HTML {
	clean := Sanitize(s)
	return template.HTML(strings.ReplaceAll(clean, "\n", "<br>"))
}

// StripTags removes all markup and decodes entities, leaving plain text.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(strict.Sanitize(s))
}

// Preview returns at most n runes of the message's plain text.
func Preview(s string, n int) string {
	text := strings.Join(strings.Fields(StripTags(s)), " ")
	return format.Truncate(text, n)
}
