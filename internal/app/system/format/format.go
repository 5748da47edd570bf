// Package format turns raw API values into display strings.
package format

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/garajhub/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Dash is shown in place of absent values.
const Dash = "-"

// printer is safe for concurrent use; a cases.Caser is not, so Title
// builds one per call.
var printer = message.NewPrinter(language.English)

// timestamp layouts the API is known to emit (SQLite CURRENT_TIMESTAMP,
// ISO-8601 with and without zone, bare dates).
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses an API timestamp. ok is false for blank or unknown input.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders an API timestamp as "Jan 2, 2006". Blank input yields Dash;
// input in an unknown layout is returned unchanged.
func Date(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dash
	}
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// DateTime renders an API timestamp with minutes.
func DateTime(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dash
	}
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006 15:04")
}

// OrDash returns s, or Dash when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dash
	}
	return s
}

// Number renders n with thousands separators.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// Percent renders a percentage with at most one decimal.
func Percent(f float64) string {
	return printer.Sprintf("%.1f%%", f)
}

// Title capitalises a status or label ("active" -> "Active").
func Title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

// AudienceName is the human label of a broadcast recipient group.
func AudienceName(kind string) string {
	switch kind {
	case models.AudienceAll:
		return "All users"
	case models.AudienceStartupOwners:
		return "Startup owners"
	case models.AudienceStartupMembers:
		return "Startup members"
	case "active":
		return "Active users"
	default:
		return kind
	}
}
