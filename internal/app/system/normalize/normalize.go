// Package normalize cleans form and query input before it is validated or
// sent to the API.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner runs of whitespace.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Username trims a login name. Case is preserved; the API decides whether
// usernames are case sensitive.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases an admin role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases a user or startup status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-text query value such as a search term.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Filter normalizes a select-box filter value. "all" (any case) means no
// filter and becomes "".
func Filter(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return strings.ToLower(s)
}

// Choice trims and lowercases a value picked from a fixed set, such as a
// broadcast audience. Unlike Filter, "all" is kept.
func Choice(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
