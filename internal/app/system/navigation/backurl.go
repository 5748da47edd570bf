// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required path prefix (e.g., "/users").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are path fragments to reject (e.g., "/status").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// WithFallback returns a copy of o with a different fallback.
func (o BackURLOptions) WithFallback(fallback string) BackURLOptions {
	o.Fallback = fallback
	return o
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks the "return" query parameter, then the form value, keeps only
// local URLs, and rejects anything outside AllowedPrefix or pointing at an
// excluded subpath.
//
//	back := navigation.SafeBackURL(r, navigation.UsersBackURL.WithFallback("/users/42"))
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret != "" && Allowed(ret, opts) {
		return ret
	}
	return opts.Fallback
}

// Allowed reports whether the local URL ret satisfies opts. Only the path
// is inspected, so query values such as "?status=active" never match an
// excluded subpath.
func Allowed(ret string, opts BackURLOptions) bool {
	p := ret
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if opts.AllowedPrefix != "" && p != opts.AllowedPrefix && !strings.HasPrefix(p, opts.AllowedPrefix+"/") {
		return false
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(p, excluded) {
			return false
		}
	}
	return true
}

// Common back URL configurations for reuse across packages.
var (
	// UsersBackURL returns options for user pages.
	UsersBackURL = BackURLOptions{
		AllowedPrefix:    "/users",
		ExcludedSubpaths: []string{"/status", "/export"},
		Fallback:         "/users",
	}

	// StartupsBackURL returns options for startup pages.
	StartupsBackURL = BackURLOptions{
		AllowedPrefix:    "/startups",
		ExcludedSubpaths: []string{"/status", "/delete", "/export"},
		Fallback:         "/startups",
	}
)
