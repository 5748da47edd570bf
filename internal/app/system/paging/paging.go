// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the number of rows requested from the API per list page.
// The API accepts other limits, but every list view in the dashboard uses 20.
const PageSize = 20

// WindowSize is the maximum number of page-number controls shown at once.
const WindowSize = 5

// Kind identifies a pagination control.
type Kind string

const (
	KindPrev Kind = "prev"
	KindPage Kind = "page"
	KindNext Kind = "next"
)

// Control is one button in the pagination strip.
//
// Number is the page the control navigates to. For prev/next it is
// current-1 / current+1 so the template can link it directly.
type Control struct {
	Kind     Kind
	Number   int
	IsActive bool
	Href     string
}

// Descriptor is the current/total page bookkeeping for one list view.
type Descriptor struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
}

// NewDescriptor builds a Descriptor with clamped values:
// totalPages < 0 becomes 0, pageSize <= 0 becomes PageSize, and
// currentPage is kept within [1, max(totalPages, 1)].
func NewDescriptor(currentPage, totalPages, pageSize int) Descriptor {
	if totalPages < 0 {
		totalPages = 0
	}
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return Descriptor{
		CurrentPage: clampPage(currentPage, totalPages),
		TotalPages:  totalPages,
		PageSize:    pageSize,
	}
}

// Offset returns the zero-based index of the first row on the current page.
func (d Descriptor) Offset() int {
	return (d.CurrentPage - 1) * d.PageSize
}

// Controls returns the pagination controls for this descriptor.
func (d Descriptor) Controls() []Control {
	return Controls(d.CurrentPage, d.TotalPages)
}

// TotalPages returns ceil(total/limit). Non-positive inputs yield 0.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Window returns the first and last page numbers of the visible window.
//
// The window starts two pages before current (never below page 1) and
// runs for at most WindowSize pages, cut short at totalPages. Near the last
// page it therefore shrinks: 20 of 20 shows 18..20. ok is false when
// totalPages <= 1 (no pagination UI).
func Window(current, totalPages int) (start, end int, ok bool) {
	if totalPages < 0 {
		totalPages = 0
	}
	if totalPages <= 1 {
		return 0, 0, false
	}
	current = clampPage(current, totalPages)

	start = current - WindowSize/2
	if start < 1 {
		start = 1
	}
	end = start + WindowSize - 1
	if end > totalPages {
		end = totalPages
	}
	return start, end, true
}

// Controls translates (current, totalPages) into the ordered control strip:
// an optional prev, the page window, and an optional next.
// An empty slice means no pagination UI should be rendered.
func Controls(current, totalPages int) []Control {
	start, end, ok := Window(current, totalPages)
	if !ok {
		return []Control{}
	}
	current = clampPage(current, totalPages)

	out := make([]Control, 0, end-start+3)
	if current > 1 {
		out = append(out, Control{Kind: KindPrev, Number: current - 1})
	}
	for p := start; p <= end; p++ {
		out = append(out, Control{Kind: KindPage, Number: p, IsActive: p == current})
	}
	if current < totalPages {
		out = append(out, Control{Kind: KindNext, Number: current + 1})
	}
	return out
}

// Controller dispatches a selected control to a reload callback.
// It never fetches anything itself.
type Controller struct {
	Reload func(page int)
}

// Select invokes Reload with the page the control points at.
// A nil Reload makes Select a no-op.
func (c Controller) Select(ctl Control) {
	if c.Reload == nil {
		return
	}
	c.Reload(ctl.Number)
}

// WithLinks returns a copy of controls whose Href points at base with the
// "page" query parameter replaced. Other query parameters (search, status)
// are preserved, so following a link reloads the same filtered list.
func WithLinks(base *url.URL, controls []Control) []Control {
	out := make([]Control, len(controls))
	for i, c := range controls {
		c.Href = PageURL(base, c.Number)
		out[i] = c
	}
	return out
}

// PageURL returns base's request URI with "page" set to page.
func PageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.RequestURI()
}

// PastEnd reports whether a requested page lies beyond the last page of a
// non-empty result.
func PastEnd(page, totalPages int) bool {
	return totalPages > 0 && page > totalPages
}

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func clampPage(current, totalPages int) int {
	hi := totalPages
	if hi < 1 {
		hi = 1
	}
	if current < 1 {
		return 1
	}
	if current > hi {
		return hi
	}
	return current
}
