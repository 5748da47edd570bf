// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the page title and sidebar.
const SiteName = "GarajHub Admin"

// UI themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// themeCookie is the name of the long-lived theme preference cookie.
// Bootstrap may override it from configuration via SetThemeCookie.
var themeCookie = "garajhub_theme"

// SetThemeCookie sets the theme cookie name. Call once at startup.
func SetThemeCookie(name string) {
	if strings.TrimSpace(name) != "" {
		themeCookie = name
	}
}

// Theme returns the request's theme preference, defaulting to light.
func Theme(r *http.Request) string {
	c, err := r.Cookie(themeCookie)
	if err != nil || c.Value != ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ToggleTheme flips the theme preference cookie and returns the new theme.
func ToggleTheme(w http.ResponseWriter, r *http.Request) string {
	next := ThemeDark
	if Theme(r) == ThemeDark {
		next = ThemeLight
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    next,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return next
}

// NavItem is one sidebar entry.
type NavItem struct {
	Label  string
	Href   string
	Icon   string
	Active bool
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// Admin context (from auth middleware)
	IsLoggedIn   bool
	IsSuperAdmin bool
	Role         string
	UserName     string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Theme       string
	Nav         []NavItem

	// CSRF protection
	CSRFToken string

	// One-shot toast
	Flash *auth.Flash
}

// NewBaseVM creates a fully populated BaseVM for a page. The flash, if
// any, is not loaded here; see WithFlash.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		Theme:       Theme(r),
		CSRFToken:   csrf.Token(r),
	}
	if a, ok := auth.CurrentAdmin(r); ok {
		vm.IsLoggedIn = true
		vm.IsSuperAdmin = a.IsSuperAdmin()
		vm.Role = strings.ToLower(a.Role)
		vm.UserName = a.DisplayName()
		vm.Nav = Navigation(vm.CurrentPath, vm.IsSuperAdmin)
	}
	return vm
}

// WithFlash pops the session's queued toast into vm.
func WithFlash(vm BaseVM, sm *auth.SessionManager, w http.ResponseWriter, r *http.Request) BaseVM {
	if sm == nil {
		return vm
	}
	if f, ok := sm.PopFlash(w, r); ok {
		vm.Flash = &f
	}
	return vm
}

// Navigation returns the sidebar for an admin. Superadmin-only sections
// are omitted for plain admins.
func Navigation(currentPath string, superAdmin bool) []NavItem {
	items := []NavItem{
		{Label: "Dashboard", Href: "/dashboard", Icon: "gauge"},
		{Label: "Users", Href: "/users", Icon: "users"},
		{Label: "Startups", Href: "/startups", Icon: "rocket"},
		{Label: "Statistics", Href: "/statistics", Icon: "chart-line"},
		{Label: "Broadcast", Href: "/broadcast", Icon: "bullhorn"},
	}
	if superAdmin {
		items = append(items,
			NavItem{Label: "Admins", Href: "/admins", Icon: "user-shield"},
			NavItem{Label: "Backup", Href: "/backup", Icon: "database"},
		)
	}
	for i := range items {
		href := items[i].Href
		items[i].Active = currentPath == href || strings.HasPrefix(currentPath, href+"/")
	}
	return items
}
