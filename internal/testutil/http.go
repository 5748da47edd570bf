package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// AdminUser returns a signed-in admin with the plain admin role.
func AdminUser() *auth.SessionAdmin {
	return &auth.SessionAdmin{
		ID:       2,
		Username: "admin",
		FullName: "Test Admin",
		Email:    "admin@test.com",
		Role:     models.RoleAdmin,
		Token:    "admin-token",
	}
}

// SuperAdminUser returns a signed-in admin with the superadmin role.
func SuperAdminUser() *auth.SessionAdmin {
	return &auth.SessionAdmin{
		ID:       1,
		Username: "root",
		FullName: "Test Superadmin",
		Email:    "root@test.com",
		Role:     models.RoleSuperAdmin,
		Token:    "root-token",
	}
}

// WithAdmin adds an admin to the request context for testing authenticated
// handlers, bypassing the session middleware.
func WithAdmin(r *http.Request, a *auth.SessionAdmin) *http.Request {
	return auth.WithTestAdmin(r, a)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewFormRequest creates a urlencoded form POST.
func NewFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RunIgnoringRender calls fn and swallows a panic from template rendering.
// Handler tests run without a booted template engine, so a handler that
// reaches templates.Render may panic after its logic has already run.
func RunIgnoringRender(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
