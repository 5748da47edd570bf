// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/domain/models"
)

// normalize lowercases and trims a role for comparison.
func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// IsSuperAdmin reports whether role is the superadmin role.
func IsSuperAdmin(role string) bool {
	return normalize(role) == models.RoleSuperAdmin
}

// IsAdmin reports whether role may use the dashboard at all.
// Superadmins are also admins.
func IsAdmin(role string) bool {
	r := normalize(role)
	return r == models.RoleAdmin || r == models.RoleSuperAdmin
}

// Role returns the signed-in admin's role (lowercased) and whether an
// admin is present.
func Role(r *http.Request) (string, bool) {
	a, ok := auth.CurrentAdmin(r)
	if !ok {
		return "", false
	}
	return normalize(a.Role), true
}

// HasAnyRole reports whether the signed-in admin has any of the given roles.
// Returns false if no admin is signed in.
func HasAnyRole(r *http.Request, roles ...string) bool {
	cur, ok := Role(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if cur == normalize(want) {
			return true
		}
	}
	return false
}

// CanDeleteStartups reports whether the request's admin may delete startups.
func CanDeleteStartups(r *http.Request) bool {
	return HasAnyRole(r, models.RoleSuperAdmin)
}

// CanManageAdmins reports whether the request's admin may list and create admins.
func CanManageAdmins(r *http.Request) bool {
	return HasAnyRole(r, models.RoleSuperAdmin)
}

// CanBackup reports whether the request's admin may create database backups.
func CanBackup(r *http.Request) bool {
	return HasAnyRole(r, models.RoleSuperAdmin)
}
