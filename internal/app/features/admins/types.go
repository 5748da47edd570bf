// internal/app/features/admins/types.go
package admins

import (
	"github.com/dalemusser/garajhub/internal/app/system/format"
	"github.com/dalemusser/garajhub/internal/app/system/tables"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/garajhub/internal/domain/models"
)

type listData struct {
	viewdata.BaseVM

	Table tables.Table
	Count int
}

type roleOption struct {
	Value    string
	Label    string
	Selected bool
}

// formData carries the new-admin form. Password is never echoed back.
type formData struct {
	viewdata.BaseVM

	Username string
	FullName string
	Email    string
	Role     string
	Roles    []roleOption

	Error       string
	FieldErrors map[string]string
}

func roleOptions(selected string) []roleOption {
	roles := []string{models.RoleAdmin, models.RoleSuperAdmin}
	out := make([]roleOption, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleOption{Value: r, Label: format.Title(r), Selected: r == selected})
	}
	return out
}
