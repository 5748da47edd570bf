// internal/app/features/users/types.go
package users

import (
	"strconv"

	"github.com/dalemusser/garajhub/internal/app/system/paging"
	"github.com/dalemusser/garajhub/internal/app/system/tables"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/garajhub/internal/domain/models"
)

type statusOption struct {
	Value    string
	Label    string
	Selected bool
}

type listData struct {
	viewdata.BaseVM

	Table      tables.Table
	Pagination []paging.Control
	Page       paging.Descriptor
	Total      int

	Search   string
	Status   string
	Statuses []statusOption
}

type viewData struct {
	viewdata.BaseVM

	User         models.User
	Heading      string
	StatusLabel  string
	Profile      []tables.Field
	Startups     tables.View
	JoinRequests tables.View
}

type statusFormData struct {
	viewdata.BaseVM

	User     models.User
	Heading  string
	Statuses []statusOption
	Return   string
}

// heading is the user's name, or "User #id" when both names are blank.
func heading(u models.User) string {
	if n := u.FullName(); n != "" {
		return n
	}
	return "User #" + strconv.FormatInt(u.UserID, 10)
}
