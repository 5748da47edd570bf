// internal/app/features/startups/types.go
package startups

import (
	"strconv"

	"github.com/dalemusser/garajhub/internal/app/system/format"
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

func statusOptions(selected string) []statusOption {
	out := make([]statusOption, 0, len(models.StartupStatuses))
	for _, s := range models.StartupStatuses {
		out = append(out, statusOption{Value: s, Label: format.Title(s), Selected: s == selected})
	}
	return out
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

	Startup     models.Startup
	Heading     string
	StatusLabel string
	Profile     []tables.Field
	Members     tables.View
	MemberCount int
	CanDelete   bool
}

type statusFormData struct {
	viewdata.BaseVM

	Startup  models.Startup
	Heading  string
	Statuses []statusOption
	Return   string
}

func heading(s models.Startup) string {
	if s.Name != "" {
		return s.Name
	}
	return "Startup #" + strconv.FormatInt(s.StartupID, 10)
}
