// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/garajhub/internal/app/store/audit"
	"github.com/dalemusser/garajhub/internal/app/system/paging"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	Timestamp string
	Category  string
	EventType string
	Actor     string
	Target    string
	IP        string
	Success   bool
	Reason    string
	Details   string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Enabled bool
	Items   []listItem

	// Filters
	Category  string
	EventType string
	Actor     string
	StartDate string
	EndDate   string

	// Filter options
	Categories []option
	EventTypes []option

	Pagination []paging.Control
	Total      int64
	Shown      int
}

// option is an entry in a filter dropdown.
type option struct {
	Value    string
	Label    string
	Selected bool
}

// allCategories returns the available categories for filtering.
func allCategories(selected string) []option {
	return []option{
		{Value: audit.CategoryAuth, Label: "Authentication", Selected: selected == audit.CategoryAuth},
		{Value: audit.CategoryAdmin, Label: "Administration", Selected: selected == audit.CategoryAdmin},
		{Value: audit.CategorySystem, Label: "System", Selected: selected == audit.CategorySystem},
	}
}

var (
	authEvents = []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLogout,
	}
	adminEvents = []string{
		audit.EventUserStatusChanged,
		audit.EventStartupStatusChanged,
		audit.EventStartupDeleted,
		audit.EventAdminCreated,
		audit.EventBroadcastSent,
		audit.EventBackupCreated,
		audit.EventExported,
	}
	systemEvents = []string{
		audit.EventScheduledBackup,
	}
)

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case audit.CategorySystem:
		return systemEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents)+len(systemEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		return append(all, systemEvents...)
	default:
		return nil
	}
}

func eventTypeOptions(category, selected string) []option {
	types := eventTypesForCategory(category)
	out := make([]option, 0, len(types))
	for _, t := range types {
		out = append(out, option{Value: t, Label: eventLabel(t), Selected: t == selected})
	}
	return out
}
