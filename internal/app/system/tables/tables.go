// Package tables shapes API records into display-table view models.
//
// Templates only loop over Rows and Cells; every decision about fallback
// text, badges, and which actions an admin may see is made here.
package tables

import (
	"strconv"

	"github.com/dalemusser/garajhub/internal/app/system/authz"
	"github.com/dalemusser/garajhub/internal/app/system/format"
	"github.com/dalemusser/garajhub/internal/domain/models"
)

// Cell is one table cell. Badge, when set, is the CSS status class and the
// cell renders as a status pill.
type Cell struct {
	Text  string
	Badge string
}

// Action kinds.
const (
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Action is a per-row control. Method is GET for links and POST for forms.
type Action struct {
	Kind    string
	Label   string
	Href    string
	Method  string
	Confirm string
}

// Row is either a data row or the single placeholder row of an empty table.
type Row struct {
	Cells   []Cell
	Actions []Action

	Placeholder bool
	Icon        string
	Message     string
}

// Table is the view model of a display table.
type Table struct {
	Columns []string
	Rows    []Row
}

// View pairs a table with the CSRF token its POST actions need, for pages
// that render more than one table through the data_table partial.
type View struct {
	Table     Table
	CSRFToken string
}

// WithCSRF wraps t for the data_table partial.
func (t Table) WithCSRF(token string) View {
	return View{Table: t, CSRFToken: token}
}

// Colspan is the width a placeholder row spans.
func (t Table) Colspan() int { return len(t.Columns) }

// IsEmpty reports whether the table holds only the placeholder row.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 1 && t.Rows[0].Placeholder
}

// Build maps records to rows in order. An empty input yields exactly one
// placeholder row carrying icon and emptyMsg.
func Build[T any](columns []string, records []T, icon, emptyMsg string, row func(T) Row) Table {
	t := Table{Columns: columns}
	if len(records) == 0 {
		t.Rows = []Row{{Placeholder: true, Icon: icon, Message: emptyMsg}}
		return t
	}
	t.Rows = make([]Row, 0, len(records))
	for _, rec := range records {
		t.Rows = append(t.Rows, row(rec))
	}
	return t
}

func text(s string) Cell { return Cell{Text: format.OrDash(s)} }

func badge(status string) Cell {
	if status == "" {
		return Cell{Text: format.Dash}
	}
	return Cell{Text: status, Badge: status}
}

var userColumns = []string{"ID", "First name", "Last name", "Phone", "Joined", "Status", "Actions"}

// Users renders the users table. Every admin may view a user and edit
// their status.
func Users(users []models.User) Table {
	return Build(userColumns, users, "users", "No users found", func(u models.User) Row {
		id := strconv.FormatInt(u.UserID, 10)
		return Row{
			Cells: []Cell{
				{Text: id},
				text(u.FirstName),
				text(u.LastName),
				text(u.Phone),
				{Text: format.Date(u.JoinedAt)},
				badge(u.Status),
			},
			Actions: []Action{
				{Kind: ActionView, Label: "View", Href: "/users/" + id, Method: "GET"},
				{Kind: ActionEdit, Label: "Edit status", Href: "/users/" + id + "/status", Method: "GET"},
			},
		}
	})
}

var startupColumns = []string{"ID", "Name", "Owner", "Status", "Created", "Members", "Actions"}

// Startups renders the startups table. The delete action is only offered
// to superadmins.
func Startups(startups []models.Startup, role string) Table {
	canDelete := authz.IsSuperAdmin(role)
	return Build(startupColumns, startups, "rocket", "No startups found", func(s models.Startup) Row {
		id := strconv.FormatInt(s.StartupID, 10)
		actions := []Action{
			{Kind: ActionView, Label: "View", Href: "/startups/" + id, Method: "GET"},
			{Kind: ActionEdit, Label: "Edit status", Href: "/startups/" + id + "/status", Method: "GET"},
		}
		if canDelete {
			actions = append(actions, Action{
				Kind:    ActionDelete,
				Label:   "Delete",
				Href:    "/startups/" + id + "/delete",
				Method:  "POST",
				Confirm: "Delete this startup? This cannot be undone.",
			})
		}
		return Row{
			Cells: []Cell{
				{Text: id},
				text(s.Name),
				text(s.OwnerName()),
				badge(s.Status),
				{Text: format.Date(s.CreatedAt)},
				{Text: strconv.Itoa(s.MemberCount)},
			},
			Actions: actions,
		}
	})
}

var adminColumns = []string{"ID", "Username", "Full name", "Email", "Role", "Last login"}

// Admins renders the admins table (read-only rows).
func Admins(admins []models.Admin) Table {
	return Build(adminColumns, admins, "user-shield", "No admins found", func(a models.Admin) Row {
		return Row{
			Cells: []Cell{
				{Text: strconv.FormatInt(a.ID, 10)},
				text(a.Username),
				text(a.FullName),
				text(a.Email),
				badge(a.Role),
				{Text: format.DateTime(a.LastLogin)},
			},
		}
	})
}

var memberColumns = []string{"ID", "Name", "Phone", "Status", "Joined"}

// Members renders the member list of a startup detail page.
func Members(members []models.StartupMember) Table {
	return Build(memberColumns, members, "users", "No members yet", func(m models.StartupMember) Row {
		return Row{
			Cells: []Cell{
				{Text: strconv.FormatInt(m.UserID, 10)},
				text(m.FullName()),
				text(m.Phone),
				badge(m.MemberStatus),
				{Text: format.Date(m.JoinedAt)},
			},
			Actions: []Action{
				{Kind: ActionView, Label: "View", Href: "/users/" + strconv.FormatInt(m.UserID, 10), Method: "GET"},
			},
		}
	})
}

var userStartupColumns = []string{"ID", "Name", "Status", "Created", "Actions"}

// UserStartups renders the startups owned by one user.
func UserStartups(startups []models.Startup) Table {
	return Build(userStartupColumns, startups, "rocket", "No startups", func(s models.Startup) Row {
		id := strconv.FormatInt(s.StartupID, 10)
		return Row{
			Cells: []Cell{
				{Text: id},
				text(s.Name),
				badge(s.Status),
				{Text: format.Date(s.CreatedAt)},
			},
			Actions: []Action{
				{Kind: ActionView, Label: "View", Href: "/startups/" + id, Method: "GET"},
			},
		}
	})
}

var joinRequestColumns = []string{"Startup", "Status", "Requested", "Actions"}

// JoinRequests renders a user's startup membership requests.
func JoinRequests(reqs []models.JoinRequest) Table {
	return Build(joinRequestColumns, reqs, "inbox", "No join requests", func(j models.JoinRequest) Row {
		return Row{
			Cells: []Cell{
				text(j.StartupName),
				badge(j.Status),
				{Text: format.Date(j.JoinedAt)},
			},
			Actions: []Action{
				{Kind: ActionView, Label: "View startup", Href: "/startups/" + strconv.FormatInt(j.StartupID, 10), Method: "GET"},
			},
		}
	})
}

// Field is one label/value line of a detail card.
type Field struct {
	Label string
	Value string
}

// UserProfile lists a user's profile fields for the detail page.
func UserProfile(u models.User) []Field {
	return []Field{
		{"ID", strconv.FormatInt(u.UserID, 10)},
		{"Username", format.OrDash(u.Username)},
		{"Phone", format.OrDash(u.Phone)},
		{"Gender", format.OrDash(u.Gender)},
		{"Birth date", format.Date(u.BirthDate)},
		{"Joined", format.Date(u.JoinedAt)},
		{"Status", format.OrDash(format.Title(u.Status))},
		{"Bio", format.OrDash(u.Bio)},
	}
}

// StartupProfile lists a startup's fields for the detail page.
func StartupProfile(s models.Startup) []Field {
	owner := format.OrDash(s.OwnerName())
	if s.OwnerUsername != "" {
		owner += " (@" + s.OwnerUsername + ")"
	}
	return []Field{
		{"ID", strconv.FormatInt(s.StartupID, 10)},
		{"Owner", owner},
		{"Owner phone", format.OrDash(s.OwnerPhone)},
		{"Status", format.OrDash(format.Title(s.Status))},
		{"Created", format.Date(s.CreatedAt)},
		{"Started", format.Date(s.StartedAt)},
		{"Ended", format.Date(s.EndedAt)},
		{"Views", strconv.Itoa(s.Views)},
		{"Members", strconv.Itoa(s.MemberCount)},
		{"Group link", format.OrDash(s.GroupLink)},
		{"Description", format.OrDash(s.Description)},
		{"Results", format.OrDash(s.Results)},
	}
}
