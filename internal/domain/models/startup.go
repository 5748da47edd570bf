// internal/domain/models/startup.go
package models

// Startup statuses accepted by PUT /startups/{id}.
const (
	StartupStatusPending   = "pending"
	StartupStatusActive    = "active"
	StartupStatusCompleted = "completed"
	StartupStatusRejected  = "rejected"
)

// StartupStatuses lists valid startup statuses in display order.
var StartupStatuses = []string{
	StartupStatusPending,
	StartupStatusActive,
	StartupStatusCompleted,
	StartupStatusRejected,
}

// Startup is a startup as returned by the GarajHub API. Owner fields are
// joined in by the list and detail endpoints.
type Startup struct {
	StartupID   int64  `json:"startup_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	GroupLink   string `json:"group_link"`
	OwnerID     int64  `json:"owner_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	StartedAt   string `json:"started_at"`
	EndedAt     string `json:"ended_at"`
	Results     string `json:"results"`
	Views       int    `json:"views"`

	OwnerFirstName string `json:"first_name"`
	OwnerLastName  string `json:"last_name"`
	OwnerUsername  string `json:"owner_username"`
	OwnerPhone     string `json:"owner_phone"`
	MemberCount    int    `json:"member_count"`
}

// OwnerName joins the owner's first and last name.
func (s Startup) OwnerName() string {
	return User{FirstName: s.OwnerFirstName, LastName: s.OwnerLastName}.FullName()
}

// StartupMember is a member row of GET /startups/{id}.
type StartupMember struct {
	User
	MemberStatus string `json:"member_status"`
}

// StartupDetail is the payload of GET /startups/{id}.
type StartupDetail struct {
	Startup Startup         `json:"startup"`
	Members []StartupMember `json:"members"`
}

// StartupList is the payload of GET /startups.
type StartupList struct {
	Startups   []Startup  `json:"startups"`
	Pagination Pagination `json:"pagination"`
}

// StartupUpdate is the body of PUT /startups/{id}. Nil fields are left unchanged.
type StartupUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Results     *string `json:"results,omitempty"`
}
