// internal/domain/models/user.go
package models

// User statuses accepted by PUT /users/{id}/status.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBanned   = "banned"
)

// UserStatuses lists valid user statuses in display order.
var UserStatuses = []string{UserStatusActive, UserStatusInactive, UserStatusBanned}

// User is a platform (bot) user as returned by the GarajHub API.
//
// Timestamps are kept as the API sends them; format.Date renders them.
type User struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birth_date"`
	Bio       string `json:"bio"`
	JoinedAt  string `json:"joined_at"`
	Status    string `json:"status"`
}

// FullName joins first and last name, skipping blanks.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// JoinRequest is a user's membership record in a startup.
type JoinRequest struct {
	ID          int64  `json:"id"`
	StartupID   int64  `json:"startup_id"`
	UserID      int64  `json:"user_id"`
	StartupName string `json:"startup_name"`
	Status      string `json:"status"`
	JoinedAt    string `json:"joined_at"`
}

// UserDetail is the payload of GET /users/{id}.
type UserDetail struct {
	User         User          `json:"user"`
	Startups     []Startup     `json:"startups"`
	JoinRequests []JoinRequest `json:"join_requests"`
}

// UserList is the payload of GET /users.
type UserList struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}
