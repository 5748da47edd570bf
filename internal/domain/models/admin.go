// internal/domain/models/admin.go
package models

// Admin roles. Only superadmins may delete startups, manage admins,
// and create backups.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Admin is a dashboard operator account.
type Admin struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
	LastLogin string `json:"last_login,omitempty"`
}

// AdminCreate is the body of POST /admins.
type AdminCreate struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=admin superadmin"`
}

// AdminCreated is the response of POST /admins.
type AdminCreated struct {
	Message string `json:"message"`
	AdminID int64  `json:"admin_id"`
}

// AdminList is the payload of GET /admins.
type AdminList struct {
	Admins []Admin `json:"admins"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response of POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Admin       Admin  `json:"admin"`
}
