// internal/domain/models/broadcast.go
package models

// Broadcast recipient groups understood by POST /broadcast.
const (
	AudienceAll            = "all"
	AudienceStartupOwners  = "startup_owners"
	AudienceStartupMembers = "startup_members"
)

// Audiences lists the broadcast recipient groups in display order.
var Audiences = []string{AudienceAll, AudienceStartupOwners, AudienceStartupMembers}

// BroadcastMessage is the body of POST /broadcast.
type BroadcastMessage struct {
	Message  string `json:"message" validate:"required,max=4000"`
	UserType string `json:"user_type" validate:"required,oneof=all startup_owners startup_members"`
}

// BackupResult is the response of GET /backup.
type BackupResult struct {
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
}

// MessageResponse is the generic {"message": "..."} response.
type MessageResponse struct {
	Message string `json:"message"`
}
