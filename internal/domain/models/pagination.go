// internal/domain/models/pagination.go
package models

// Pagination is the page block attached to list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
