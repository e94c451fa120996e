package dto

import "time"

// TenantRequest is the payload for creating or updating a tenant. The id is
// caller-chosen on create and ignored on update.
type TenantRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// TenantResponse describes a tenant.
type TenantResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LinkResponse is a pagination link.
type LinkResponse struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}
