package domain

import "time"

// User is the domain model for identity accounts. TenantID is the user's
// default tenant; nil means the user is not bound to any tenant.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Enabled      bool
	TenantID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
