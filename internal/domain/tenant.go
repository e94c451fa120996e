package domain

import "time"

// Tenant is an isolation boundary grouping users, roles and endpoints.
// A disabled tenant invalidates every token scoped to it.
type Tenant struct {
	ID          string
	Description string
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
