package domain

// Role is a global catalog entry; it is not itself tenant-scoped.
type Role struct {
	ID          string
	Description string
}

// RoleRef assigns a role to a user, either globally (TenantID nil) or within
// a single tenant. Only a global assignment of the admin role confers
// privileged access.
type RoleRef struct {
	ID       string
	UserID   string
	RoleID   string
	TenantID *string
}

// Global reports whether the assignment carries no tenant scope.
func (r RoleRef) Global() bool {
	return r.TenantID == nil
}
