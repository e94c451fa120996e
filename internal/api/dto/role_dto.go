package dto

// RoleRequest is the payload for creating a role.
type RoleRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// RoleResponse describes a role.
type RoleResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// RoleRefRequest assigns a role to a user, globally when tenantId is absent.
type RoleRefRequest struct {
	RoleID   string  `json:"roleId"`
	TenantID *string `json:"tenantId,omitempty"`
}
