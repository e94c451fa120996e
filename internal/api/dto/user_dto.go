package dto

import "time"

// UserCreateRequest is the payload for registering a user.
type UserCreateRequest struct {
	ID       string  `json:"id"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	Enabled  bool    `json:"enabled"`
	TenantID *string `json:"tenantId,omitempty"`
}

// UserUpdateRequest changes a user's email.
type UserUpdateRequest struct {
	Email string `json:"email"`
}

// UserPasswordRequest replaces a user's password.
type UserPasswordRequest struct {
	Password string `json:"password"`
}

// UserEnabledRequest flips a user's enabled flag.
type UserEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// UserTenantRequest moves a user to a different default tenant; a null
// tenant id clears it.
type UserTenantRequest struct {
	TenantID *string `json:"tenantId"`
}

// UserResponse describes a user. The password hash never leaves the service.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Enabled   bool      `json:"enabled"`
	TenantID  *string   `json:"tenantId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
