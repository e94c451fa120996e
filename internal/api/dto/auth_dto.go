package dto

import "time"

// AuthRequest is the authentication payload. Only password credentials are
// supported; the wrapper object names the variant.
type AuthRequest struct {
	PasswordCredentials *PasswordCredentials `json:"passwordCredentials"`
}

// PasswordCredentials carries a username/password pair with an optional
// tenant scope.
type PasswordCredentials struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	TenantID *string `json:"tenantId,omitempty"`
}

// TokenResponse describes an issued or validated token.
type TokenResponse struct {
	ID       string    `json:"id"`
	Expires  time.Time `json:"expires"`
	TenantID *string   `json:"tenantId,omitempty"`
}

// AuthResponse is returned from a successful authentication.
type AuthResponse struct {
	Token     TokenResponse      `json:"token"`
	Endpoints []EndpointResponse `json:"endpoints,omitempty"`
}

// RoleRefResponse describes a role assignment.
type RoleRefResponse struct {
	ID       string  `json:"id"`
	UserID   string  `json:"userId"`
	RoleID   string  `json:"roleId"`
	TenantID *string `json:"tenantId,omitempty"`
}

// ValidatedUserResponse is the owner projection in a validation response.
type ValidatedUserResponse struct {
	ID       string            `json:"id"`
	TenantID *string           `json:"tenantId,omitempty"`
	Roles    []RoleRefResponse `json:"roleRefs"`
}

// ValidateResponse is returned from a successful token validation.
type ValidateResponse struct {
	Token TokenResponse         `json:"token"`
	User  ValidatedUserResponse `json:"user"`
}
