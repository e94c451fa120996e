package domain

// Credentials is the sealed set of credential variants accepted by
// Authenticate. Variants are distinguished once, at the boundary, rather
// than duck-typed per operation.
type Credentials interface {
	credentialKind() string
}

// PasswordCredentials authenticates a user by username and plaintext
// password, optionally scoped to a tenant. The plaintext exists only for the
// duration of the call and is never persisted.
type PasswordCredentials struct {
	Username string
	Password string
	TenantID *string
}

func (PasswordCredentials) credentialKind() string { return "passwordCredentials" }
