package domain

import "time"

// Token is a bearer credential proving a prior successful authentication.
// TenantID, when set, restricts the token to operations scoped to that
// tenant. Expiry is evaluated against wall-clock time at validation.
type Token struct {
	ID       string
	UserID   string
	TenantID *string
	Expires  time.Time
}

// ExpiredAt reports whether the token is no longer valid at t.
func (t *Token) ExpiredAt(now time.Time) bool {
	return !now.Before(t.Expires)
}
