package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

// TokenLifecycle mints and reuses tokens. Reuse-or-create is a check-then-act
// sequence without a mutex; two concurrent authenticates for the same user
// may both mint, which validation tolerates (any individually valid token
// passes).
type TokenLifecycle struct {
	tokens repository.TokenRepository
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenLifecycle builds the lifecycle manager.
func NewTokenLifecycle(tokens repository.TokenRepository, ttl time.Duration, now func() time.Time) *TokenLifecycle {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &TokenLifecycle{tokens: tokens, ttl: ttl, now: now}
}

// IssueOrReuse returns a live token for the user, reusing an unexpired one
// when present. The lookup is scoped to the tenant only when the caller
// requested a tenant scope. Expired tokens are superseded, not deleted.
// The second return reports whether an existing token was reused.
func (l *TokenLifecycle) IssueOrReuse(ctx context.Context, userID string, tenantScope *string) (*domain.Token, bool, error) {
	var (
		existing *domain.Token
		err      error
	)
	if tenantScope == nil {
		existing, err = l.tokens.GetForUser(ctx, userID)
	} else {
		existing, err = l.tokens.GetForUserByTenant(ctx, userID, *tenantScope)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	now := l.now()
	if existing != nil && now.Before(existing.Expires) {
		return existing, true, nil
	}

	token := &domain.Token{
		ID:      uuid.NewString(),
		UserID:  userID,
		Expires: now.Add(l.ttl),
	}
	if tenantScope != nil {
		scope := *tenantScope
		token.TenantID = &scope
	}
	if err := l.tokens.Create(ctx, token); err != nil {
		return nil, false, err
	}
	return token, false, nil
}
