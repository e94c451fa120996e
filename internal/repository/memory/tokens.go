package memory

import (
	"context"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

type tokenRepo struct {
	s *Store
}

func (r *tokenRepo) Create(_ context.Context, token *domain.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.tokens[token.ID]; exists {
		return repository.ErrDuplicate
	}
	r.s.tokens[token.ID] = *token
	return nil
}

func (r *tokenRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.tokens[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.s.tokens, id)
	return nil
}

func (r *tokenRepo) GetByID(_ context.Context, id string) (*domain.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	token, exists := r.s.tokens[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &token, nil
}

func (r *tokenRepo) GetForUser(_ context.Context, userID string) (*domain.Token, error) {
	return r.find(func(t domain.Token) bool {
		return t.UserID == userID && t.TenantID == nil
	})
}

func (r *tokenRepo) GetForUserByTenant(_ context.Context, userID, tenantID string) (*domain.Token, error) {
	return r.find(func(t domain.Token) bool {
		return t.UserID == userID && t.TenantID != nil && *t.TenantID == tenantID
	})
}

// find returns the latest-expiring matching token; concurrent authenticates
// may leave more than one live token per user.
func (r *tokenRepo) find(match func(domain.Token) bool) (*domain.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var best *domain.Token
	for _, token := range r.s.tokens {
		if !match(token) {
			continue
		}
		if best == nil || token.Expires.After(best.Expires) {
			t := token
			best = &t
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}
