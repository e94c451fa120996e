package memory

import (
	"context"
	"time"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

type tenantRepo struct {
	s *Store
}

func (r *tenantRepo) Create(_ context.Context, tenant *domain.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.tenants[tenant.ID]; exists {
		return repository.ErrDuplicate
	}
	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	r.s.tenants[tenant.ID] = *tenant
	return nil
}

func (r *tenantRepo) Update(_ context.Context, tenant *domain.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, exists := r.s.tenants[tenant.ID]
	if !exists {
		return repository.ErrNotFound
	}
	tenant.CreatedAt = stored.CreatedAt
	tenant.UpdatedAt = time.Now()
	r.s.tenants[tenant.ID] = *tenant
	return nil
}

func (r *tenantRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.tenants[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.s.tenants, id)
	return nil
}

func (r *tenantRepo) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tenant, exists := r.s.tenants[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &tenant, nil
}

func (r *tenantRepo) IsEmpty(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if user.TenantID != nil && *user.TenantID == id {
			return false, nil
		}
	}
	return true, nil
}

func (r *tenantRepo) GetPage(_ context.Context, marker string, limit int) ([]domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(pageAfter(sortedKeys(r.s.tenants), marker, limit)), nil
}

func (r *tenantRepo) GetPageMarkers(_ context.Context, marker string, limit int) (*string, *string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	prev, next := pageMarkers(sortedKeys(r.s.tenants), marker, limit)
	return prev, next, nil
}

func (r *tenantRepo) GetForUserPage(_ context.Context, userID, marker string, limit int) ([]domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(pageAfter(r.userKeys(userID), marker, limit)), nil
}

func (r *tenantRepo) GetForUserPageMarkers(_ context.Context, userID, marker string, limit int) (*string, *string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	prev, next := pageMarkers(r.userKeys(userID), marker, limit)
	return prev, next, nil
}

// userKeys lists tenants the user is associated with: the default tenant
// plus any tenant-scoped role assignment.
func (r *tenantRepo) userKeys(userID string) []string {
	seen := make(map[string]struct{})
	if user, exists := r.s.users[userID]; exists && user.TenantID != nil {
		seen[*user.TenantID] = struct{}{}
	}
	for _, ref := range r.s.roleRefs {
		if ref.UserID == userID && ref.TenantID != nil {
			seen[*ref.TenantID] = struct{}{}
		}
	}
	var keys []string
	for id := range seen {
		if _, exists := r.s.tenants[id]; exists {
			keys = append(keys, id)
		}
	}
	return sortKeys(keys)
}

func (r *tenantRepo) collect(keys []string) []domain.Tenant {
	result := make([]domain.Tenant, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.s.tenants[key])
	}
	return result
}
