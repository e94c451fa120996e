package memory

import (
	"context"
	"time"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.users[user.ID]; exists {
		return repository.ErrDuplicate
	}
	for _, existing := range r.s.users {
		if user.Email != "" && existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, exists := r.s.users[user.ID]
	if !exists {
		return repository.ErrNotFound
	}
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.users[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, exists := r.s.users[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByTenant(_ context.Context, id, tenantID string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, exists := r.s.users[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	if user.TenantID != nil && *user.TenantID == tenantID {
		return &user, nil
	}
	for _, ref := range r.s.roleRefs {
		if ref.UserID == id && ref.TenantID != nil && *ref.TenantID == tenantID {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetPage(_ context.Context, marker string, limit int) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(pageAfter(sortedKeys(r.s.users), marker, limit)), nil
}

func (r *userRepo) GetPageMarkers(_ context.Context, marker string, limit int) (*string, *string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	prev, next := pageMarkers(sortedKeys(r.s.users), marker, limit)
	return prev, next, nil
}

func (r *userRepo) GetByTenantPage(_ context.Context, tenantID, marker string, limit int) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(pageAfter(r.tenantKeys(tenantID), marker, limit)), nil
}

func (r *userRepo) GetByTenantPageMarkers(_ context.Context, tenantID, marker string, limit int) (*string, *string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	prev, next := pageMarkers(r.tenantKeys(tenantID), marker, limit)
	return prev, next, nil
}

func (r *userRepo) AddRoleRef(_ context.Context, ref *domain.RoleRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.roleRefs = append(r.s.roleRefs, *ref)
	return nil
}

// tenantKeys applies the same membership predicate as GetByTenant: default
// tenant or a tenant-scoped role assignment.
func (r *userRepo) tenantKeys(tenantID string) []string {
	members := make(map[string]bool)
	for id, user := range r.s.users {
		if user.TenantID != nil && *user.TenantID == tenantID {
			members[id] = true
		}
	}
	for _, ref := range r.s.roleRefs {
		if ref.TenantID != nil && *ref.TenantID == tenantID {
			if _, exists := r.s.users[ref.UserID]; exists {
				members[ref.UserID] = true
			}
		}
	}
	return sortedKeys(members)
}

func (r *userRepo) collect(keys []string) []domain.User {
	result := make([]domain.User, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.s.users[key])
	}
	return result
}
