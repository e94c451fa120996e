package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

type roleRepo struct {
	s *Store
}

func (r *roleRepo) Create(_ context.Context, role *domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.roles[role.ID]; exists {
		return repository.ErrDuplicate
	}
	r.s.roles[role.ID] = *role
	return nil
}

func (r *roleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, exists := r.s.roles[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &role, nil
}

func (r *roleRepo) GetPage(_ context.Context, marker string, limit int) ([]domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	keys := pageAfter(sortedKeys(r.s.roles), marker, limit)
	result := make([]domain.Role, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.s.roles[key])
	}
	return result, nil
}

func (r *roleRepo) GetPageMarkers(_ context.Context, marker string, limit int) (*string, *string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	prev, next := pageMarkers(sortedKeys(r.s.roles), marker, limit)
	return prev, next, nil
}

func (r *roleRepo) GetRef(_ context.Context, refID string) (*domain.RoleRef, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, ref := range r.s.roleRefs {
		if ref.ID == refID {
			out := ref
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *roleRepo) DeleteRef(_ context.Context, refID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, ref := range r.s.roleRefs {
		if ref.ID == refID {
			r.s.roleRefs = append(r.s.roleRefs[:i], r.s.roleRefs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *roleRepo) GetGlobalRefs(_ context.Context, userID string) ([]domain.RoleRef, error) {
	return r.filterRefs(func(ref domain.RoleRef) bool {
		return ref.UserID == userID && ref.TenantID == nil
	}), nil
}

func (r *roleRepo) GetTenantRefs(_ context.Context, userID, tenantID string) ([]domain.RoleRef, error) {
	return r.filterRefs(func(ref domain.RoleRef) bool {
		return ref.UserID == userID && ref.TenantID != nil && *ref.TenantID == tenantID
	}), nil
}

func (r *roleRepo) GetRefPage(_ context.Context, userID, marker string, limit int) ([]domain.RoleRef, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byID, keys := r.userRefIndex(userID)
	page := pageAfter(keys, marker, limit)
	result := make([]domain.RoleRef, 0, len(page))
	for _, key := range page {
		result = append(result, byID[key])
	}
	return result, nil
}

func (r *roleRepo) GetRefPageMarkers(_ context.Context, userID, marker string, limit int) (*string, *string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, keys := r.userRefIndex(userID)
	prev, next := pageMarkers(keys, marker, limit)
	return prev, next, nil
}

func (r *roleRepo) filterRefs(match func(domain.RoleRef) bool) []domain.RoleRef {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.RoleRef
	for _, ref := range r.s.roleRefs {
		if match(ref) {
			result = append(result, ref)
		}
	}
	return result
}

func (r *roleRepo) userRefIndex(userID string) (map[string]domain.RoleRef, []string) {
	byID := make(map[string]domain.RoleRef)
	var keys []string
	for _, ref := range r.s.roleRefs {
		if ref.UserID == userID {
			byID[ref.ID] = ref
			keys = append(keys, ref.ID)
		}
	}
	sort.Strings(keys)
	return byID, keys
}
