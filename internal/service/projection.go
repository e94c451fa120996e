package service

import (
	"context"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

// projectRoles derives the role references visible for a validated
// (token, user) pair: tenant-scoped assignments first when the token carries
// a scope, then global assignments. Backend iteration order is preserved;
// no re-sorting.
func projectRoles(ctx context.Context, roles repository.RoleRepository, token *domain.Token, user *domain.User) ([]domain.RoleRef, error) {
	var refs []domain.RoleRef
	if token.TenantID != nil {
		scoped, err := roles.GetTenantRefs(ctx, user.ID, *token.TenantID)
		if err != nil {
			return nil, err
		}
		refs = append(refs, scoped...)
	}
	global, err := roles.GetGlobalRefs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	refs = append(refs, global...)
	return refs, nil
}
