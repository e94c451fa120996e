package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/pkg/util"
)

// CreateRole registers a role under a caller-chosen id.
func (s *IdentityService) CreateRole(ctx context.Context, adminToken string, role domain.Role) (*domain.Role, error) {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(role.ID) == "" {
		return nil, util.NewValidationError("expecting a unique role id", nil)
	}

	if _, err := s.backend.Roles.GetByID(ctx, role.ID); err == nil {
		return nil, util.NewConflict("a role with that id already exists", map[string]any{"role_id": role.ID})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if err := s.backend.Roles.Create(ctx, &role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("a role with that id already exists", map[string]any{"role_id": role.ID})
		}
		return nil, err
	}

	s.publish(ctx, events.EventRoleCreated, role.ID, actor.ID, nil)
	return &role, nil
}

// GetRoles lists all roles as a page.
func (s *IdentityService) GetRoles(ctx context.Context, adminToken, marker string, limit int, url string) (*domain.Page[domain.Role], error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}

	items, err := s.backend.Roles.GetPage(ctx, marker, limit)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.backend.Roles.GetPageMarkers(ctx, marker, limit)
	if err != nil {
		return nil, err
	}
	return page(items, prev, next, url, limit), nil
}

// GetRole returns a role by id.
func (s *IdentityService) GetRole(ctx context.Context, adminToken, roleID string) (*domain.Role, error) {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	role, err := s.backend.Roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, notFoundAs(err, util.NewNotFound("role", map[string]any{"role_id": roleID}))
	}
	return role, nil
}

// CreateRoleRef assigns a role to a user, globally when tenantID is nil or
// scoped to a tenant otherwise. User, role, and tenant must all exist.
func (s *IdentityService) CreateRoleRef(ctx context.Context, adminToken, userID, roleID string, tenantID *string) (*domain.RoleRef, error) {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.backend.Users.GetByID(ctx, userID); err != nil {
		return nil, notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}
	if roleID == "" {
		return nil, util.NewValidationError("expecting a role id", nil)
	}
	if _, err := s.backend.Roles.GetByID(ctx, roleID); err != nil {
		return nil, notFoundAs(err, util.NewNotFound("role", map[string]any{"role_id": roleID}))
	}
	if tenantID != nil {
		if _, err := s.backend.Tenants.GetByID(ctx, *tenantID); err != nil {
			return nil, notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": *tenantID}))
		}
	}

	ref := &domain.RoleRef{
		ID:       uuid.NewString(),
		UserID:   userID,
		RoleID:   roleID,
		TenantID: tenantID,
	}
	if err := s.backend.Users.AddRoleRef(ctx, ref); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("role already assigned", map[string]any{"user_id": userID, "role_id": roleID})
		}
		return nil, err
	}

	s.publish(ctx, events.EventRoleRefCreated, ref.ID, actor.ID, tenantID)
	return ref, nil
}

// DeleteRoleRef removes a role assignment by its ref id.
func (s *IdentityService) DeleteRoleRef(ctx context.Context, adminToken, refID string) error {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return err
	}
	ref, err := s.backend.Roles.GetRef(ctx, refID)
	if err != nil {
		return notFoundAs(err, util.NewNotFound("role ref", map[string]any{"ref_id": refID}))
	}

	if err := s.backend.Roles.DeleteRef(ctx, ref.ID); err != nil {
		return notFoundAs(err, util.NewNotFound("role ref", map[string]any{"ref_id": refID}))
	}
	s.publish(ctx, events.EventRoleRefDeleted, ref.ID, actor.ID, ref.TenantID)
	return nil
}

// GetUserRoles lists a user's role assignments, global and tenant-scoped
// alike, as a page.
func (s *IdentityService) GetUserRoles(ctx context.Context, adminToken, userID, marker string, limit int, url string) (*domain.Page[domain.RoleRef], error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	if _, err := s.backend.Users.GetByID(ctx, userID); err != nil {
		return nil, notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}

	items, err := s.backend.Roles.GetRefPage(ctx, userID, marker, limit)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.backend.Roles.GetRefPageMarkers(ctx, userID, marker, limit)
	if err != nil {
		return nil, err
	}
	return page(items, prev, next, url, limit), nil
}
