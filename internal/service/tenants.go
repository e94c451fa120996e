package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/pkg/util"
)

// TenantUpdate carries the mutable tenant fields.
type TenantUpdate struct {
	Description string
	Enabled     bool
}

// CreateTenant registers a tenant under a caller-chosen id.
func (s *IdentityService) CreateTenant(ctx context.Context, adminToken string, tenant domain.Tenant) (*domain.Tenant, error) {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tenant.ID) == "" {
		return nil, util.NewValidationError("expecting a unique tenant id", nil)
	}

	if _, err := s.backend.Tenants.GetByID(ctx, tenant.ID); err == nil {
		return nil, util.NewConflict("a tenant with that id already exists", map[string]any{"tenant_id": tenant.ID})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	if err := s.backend.Tenants.Create(ctx, &tenant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("a tenant with that id already exists", map[string]any{"tenant_id": tenant.ID})
		}
		return nil, err
	}

	s.publish(ctx, events.EventTenantCreated, tenant.ID, actor.ID, nil)
	return &tenant, nil
}

// GetTenants lists tenants. Admin callers see a page of all tenants; a caller
// whose token validates but lacks the admin role sees only the tenants they
// belong to. The fallback triggers solely on the unauthorized fault; any
// other admin-check failure propagates unchanged.
func (s *IdentityService) GetTenants(ctx context.Context, callerToken, marker string, limit int, url string) (*domain.Page[domain.Tenant], error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}

	if _, _, err := s.guard.ValidateAdmin(ctx, callerToken); err == nil {
		items, err := s.backend.Tenants.GetPage(ctx, marker, limit)
		if err != nil {
			return nil, err
		}
		prev, next, err := s.backend.Tenants.GetPageMarkers(ctx, marker, limit)
		if err != nil {
			return nil, err
		}
		return page(items, prev, next, url, limit), nil
	} else if !util.IsUnauthorized(err) {
		return nil, err
	}

	_, user, err := s.guard.Validate(ctx, callerToken, nil)
	if err != nil {
		return nil, err
	}
	items, err := s.backend.Tenants.GetForUserPage(ctx, user.ID, marker, limit)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.backend.Tenants.GetForUserPageMarkers(ctx, user.ID, marker, limit)
	if err != nil {
		return nil, err
	}
	return page(items, prev, next, url, limit), nil
}

// GetTenant returns a tenant by id.
func (s *IdentityService) GetTenant(ctx context.Context, adminToken, tenantID string) (*domain.Tenant, error) {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	tenant, err := s.backend.Tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": tenantID}))
	}
	return tenant, nil
}

// UpdateTenant replaces a tenant's description and enabled flag.
func (s *IdentityService) UpdateTenant(ctx context.Context, adminToken, tenantID string, update TenantUpdate) (*domain.Tenant, error) {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}
	tenant, err := s.backend.Tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": tenantID}))
	}

	tenant.Description = update.Description
	tenant.Enabled = update.Enabled
	tenant.UpdatedAt = s.now()
	if err := s.backend.Tenants.Update(ctx, tenant); err != nil {
		return nil, notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": tenantID}))
	}

	s.publish(ctx, events.EventTenantUpdated, tenant.ID, actor.ID, nil)
	return tenant, nil
}

// DeleteTenant removes a tenant. Tenants that still anchor users cannot be
// deleted.
func (s *IdentityService) DeleteTenant(ctx context.Context, adminToken, tenantID string) error {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return err
	}
	if _, err := s.backend.Tenants.GetByID(ctx, tenantID); err != nil {
		return notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": tenantID}))
	}

	empty, err := s.backend.Tenants.IsEmpty(ctx, tenantID)
	if err != nil {
		return err
	}
	if !empty {
		return util.NewPreconditionFailed("tenant is not empty", map[string]any{"tenant_id": tenantID})
	}

	if err := s.backend.Tenants.Delete(ctx, tenantID); err != nil {
		return notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": tenantID}))
	}
	s.publish(ctx, events.EventTenantDeleted, tenantID, actor.ID, nil)
	return nil
}
