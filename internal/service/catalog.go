package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/pkg/util"
)

// CreateService registers a catalog service under a caller-chosen id.
func (s *IdentityService) CreateService(ctx context.Context, adminToken string, svc domain.Service) (*domain.Service, error) {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	if strings.TrimSpace(svc.ID) == "" {
		return nil, util.NewValidationError("expecting a unique service id", nil)
	}

	if _, err := s.backend.Services.GetByID(ctx, svc.ID); err == nil {
		return nil, util.NewConflict("a service with that id already exists", map[string]any{"service_id": svc.ID})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if err := s.backend.Services.Create(ctx, &svc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("a service with that id already exists", map[string]any{"service_id": svc.ID})
		}
		return nil, err
	}
	return &svc, nil
}

// GetServices lists catalog services as a page.
func (s *IdentityService) GetServices(ctx context.Context, adminToken, marker string, limit int, url string) (*domain.Page[domain.Service], error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}

	items, err := s.backend.Services.GetPage(ctx, marker, limit)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.backend.Services.GetPageMarkers(ctx, marker, limit)
	if err != nil {
		return nil, err
	}
	return page(items, prev, next, url, limit), nil
}

// GetService returns a catalog service by id.
func (s *IdentityService) GetService(ctx context.Context, adminToken, serviceID string) (*domain.Service, error) {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	svc, err := s.backend.Services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, notFoundAs(err, util.NewNotFound("service", map[string]any{"service_id": serviceID}))
	}
	return svc, nil
}

// DeleteService removes a catalog service.
func (s *IdentityService) DeleteService(ctx context.Context, adminToken, serviceID string) error {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return err
	}
	if _, err := s.backend.Services.GetByID(ctx, serviceID); err != nil {
		return notFoundAs(err, util.NewNotFound("service", map[string]any{"service_id": serviceID}))
	}
	if err := s.backend.Services.Delete(ctx, serviceID); err != nil {
		return notFoundAs(err, util.NewNotFound("service", map[string]any{"service_id": serviceID}))
	}
	return nil
}

// CreateEndpointTemplate registers an endpoint template. An empty id gets a
// generated one.
func (s *IdentityService) CreateEndpointTemplate(ctx context.Context, adminToken string, tmpl domain.EndpointTemplate) (*domain.EndpointTemplate, error) {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}

	if err := s.backend.Endpoints.CreateTemplate(ctx, &tmpl); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("an endpoint template with that id already exists", map[string]any{"template_id": tmpl.ID})
		}
		return nil, err
	}
	return &tmpl, nil
}

// GetEndpointTemplates lists endpoint templates as a page.
func (s *IdentityService) GetEndpointTemplates(ctx context.Context, adminToken, marker string, limit int, url string) (*domain.Page[domain.EndpointTemplate], error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}

	items, err := s.backend.Endpoints.GetTemplatePage(ctx, marker, limit)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.backend.Endpoints.GetTemplatePageMarkers(ctx, marker, limit)
	if err != nil {
		return nil, err
	}
	return page(items, prev, next, url, limit), nil
}

// GetEndpointTemplate returns an endpoint template by id.
func (s *IdentityService) GetEndpointTemplate(ctx context.Context, adminToken, templateID string) (*domain.EndpointTemplate, error) {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	tmpl, err := s.backend.Endpoints.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, notFoundAs(err, util.NewNotFound("endpoint template", map[string]any{"template_id": templateID}))
	}
	return tmpl, nil
}

// DeleteEndpointTemplate removes an endpoint template.
func (s *IdentityService) DeleteEndpointTemplate(ctx context.Context, adminToken, templateID string) error {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return err
	}
	if _, err := s.backend.Endpoints.GetTemplate(ctx, templateID); err != nil {
		return notFoundAs(err, util.NewNotFound("endpoint template", map[string]any{"template_id": templateID}))
	}
	if err := s.backend.Endpoints.DeleteTemplate(ctx, templateID); err != nil {
		return notFoundAs(err, util.NewNotFound("endpoint template", map[string]any{"template_id": templateID}))
	}
	return nil
}

// GetTenantEndpoints lists the endpoints mapped onto a tenant as a page.
func (s *IdentityService) GetTenantEndpoints(ctx context.Context, adminToken, tenantID, marker string, limit int, url string) (*domain.Page[domain.Endpoint], error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	if tenantID == "" {
		return nil, util.NewValidationError("expecting a tenant id", nil)
	}
	if _, err := s.backend.Tenants.GetByID(ctx, tenantID); err != nil {
		return nil, notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": tenantID}))
	}

	items, err := s.backend.Endpoints.GetByTenantPage(ctx, tenantID, marker, limit)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.backend.Endpoints.GetByTenantPageMarkers(ctx, tenantID, marker, limit)
	if err != nil {
		return nil, err
	}
	return page(items, prev, next, url, limit), nil
}

// CreateEndpointForTenant maps an endpoint template onto a tenant, making
// its endpoints part of the tenant's catalog.
func (s *IdentityService) CreateEndpointForTenant(ctx context.Context, adminToken, tenantID, templateID string) (*domain.Endpoint, error) {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	if tenantID == "" {
		return nil, util.NewValidationError("expecting a tenant id", nil)
	}
	if _, err := s.backend.Tenants.GetByID(ctx, tenantID); err != nil {
		return nil, notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": tenantID}))
	}
	if _, err := s.backend.Endpoints.GetTemplate(ctx, templateID); err != nil {
		return nil, notFoundAs(err, util.NewNotFound("endpoint template", map[string]any{"template_id": templateID}))
	}

	endpoint := &domain.Endpoint{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		TemplateID: templateID,
	}
	if err := s.backend.Endpoints.AddEndpoint(ctx, endpoint); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("endpoint already mapped", map[string]any{"tenant_id": tenantID, "template_id": templateID})
		}
		return nil, err
	}
	return endpoint, nil
}

// DeleteEndpoint removes a tenant endpoint mapping.
func (s *IdentityService) DeleteEndpoint(ctx context.Context, adminToken, endpointID string) error {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return err
	}
	if _, err := s.backend.Endpoints.GetEndpoint(ctx, endpointID); err != nil {
		return notFoundAs(err, util.NewNotFound("endpoint", map[string]any{"endpoint_id": endpointID}))
	}
	if err := s.backend.Endpoints.DeleteEndpoint(ctx, endpointID); err != nil {
		return notFoundAs(err, util.NewNotFound("endpoint", map[string]any{"endpoint_id": endpointID}))
	}
	return nil
}
