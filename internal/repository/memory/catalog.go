package memory

import (
	"context"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

type serviceRepo struct {
	s *Store
}

func (r *serviceRepo) Create(_ context.Context, svc *domain.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.services[svc.ID]; exists {
		return repository.ErrDuplicate
	}
	r.s.services[svc.ID] = *svc
	return nil
}

func (r *serviceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.services[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.s.services, id)
	return nil
}

func (r *serviceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	svc, exists := r.s.services[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &svc, nil
}

func (r *serviceRepo) GetPage(_ context.Context, marker string, limit int) ([]domain.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	keys := pageAfter(sortedKeys(r.s.services), marker, limit)
	result := make([]domain.Service, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.s.services[key])
	}
	return result, nil
}

func (r *serviceRepo) GetPageMarkers(_ context.Context, marker string, limit int) (*string, *string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	prev, next := pageMarkers(sortedKeys(r.s.services), marker, limit)
	return prev, next, nil
}

type endpointRepo struct {
	s *Store
}

func (r *endpointRepo) CreateTemplate(_ context.Context, tmpl *domain.EndpointTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.templates[tmpl.ID]; exists {
		return repository.ErrDuplicate
	}
	r.s.templates[tmpl.ID] = *tmpl
	return nil
}

func (r *endpointRepo) DeleteTemplate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.templates[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.s.templates, id)
	return nil
}

func (r *endpointRepo) GetTemplate(_ context.Context, id string) (*domain.EndpointTemplate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tmpl, exists := r.s.templates[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &tmpl, nil
}

func (r *endpointRepo) GetTemplatePage(_ context.Context, marker string, limit int) ([]domain.EndpointTemplate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	keys := pageAfter(sortedKeys(r.s.templates), marker, limit)
	result := make([]domain.EndpointTemplate, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.s.templates[key])
	}
	return result, nil
}

func (r *endpointRepo) GetTemplatePageMarkers(_ context.Context, marker string, limit int) (*string, *string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	prev, next := pageMarkers(sortedKeys(r.s.templates), marker, limit)
	return prev, next, nil
}

func (r *endpointRepo) AddEndpoint(_ context.Context, endpoint *domain.Endpoint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.endpoints[endpoint.ID]; exists {
		return repository.ErrDuplicate
	}
	r.s.endpoints[endpoint.ID] = *endpoint
	return nil
}

func (r *endpointRepo) DeleteEndpoint(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.endpoints[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.s.endpoints, id)
	return nil
}

func (r *endpointRepo) GetEndpoint(_ context.Context, id string) (*domain.Endpoint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	endpoint, exists := r.s.endpoints[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &endpoint, nil
}

func (r *endpointRepo) GetAllByTenant(_ context.Context, tenantID string) ([]domain.Endpoint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	keys := r.tenantKeys(tenantID)
	result := make([]domain.Endpoint, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.s.endpoints[key])
	}
	return result, nil
}

func (r *endpointRepo) GetByTenantPage(_ context.Context, tenantID, marker string, limit int) ([]domain.Endpoint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	keys := pageAfter(r.tenantKeys(tenantID), marker, limit)
	result := make([]domain.Endpoint, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.s.endpoints[key])
	}
	return result, nil
}

func (r *endpointRepo) GetByTenantPageMarkers(_ context.Context, tenantID, marker string, limit int) (*string, *string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	prev, next := pageMarkers(r.tenantKeys(tenantID), marker, limit)
	return prev, next, nil
}

func (r *endpointRepo) tenantKeys(tenantID string) []string {
	var keys []string
	for id, endpoint := range r.s.endpoints {
		if endpoint.TenantID == tenantID {
			keys = append(keys, id)
		}
	}
	return sortKeys(keys)
}
