package repository

import (
	"context"

	"github.com/spec-kit/identity-service/internal/domain"
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByTenant resolves a user only when it belongs to the tenant, either
	// as its default tenant or through a tenant-scoped role assignment.
	GetByTenant(ctx context.Context, id, tenantID string) (*domain.User, error)
	GetPage(ctx context.Context, marker string, limit int) ([]domain.User, error)
	GetPageMarkers(ctx context.Context, marker string, limit int) (prev, next *string, err error)
	GetByTenantPage(ctx context.Context, tenantID, marker string, limit int) ([]domain.User, error)
	GetByTenantPageMarkers(ctx context.Context, tenantID, marker string, limit int) (prev, next *string, err error)
	AddRoleRef(ctx context.Context, ref *domain.RoleRef) error
}

// TenantRepository defines persistence access for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	Update(ctx context.Context, tenant *domain.Tenant) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	// IsEmpty reports whether no user belongs to the tenant.
	IsEmpty(ctx context.Context, id string) (bool, error)
	GetPage(ctx context.Context, marker string, limit int) ([]domain.Tenant, error)
	GetPageMarkers(ctx context.Context, marker string, limit int) (prev, next *string, err error)
	GetForUserPage(ctx context.Context, userID, marker string, limit int) ([]domain.Tenant, error)
	GetForUserPageMarkers(ctx context.Context, userID, marker string, limit int) (prev, next *string, err error)
}

// TokenRepository defines persistence access for tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Token, error)
	// GetForUser returns the user's unscoped token.
	GetForUser(ctx context.Context, userID string) (*domain.Token, error)
	// GetForUserByTenant returns the user's token scoped to the tenant.
	GetForUserByTenant(ctx context.Context, userID, tenantID string) (*domain.Token, error)
}

// RoleRepository defines persistence access for roles and role assignments.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetPage(ctx context.Context, marker string, limit int) ([]domain.Role, error)
	GetPageMarkers(ctx context.Context, marker string, limit int) (prev, next *string, err error)
	GetRef(ctx context.Context, refID string) (*domain.RoleRef, error)
	DeleteRef(ctx context.Context, refID string) error
	GetGlobalRefs(ctx context.Context, userID string) ([]domain.RoleRef, error)
	GetTenantRefs(ctx context.Context, userID, tenantID string) ([]domain.RoleRef, error)
	GetRefPage(ctx context.Context, userID, marker string, limit int) ([]domain.RoleRef, error)
	GetRefPageMarkers(ctx context.Context, userID, marker string, limit int) (prev, next *string, err error)
}

// ServiceRepository defines persistence access for service catalog entries.
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	GetPage(ctx context.Context, marker string, limit int) ([]domain.Service, error)
	GetPageMarkers(ctx context.Context, marker string, limit int) (prev, next *string, err error)
}

// EndpointRepository defines persistence access for endpoint templates and
// tenant endpoint associations.
type EndpointRepository interface {
	CreateTemplate(ctx context.Context, tmpl *domain.EndpointTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
	GetTemplate(ctx context.Context, id string) (*domain.EndpointTemplate, error)
	GetTemplatePage(ctx context.Context, marker string, limit int) ([]domain.EndpointTemplate, error)
	GetTemplatePageMarkers(ctx context.Context, marker string, limit int) (prev, next *string, err error)
	AddEndpoint(ctx context.Context, endpoint *domain.Endpoint) error
	DeleteEndpoint(ctx context.Context, id string) error
	GetEndpoint(ctx context.Context, id string) (*domain.Endpoint, error)
	GetAllByTenant(ctx context.Context, tenantID string) ([]domain.Endpoint, error)
	GetByTenantPage(ctx context.Context, tenantID, marker string, limit int) ([]domain.Endpoint, error)
	GetByTenantPageMarkers(ctx context.Context, tenantID, marker string, limit int) (prev, next *string, err error)
}

// Backend aggregates the full capability set consumed by the identity
// engine. It is assembled once at startup; nothing rebinds backends at
// runtime.
type Backend struct {
	Users     UserRepository
	Tenants   TenantRepository
	Tokens    TokenRepository
	Roles     RoleRepository
	Services  ServiceRepository
	Endpoints EndpointRepository
}
