package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tokens    *handlers.TokensHandler
	Tenants   *handlers.TenantsHandler
	Users     *handlers.UsersHandler
	Roles     *handlers.RolesHandler
	Services  *handlers.ServicesHandler
	Endpoints *handlers.EndpointsHandler
}

// RegisterRoutes wires HTTP routes. Authorization is enforced inside the
// facade from the X-Auth-Token header, so routes carry no auth middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v2 := app.Group("/v2.0")

	v2.Post("/tokens", cfg.Tokens.Authenticate)
	v2.Get("/tokens/:token_id", cfg.Tokens.Validate)
	v2.Delete("/tokens/:token_id", cfg.Tokens.Revoke)

	v2.Post("/tenants", cfg.Tenants.Create)
	v2.Get("/tenants", cfg.Tenants.List)
	v2.Get("/tenants/:tenant_id", cfg.Tenants.Get)
	v2.Put("/tenants/:tenant_id", cfg.Tenants.Update)
	v2.Delete("/tenants/:tenant_id", cfg.Tenants.Delete)
	v2.Get("/tenants/:tenant_id/users", cfg.Users.ListByTenant)
	v2.Get("/tenants/:tenant_id/endpoints", cfg.Endpoints.ListForTenant)
	v2.Post("/tenants/:tenant_id/endpoints", cfg.Endpoints.CreateForTenant)

	v2.Post("/users", cfg.Users.Create)
	v2.Get("/users", cfg.Users.List)
	v2.Get("/users/:user_id", cfg.Users.Get)
	v2.Put("/users/:user_id", cfg.Users.Update)
	v2.Put("/users/:user_id/password", cfg.Users.SetPassword)
	v2.Put("/users/:user_id/enabled", cfg.Users.SetEnabled)
	v2.Put("/users/:user_id/tenant", cfg.Users.SetTenant)
	v2.Delete("/users/:user_id", cfg.Users.Delete)
	v2.Get("/users/:user_id/roleRefs", cfg.Roles.ListRefs)
	v2.Post("/users/:user_id/roleRefs", cfg.Roles.CreateRef)
	v2.Delete("/users/:user_id/roleRefs/:ref_id", cfg.Roles.DeleteRef)

	v2.Post("/roles", cfg.Roles.Create)
	v2.Get("/roles", cfg.Roles.List)
	v2.Get("/roles/:role_id", cfg.Roles.Get)

	v2.Post("/services", cfg.Services.Create)
	v2.Get("/services", cfg.Services.List)
	v2.Get("/services/:service_id", cfg.Services.Get)
	v2.Delete("/services/:service_id", cfg.Services.Delete)

	v2.Post("/endpointTemplates", cfg.Endpoints.CreateTemplate)
	v2.Get("/endpointTemplates", cfg.Endpoints.ListTemplates)
	v2.Get("/endpointTemplates/:template_id", cfg.Endpoints.GetTemplate)
	v2.Delete("/endpointTemplates/:template_id", cfg.Endpoints.DeleteTemplate)
	v2.Delete("/endpoints/:endpoint_id", cfg.Endpoints.Delete)
}
