package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
	"github.com/spec-kit/identity-service/pkg/util"
)

// TenantsHandler exposes tenant administration.
type TenantsHandler struct {
	identity *service.IdentityService
}

// NewTenantsHandler constructs handler.
func NewTenantsHandler(identity *service.IdentityService) *TenantsHandler {
	return &TenantsHandler{identity: identity}
}

// Create handles POST /v2.0/tenants.
func (h *TenantsHandler) Create(c *fiber.Ctx) error {
	var req dto.TenantRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	tenant, err := h.identity.CreateTenant(c.UserContext(), authToken(c), domain.Tenant{
		ID:          req.ID,
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tenant": tenantResponse(*tenant)})
}

// List handles GET /v2.0/tenants. Admin callers page through all tenants;
// other validated callers see only their own.
func (h *TenantsHandler) List(c *fiber.Ctx) error {
	marker, limit := pageParams(c)
	page, err := h.identity.GetTenants(c.UserContext(), authToken(c), marker, limit, c.Path())
	if err != nil {
		return err
	}

	tenants := make([]dto.TenantResponse, 0, len(page.Items))
	for _, tenant := range page.Items {
		tenants = append(tenants, tenantResponse(tenant))
	}
	return c.JSON(fiber.Map{"tenants": tenants, "links": linkResponses(page.Links)})
}

// Get handles GET /v2.0/tenants/:tenant_id.
func (h *TenantsHandler) Get(c *fiber.Ctx) error {
	tenant, err := h.identity.GetTenant(c.UserContext(), authToken(c), c.Params("tenant_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tenant": tenantResponse(*tenant)})
}

// Update handles PUT /v2.0/tenants/:tenant_id.
func (h *TenantsHandler) Update(c *fiber.Ctx) error {
	var req dto.TenantRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	tenant, err := h.identity.UpdateTenant(c.UserContext(), authToken(c), c.Params("tenant_id"), service.TenantUpdate{
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tenant": tenantResponse(*tenant)})
}

// Delete handles DELETE /v2.0/tenants/:tenant_id.
func (h *TenantsHandler) Delete(c *fiber.Ctx) error {
	if err := h.identity.DeleteTenant(c.UserContext(), authToken(c), c.Params("tenant_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
