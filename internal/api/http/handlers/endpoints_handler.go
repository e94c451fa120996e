package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
	"github.com/spec-kit/identity-service/pkg/util"
)

// EndpointsHandler exposes endpoint template administration and tenant
// endpoint mappings.
type EndpointsHandler struct {
	identity *service.IdentityService
}

// NewEndpointsHandler constructs handler.
func NewEndpointsHandler(identity *service.IdentityService) *EndpointsHandler {
	return &EndpointsHandler{identity: identity}
}

// CreateTemplate handles POST /v2.0/endpointTemplates.
func (h *EndpointsHandler) CreateTemplate(c *fiber.Ctx) error {
	var req dto.EndpointTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	tmpl, err := h.identity.CreateEndpointTemplate(c.UserContext(), authToken(c), domain.EndpointTemplate{
		ID:          req.ID,
		Region:      req.Region,
		ServiceName: req.ServiceName,
		PublicURL:   req.PublicURL,
		AdminURL:    req.AdminURL,
		InternalURL: req.InternalURL,
		Enabled:     req.Enabled,
		Global:      req.Global,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"endpointTemplate": templateResponse(*tmpl)})
}

// ListTemplates handles GET /v2.0/endpointTemplates.
func (h *EndpointsHandler) ListTemplates(c *fiber.Ctx) error {
	marker, limit := pageParams(c)
	page, err := h.identity.GetEndpointTemplates(c.UserContext(), authToken(c), marker, limit, c.Path())
	if err != nil {
		return err
	}

	templates := make([]dto.EndpointTemplateResponse, 0, len(page.Items))
	for _, tmpl := range page.Items {
		templates = append(templates, templateResponse(tmpl))
	}
	return c.JSON(fiber.Map{"endpointTemplates": templates, "links": linkResponses(page.Links)})
}

// GetTemplate handles GET /v2.0/endpointTemplates/:template_id.
func (h *EndpointsHandler) GetTemplate(c *fiber.Ctx) error {
	tmpl, err := h.identity.GetEndpointTemplate(c.UserContext(), authToken(c), c.Params("template_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"endpointTemplate": templateResponse(*tmpl)})
}

// DeleteTemplate handles DELETE /v2.0/endpointTemplates/:template_id.
func (h *EndpointsHandler) DeleteTemplate(c *fiber.Ctx) error {
	if err := h.identity.DeleteEndpointTemplate(c.UserContext(), authToken(c), c.Params("template_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListForTenant handles GET /v2.0/tenants/:tenant_id/endpoints.
func (h *EndpointsHandler) ListForTenant(c *fiber.Ctx) error {
	marker, limit := pageParams(c)
	page, err := h.identity.GetTenantEndpoints(c.UserContext(), authToken(c), c.Params("tenant_id"), marker, limit, c.Path())
	if err != nil {
		return err
	}

	endpoints := make([]dto.EndpointResponse, 0, len(page.Items))
	for _, endpoint := range page.Items {
		endpoints = append(endpoints, endpointResponse(endpoint))
	}
	return c.JSON(fiber.Map{"endpoints": endpoints, "links": linkResponses(page.Links)})
}

// CreateForTenant handles POST /v2.0/tenants/:tenant_id/endpoints.
func (h *EndpointsHandler) CreateForTenant(c *fiber.Ctx) error {
	var req dto.EndpointCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.TemplateID == "" {
		return util.NewValidationError("expecting an endpoint template id", nil)
	}

	endpoint, err := h.identity.CreateEndpointForTenant(c.UserContext(), authToken(c), c.Params("tenant_id"), req.TemplateID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"endpoint": endpointResponse(*endpoint)})
}

// Delete handles DELETE /v2.0/endpoints/:endpoint_id.
func (h *EndpointsHandler) Delete(c *fiber.Ctx) error {
	if err := h.identity.DeleteEndpoint(c.UserContext(), authToken(c), c.Params("endpoint_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
