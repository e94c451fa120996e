package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
	"github.com/spec-kit/identity-service/pkg/util"
)

// ServicesHandler exposes catalog service administration.
type ServicesHandler struct {
	identity *service.IdentityService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(identity *service.IdentityService) *ServicesHandler {
	return &ServicesHandler{identity: identity}
}

// Create handles POST /v2.0/services.
func (h *ServicesHandler) Create(c *fiber.Ctx) error {
	var req dto.ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	svc, err := h.identity.CreateService(c.UserContext(), authToken(c), domain.Service{
		ID:          req.ID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"service": dto.ServiceResponse{
		ID:          svc.ID,
		Description: svc.Description,
	}})
}

// List handles GET /v2.0/services.
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	marker, limit := pageParams(c)
	page, err := h.identity.GetServices(c.UserContext(), authToken(c), marker, limit, c.Path())
	if err != nil {
		return err
	}

	services := make([]dto.ServiceResponse, 0, len(page.Items))
	for _, svc := range page.Items {
		services = append(services, dto.ServiceResponse{ID: svc.ID, Description: svc.Description})
	}
	return c.JSON(fiber.Map{"services": services, "links": linkResponses(page.Links)})
}

// Get handles GET /v2.0/services/:service_id.
func (h *ServicesHandler) Get(c *fiber.Ctx) error {
	svc, err := h.identity.GetService(c.UserContext(), authToken(c), c.Params("service_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"service": dto.ServiceResponse{ID: svc.ID, Description: svc.Description}})
}

// Delete handles DELETE /v2.0/services/:service_id.
func (h *ServicesHandler) Delete(c *fiber.Ctx) error {
	if err := h.identity.DeleteService(c.UserContext(), authToken(c), c.Params("service_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
