package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
	"github.com/spec-kit/identity-service/pkg/util"
)

// RolesHandler exposes role and role assignment administration.
type RolesHandler struct {
	identity *service.IdentityService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(identity *service.IdentityService) *RolesHandler {
	return &RolesHandler{identity: identity}
}

// Create handles POST /v2.0/roles.
func (h *RolesHandler) Create(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	role, err := h.identity.CreateRole(c.UserContext(), authToken(c), domain.Role{
		ID:          req.ID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"role": dto.RoleResponse{
		ID:          role.ID,
		Description: role.Description,
	}})
}

// List handles GET /v2.0/roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	marker, limit := pageParams(c)
	page, err := h.identity.GetRoles(c.UserContext(), authToken(c), marker, limit, c.Path())
	if err != nil {
		return err
	}

	roles := make([]dto.RoleResponse, 0, len(page.Items))
	for _, role := range page.Items {
		roles = append(roles, dto.RoleResponse{ID: role.ID, Description: role.Description})
	}
	return c.JSON(fiber.Map{"roles": roles, "links": linkResponses(page.Links)})
}

// Get handles GET /v2.0/roles/:role_id.
func (h *RolesHandler) Get(c *fiber.Ctx) error {
	role, err := h.identity.GetRole(c.UserContext(), authToken(c), c.Params("role_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"role": dto.RoleResponse{ID: role.ID, Description: role.Description}})
}

// CreateRef handles POST /v2.0/users/:user_id/roleRefs.
func (h *RolesHandler) CreateRef(c *fiber.Ctx) error {
	var req dto.RoleRefRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ref, err := h.identity.CreateRoleRef(c.UserContext(), authToken(c), c.Params("user_id"), req.RoleID, req.TenantID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"roleRef": roleRefResponse(*ref)})
}

// ListRefs handles GET /v2.0/users/:user_id/roleRefs.
func (h *RolesHandler) ListRefs(c *fiber.Ctx) error {
	marker, limit := pageParams(c)
	page, err := h.identity.GetUserRoles(c.UserContext(), authToken(c), c.Params("user_id"), marker, limit, c.Path())
	if err != nil {
		return err
	}

	refs := make([]dto.RoleRefResponse, 0, len(page.Items))
	for _, ref := range page.Items {
		refs = append(refs, roleRefResponse(ref))
	}
	return c.JSON(fiber.Map{"roleRefs": refs, "links": linkResponses(page.Links)})
}

// DeleteRef handles DELETE /v2.0/users/:user_id/roleRefs/:ref_id.
func (h *RolesHandler) DeleteRef(c *fiber.Ctx) error {
	if err := h.identity.DeleteRoleRef(c.UserContext(), authToken(c), c.Params("ref_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
