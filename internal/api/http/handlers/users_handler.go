package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/service"
	"github.com/spec-kit/identity-service/pkg/util"
)

// UsersHandler exposes user administration.
type UsersHandler struct {
	identity *service.IdentityService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(identity *service.IdentityService) *UsersHandler {
	return &UsersHandler{identity: identity}
}

// Create handles POST /v2.0/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	user, err := h.identity.CreateUser(c.UserContext(), authToken(c), service.NewUser{
		ID:       req.ID,
		Password: req.Password,
		Email:    req.Email,
		Enabled:  req.Enabled,
		TenantID: req.TenantID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": userResponse(*user)})
}

// List handles GET /v2.0/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	marker, limit := pageParams(c)
	page, err := h.identity.GetUsers(c.UserContext(), authToken(c), marker, limit, c.Path())
	if err != nil {
		return err
	}

	users := make([]dto.UserResponse, 0, len(page.Items))
	for _, user := range page.Items {
		users = append(users, userResponse(user))
	}
	return c.JSON(fiber.Map{"users": users, "links": linkResponses(page.Links)})
}

// ListByTenant handles GET /v2.0/tenants/:tenant_id/users.
func (h *UsersHandler) ListByTenant(c *fiber.Ctx) error {
	marker, limit := pageParams(c)
	page, err := h.identity.GetTenantUsers(c.UserContext(), authToken(c), c.Params("tenant_id"), marker, limit, c.Path())
	if err != nil {
		return err
	}

	users := make([]dto.UserResponse, 0, len(page.Items))
	for _, user := range page.Items {
		users = append(users, userResponse(user))
	}
	return c.JSON(fiber.Map{"users": users, "links": linkResponses(page.Links)})
}

// Get handles GET /v2.0/users/:user_id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.identity.GetUser(c.UserContext(), authToken(c), c.Params("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": userResponse(*user)})
}

// Update handles PUT /v2.0/users/:user_id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	user, err := h.identity.UpdateUser(c.UserContext(), authToken(c), c.Params("user_id"), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": userResponse(*user)})
}

// SetPassword handles PUT /v2.0/users/:user_id/password.
func (h *UsersHandler) SetPassword(c *fiber.Ctx) error {
	var req dto.UserPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Password == "" {
		return util.NewValidationError("expecting a password", nil)
	}

	if err := h.identity.SetUserPassword(c.UserContext(), authToken(c), c.Params("user_id"), req.Password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetEnabled handles PUT /v2.0/users/:user_id/enabled.
func (h *UsersHandler) SetEnabled(c *fiber.Ctx) error {
	var req dto.UserEnabledRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	if err := h.identity.SetUserEnabled(c.UserContext(), authToken(c), c.Params("user_id"), req.Enabled); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetTenant handles PUT /v2.0/users/:user_id/tenant.
func (h *UsersHandler) SetTenant(c *fiber.Ctx) error {
	var req dto.UserTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	if err := h.identity.SetUserTenant(c.UserContext(), authToken(c), c.Params("user_id"), req.TenantID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete handles DELETE /v2.0/users/:user_id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.identity.DeleteUser(c.UserContext(), authToken(c), c.Params("user_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
