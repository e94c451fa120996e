package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
	"github.com/spec-kit/identity-service/pkg/util"
)

// TokensHandler exposes authentication and token administration.
type TokensHandler struct {
	identity *service.IdentityService
}

// NewTokensHandler constructs handler.
func NewTokensHandler(identity *service.IdentityService) *TokensHandler {
	return &TokensHandler{identity: identity}
}

// Authenticate handles POST /v2.0/tokens.
func (h *TokensHandler) Authenticate(c *fiber.Ctx) error {
	var req dto.AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.PasswordCredentials == nil {
		return util.NewValidationError("expecting password credentials", nil)
	}

	result, err := h.identity.Authenticate(c.UserContext(), domain.PasswordCredentials{
		Username: req.PasswordCredentials.Username,
		Password: req.PasswordCredentials.Password,
		TenantID: req.PasswordCredentials.TenantID,
	})
	if err != nil {
		return err
	}

	resp := dto.AuthResponse{Token: tokenResponse(result.Token)}
	for _, endpoint := range result.Endpoints {
		resp.Endpoints = append(resp.Endpoints, endpointResponse(endpoint))
	}
	return c.JSON(fiber.Map{"auth": resp})
}

// Validate handles GET /v2.0/tokens/:token_id. The belongsTo query parameter
// additionally requires the token to be scoped to that tenant.
func (h *TokensHandler) Validate(c *fiber.Ctx) error {
	var belongsTo *string
	if v := c.Query("belongsTo"); v != "" {
		belongsTo = &v
	}

	result, err := h.identity.ValidateToken(c.UserContext(), authToken(c), c.Params("token_id"), belongsTo)
	if err != nil {
		return err
	}

	roles := make([]dto.RoleRefResponse, 0, len(result.User.Roles))
	for _, ref := range result.User.Roles {
		roles = append(roles, roleRefResponse(ref))
	}
	return c.JSON(fiber.Map{"auth": dto.ValidateResponse{
		Token: tokenResponse(result.Token),
		User: dto.ValidatedUserResponse{
			ID:       result.User.ID,
			TenantID: result.User.TenantID,
			Roles:    roles,
		},
	}})
}

// Revoke handles DELETE /v2.0/tokens/:token_id.
func (h *TokensHandler) Revoke(c *fiber.Ctx) error {
	if err := h.identity.RevokeToken(c.UserContext(), authToken(c), c.Params("token_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
