package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/domain"
)

const authHeader = "X-Auth-Token"

const defaultPageLimit = 10

func authToken(c *fiber.Ctx) string {
	return c.Get(authHeader)
}

func pageParams(c *fiber.Ctx) (string, int) {
	return c.Query("marker"), c.QueryInt("limit", defaultPageLimit)
}

func linkResponses(links []domain.Link) []dto.LinkResponse {
	out := make([]dto.LinkResponse, 0, len(links))
	for _, link := range links {
		out = append(out, dto.LinkResponse{Rel: link.Rel, Href: link.Href})
	}
	return out
}

func tokenResponse(token *domain.Token) dto.TokenResponse {
	return dto.TokenResponse{
		ID:       token.ID,
		Expires:  token.Expires,
		TenantID: token.TenantID,
	}
}

func tenantResponse(tenant domain.Tenant) dto.TenantResponse {
	return dto.TenantResponse{
		ID:          tenant.ID,
		Description: tenant.Description,
		Enabled:     tenant.Enabled,
		CreatedAt:   tenant.CreatedAt,
		UpdatedAt:   tenant.UpdatedAt,
	}
}

func userResponse(user domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Enabled:   user.Enabled,
		TenantID:  user.TenantID,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func roleRefResponse(ref domain.RoleRef) dto.RoleRefResponse {
	return dto.RoleRefResponse{
		ID:       ref.ID,
		UserID:   ref.UserID,
		RoleID:   ref.RoleID,
		TenantID: ref.TenantID,
	}
}

func endpointResponse(endpoint domain.Endpoint) dto.EndpointResponse {
	return dto.EndpointResponse{
		ID:         endpoint.ID,
		TenantID:   endpoint.TenantID,
		TemplateID: endpoint.TemplateID,
	}
}

func templateResponse(tmpl domain.EndpointTemplate) dto.EndpointTemplateResponse {
	return dto.EndpointTemplateResponse{
		ID:          tmpl.ID,
		Region:      tmpl.Region,
		ServiceName: tmpl.ServiceName,
		PublicURL:   tmpl.PublicURL,
		AdminURL:    tmpl.AdminURL,
		InternalURL: tmpl.InternalURL,
		Enabled:     tmpl.Enabled,
		Global:      tmpl.Global,
	}
}
