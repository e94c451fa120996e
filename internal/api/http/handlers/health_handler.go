package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/persistence"
)

const probeTimeout = 2 * time.Second

// HealthHandler responds to liveness and readiness probes. Readiness is
// driven by the backend store: without Postgres no operation can run. The
// token cache is reported but non-fatal, since token reads fall through to
// the backend when the cache is unreachable.
type HealthHandler struct {
	serviceName string
	version     string
	store       *persistence.Postgres
	tokenCache  *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, store *persistence.Postgres, tokenCache *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, store: store, tokenCache: tokenCache}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by probing the backend store and the
// token cache.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	status := "ready"
	deps := fiber.Map{}

	if err := h.store.Ping(ctx); err != nil {
		deps["backend_store"] = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "backend store unavailable",
				"details": deps,
			},
		})
	}
	deps["backend_store"] = "ok"

	if err := h.tokenCache.Ping(ctx); err != nil {
		deps["token_cache"] = err.Error()
		status = "degraded"
	} else {
		deps["token_cache"] = "ok"
	}

	return c.JSON(fiber.Map{
		"status":       status,
		"dependencies": deps,
	})
}
