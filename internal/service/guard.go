package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/pkg/util"
)

// Guard validates presented tokens and verifies admin privilege. Checks run
// in a fixed order and short-circuit on the first failure: missing id,
// existence, expiry, user enablement, tenant enablement, scope match. Fault
// kinds depend on that order.
type Guard struct {
	backend   *repository.Backend
	adminRole string
	now       func() time.Time
}

// NewGuard builds a guard. adminRole is the role id whose global assignment
// confers privileged access.
func NewGuard(backend *repository.Backend, adminRole string, now func() time.Time) *Guard {
	if now == nil {
		now = time.Now
	}
	return &Guard{backend: backend, adminRole: adminRole, now: now}
}

// Validate checks a presented token and returns it with its owning user.
// belongsTo, when non-nil, additionally requires the token to be scoped to
// exactly that tenant; a token with no scope never satisfies it.
func (g *Guard) Validate(ctx context.Context, tokenID string, belongsTo *string) (*domain.Token, *domain.User, error) {
	if tokenID == "" {
		return nil, nil, util.NewUnauthorized("missing token")
	}

	token, err := g.backend.Tokens.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, util.NewNotFound("token", map[string]any{"token_id": tokenID})
		}
		return nil, nil, err
	}
	user, err := g.backend.Users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, util.NewNotFound("token", map[string]any{"token_id": tokenID})
		}
		return nil, nil, err
	}

	if token.ExpiredAt(g.now()) {
		return nil, nil, util.NewForbidden("token expired, please renew")
	}

	if !user.Enabled {
		return nil, nil, util.NewUserDisabled(fmt.Sprintf("user %s has been disabled", user.ID))
	}

	if user.TenantID != nil {
		if err := g.validateTenant(ctx, *user.TenantID); err != nil {
			return nil, nil, err
		}
	}
	if token.TenantID != nil {
		if err := g.validateTenant(ctx, *token.TenantID); err != nil {
			return nil, nil, err
		}
	}

	if belongsTo != nil {
		if token.TenantID == nil || *token.TenantID != *belongsTo {
			return nil, nil, util.NewUnauthorized("not authorized on this tenant")
		}
	}

	return token, user, nil
}

// ValidateAdmin runs Validate and additionally requires a global assignment
// of the admin role. Matching is existential: any qualifying ref authorizes;
// a tenant-scoped ref for the same role does not.
func (g *Guard) ValidateAdmin(ctx context.Context, tokenID string) (*domain.Token, *domain.User, error) {
	token, user, err := g.Validate(ctx, tokenID, nil)
	if err != nil {
		return nil, nil, err
	}

	refs, err := g.backend.Roles.GetGlobalRefs(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, ref := range refs {
		if ref.RoleID == g.adminRole && ref.TenantID == nil {
			return token, user, nil
		}
	}
	return nil, nil, util.NewUnauthorized("you are not authorized to make this call")
}

func (g *Guard) validateTenant(ctx context.Context, tenantID string) error {
	tenant, err := g.backend.Tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return util.NewTenantDisabled(fmt.Sprintf("tenant %s has been disabled", tenantID))
		}
		return err
	}
	if !tenant.Enabled {
		return util.NewTenantDisabled(fmt.Sprintf("tenant %s has been disabled", tenant.ID))
	}
	return nil
}
