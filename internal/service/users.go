package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/pkg/util"
)

// NewUser carries the fields accepted when registering a user. The password
// arrives in the clear and is hashed before storage.
type NewUser struct {
	ID       string
	Password string
	Email    string
	Enabled  bool
	TenantID *string
}

// CreateUser registers a user under a caller-chosen id. Both the id and the
// email must be unused, and the default tenant, when given, must exist and
// be enabled.
func (s *IdentityService) CreateUser(ctx context.Context, adminToken string, input NewUser) (*domain.User, error) {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ID) == "" {
		return nil, util.NewValidationError("expecting a unique user id", nil)
	}
	if err := s.checkUserTenant(ctx, input.TenantID); err != nil {
		return nil, err
	}

	if _, err := s.backend.Users.GetByID(ctx, input.ID); err == nil {
		return nil, util.NewConflict("a user with that id already exists", map[string]any{"user_id": input.ID})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if input.Email != "" {
		if _, err := s.backend.Users.GetByEmail(ctx, input.Email); err == nil {
			return nil, util.NewConflict("email already exists", map[string]any{"email": input.Email})
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	now := s.now()
	user := &domain.User{
		ID:           input.ID,
		Email:        input.Email,
		PasswordHash: hash,
		Enabled:      input.Enabled,
		TenantID:     input.TenantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.backend.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("a user with that id or email already exists", map[string]any{"user_id": input.ID})
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserCreated, user.ID, actor.ID, user.TenantID)
	return user, nil
}

// GetUsers lists all users as a page.
func (s *IdentityService) GetUsers(ctx context.Context, adminToken, marker string, limit int, url string) (*domain.Page[domain.User], error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}

	items, err := s.backend.Users.GetPage(ctx, marker, limit)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.backend.Users.GetPageMarkers(ctx, marker, limit)
	if err != nil {
		return nil, err
	}
	return page(items, prev, next, url, limit), nil
}

// GetTenantUsers lists the users belonging to a tenant, either through the
// default tenant or a tenant-scoped role assignment. The tenant must exist
// and be enabled.
func (s *IdentityService) GetTenantUsers(ctx context.Context, adminToken, tenantID, marker string, limit int, url string) (*domain.Page[domain.User], error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	if tenantID == "" {
		return nil, util.NewValidationError("expecting a tenant id", nil)
	}
	tenant, err := s.backend.Tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": tenantID}))
	}
	if !tenant.Enabled {
		return nil, util.NewTenantDisabled("tenant " + tenant.ID + " has been disabled")
	}

	items, err := s.backend.Users.GetByTenantPage(ctx, tenantID, marker, limit)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.backend.Users.GetByTenantPageMarkers(ctx, tenantID, marker, limit)
	if err != nil {
		return nil, err
	}
	return page(items, prev, next, url, limit), nil
}

// GetUser returns a user by id.
func (s *IdentityService) GetUser(ctx context.Context, adminToken, userID string) (*domain.User, error) {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	user, err := s.backend.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}
	return user, nil
}

// UpdateUser changes a user's email. The new address must not belong to a
// different user.
func (s *IdentityService) UpdateUser(ctx context.Context, adminToken, userID, email string) (*domain.User, error) {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}
	user, err := s.backend.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}

	if email != "" && email != user.Email {
		if other, err := s.backend.Users.GetByEmail(ctx, email); err == nil && other.ID != user.ID {
			return nil, util.NewConflict("email already exists", map[string]any{"email": email})
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	user.Email = email
	user.UpdatedAt = s.now()
	if err := s.backend.Users.Update(ctx, user); err != nil {
		return nil, notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}

	s.publish(ctx, events.EventUserUpdated, user.ID, actor.ID, user.TenantID)
	return user, nil
}

// SetUserPassword replaces a user's password with a fresh hash.
func (s *IdentityService) SetUserPassword(ctx context.Context, adminToken, userID, password string) error {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return err
	}
	user, err := s.backend.Users.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return util.NewInternalError(err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	if err := s.backend.Users.Update(ctx, user); err != nil {
		return notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}

	s.publish(ctx, events.EventUserUpdated, user.ID, actor.ID, user.TenantID)
	return nil
}

// SetUserEnabled flips a user's enabled flag. Disabling does not revoke
// outstanding tokens; they fail validation while the flag is off.
func (s *IdentityService) SetUserEnabled(ctx context.Context, adminToken, userID string, enabled bool) error {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return err
	}
	user, err := s.backend.Users.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}

	user.Enabled = enabled
	user.UpdatedAt = s.now()
	if err := s.backend.Users.Update(ctx, user); err != nil {
		return notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}

	s.publish(ctx, events.EventUserUpdated, user.ID, actor.ID, user.TenantID)
	return nil
}

// SetUserTenant moves a user to a different default tenant, or clears it
// when tenantID is nil.
func (s *IdentityService) SetUserTenant(ctx context.Context, adminToken, userID string, tenantID *string) error {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return err
	}
	user, err := s.backend.Users.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}
	if err := s.checkUserTenant(ctx, tenantID); err != nil {
		return err
	}

	user.TenantID = tenantID
	user.UpdatedAt = s.now()
	if err := s.backend.Users.Update(ctx, user); err != nil {
		return notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}

	s.publish(ctx, events.EventUserUpdated, user.ID, actor.ID, user.TenantID)
	return nil
}

// DeleteUser removes a user.
func (s *IdentityService) DeleteUser(ctx context.Context, adminToken, userID string) error {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return err
	}
	user, err := s.backend.Users.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}

	if err := s.backend.Users.Delete(ctx, user.ID); err != nil {
		return notFoundAs(err, util.NewNotFound("user", map[string]any{"user_id": userID}))
	}
	s.publish(ctx, events.EventUserDeleted, user.ID, actor.ID, user.TenantID)
	return nil
}

// checkUserTenant verifies a prospective default tenant: it must exist and
// be enabled. A nil tenant id is always acceptable.
func (s *IdentityService) checkUserTenant(ctx context.Context, tenantID *string) error {
	if tenantID == nil || *tenantID == "" {
		return nil
	}
	tenant, err := s.backend.Tenants.GetByID(ctx, *tenantID)
	if err != nil {
		return notFoundAs(err, util.NewNotFound("tenant", map[string]any{"tenant_id": *tenantID}))
	}
	if !tenant.Enabled {
		return util.NewTenantDisabled("tenant " + tenant.ID + " has been disabled")
	}
	return nil
}
