package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/pkg/util"
)

// AuthResult is the outcome of a successful authentication: the issued (or
// reused) token, the effective tenant scope, and the endpoints published for
// that tenant when scoped.
type AuthResult struct {
	Token     *domain.Token
	TenantID  *string
	Endpoints []domain.Endpoint
}

// ValidatedUser is the projection of a token's owner returned by validation.
type ValidatedUser struct {
	ID       string
	TenantID *string
	Roles    []domain.RoleRef
}

// ValidateResult is the outcome of a successful token validation.
type ValidateResult struct {
	Token *domain.Token
	User  ValidatedUser
}

// Authenticate checks password credentials and returns a live token. An
// unexpired token matching the requested scope is reused; otherwise a fresh
// one is minted. Disabled accounts are rejected before the password is
// compared, so a correct password never distinguishes them.
func (s *IdentityService) Authenticate(ctx context.Context, creds domain.Credentials) (*AuthResult, error) {
	pw, ok := creds.(domain.PasswordCredentials)
	if !ok {
		return nil, util.NewValidationError("expecting password credentials", nil)
	}
	if pw.Username == "" || pw.Password == "" {
		return nil, util.NewValidationError("expecting a username and password", nil)
	}

	var (
		user *domain.User
		err  error
	)
	if pw.TenantID == nil {
		user, err = s.backend.Users.GetByID(ctx, pw.Username)
	} else {
		user, err = s.backend.Users.GetByTenant(ctx, pw.Username, *pw.TenantID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NewUnauthorized("unauthorized")
		}
		return nil, err
	}

	if !user.Enabled {
		return nil, util.NewUserDisabled("your account has been disabled")
	}
	if err := s.hasher.Compare(user.PasswordHash, pw.Password); err != nil {
		return nil, util.NewUnauthorized("unauthorized")
	}

	// A disabled tenant accepts no new tokens scoped to it.
	if pw.TenantID != nil {
		if err := s.guard.validateTenant(ctx, *pw.TenantID); err != nil {
			return nil, err
		}
	}

	token, reused, err := s.tokens.IssueOrReuse(ctx, user.ID, pw.TenantID)
	if err != nil {
		return nil, err
	}

	scope := pw.TenantID
	if scope == nil {
		scope = user.TenantID
	}
	var endpoints []domain.Endpoint
	if scope != nil {
		endpoints, err = s.backend.Endpoints.GetAllByTenant(ctx, *scope)
		if err != nil {
			return nil, err
		}
	}

	if reused {
		if s.metrics != nil {
			s.metrics.TokensReused.Inc()
		}
		s.publish(ctx, events.EventTokenReused, token.ID, user.ID, token.TenantID)
	} else {
		if s.metrics != nil {
			s.metrics.TokensIssued.Inc()
		}
		s.publish(ctx, events.EventTokenIssued, token.ID, user.ID, token.TenantID)
	}
	s.logger.Debug("authenticated",
		zap.String("user_id", user.ID),
		zap.Bool("token_reused", reused),
	)

	return &AuthResult{Token: token, TenantID: scope, Endpoints: endpoints}, nil
}

// ValidateToken validates a subject token on behalf of an admin caller. The
// subject's existence is checked before the full validation sequence so an
// unknown id reports not-found rather than a later fault. belongsTo, when
// non-nil, requires the subject token to be scoped to that tenant.
func (s *IdentityService) ValidateToken(ctx context.Context, adminToken, tokenID string, belongsTo *string) (*ValidateResult, error) {
	if _, _, err := s.guard.ValidateAdmin(ctx, adminToken); err != nil {
		return nil, err
	}
	if tokenID == "" {
		return nil, util.NewValidationError("expecting a token id", nil)
	}
	if _, err := s.backend.Tokens.GetByID(ctx, tokenID); err != nil {
		return nil, notFoundAs(err, util.NewNotFound("token", map[string]any{"token_id": tokenID}))
	}

	token, user, err := s.guard.Validate(ctx, tokenID, belongsTo)
	if err != nil {
		return nil, err
	}
	roles, err := projectRoles(ctx, s.backend.Roles, token, user)
	if err != nil {
		return nil, err
	}

	return &ValidateResult{
		Token: token,
		User: ValidatedUser{
			ID:       user.ID,
			TenantID: user.TenantID,
			Roles:    roles,
		},
	}, nil
}

// RevokeToken deletes a token so later validations fail with not-found.
// Revoking an unknown token reports not-found; revocation is idempotent only
// in effect, not in response.
func (s *IdentityService) RevokeToken(ctx context.Context, adminToken, tokenID string) error {
	_, actor, err := s.guard.ValidateAdmin(ctx, adminToken)
	if err != nil {
		return err
	}
	if tokenID == "" {
		return util.NewValidationError("expecting a token id", nil)
	}

	token, err := s.backend.Tokens.GetByID(ctx, tokenID)
	if err != nil {
		return notFoundAs(err, util.NewNotFound("token", map[string]any{"token_id": tokenID}))
	}
	if err := s.backend.Tokens.Delete(ctx, token.ID); err != nil {
		return notFoundAs(err, util.NewNotFound("token", map[string]any{"token_id": tokenID}))
	}

	s.publish(ctx, events.EventTokenRevoked, token.ID, actor.ID, token.TenantID)
	return nil
}
