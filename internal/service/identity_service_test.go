package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/internal/repository/memory"
	"github.com/spec-kit/identity-service/pkg/util"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hashed, plain string) error {
	if hashed != "hashed:"+plain {
		return errors.New("password mismatch")
	}
	return nil
}

type fixture struct {
	t       *testing.T
	backend *repository.Backend
	svc     *IdentityService
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend, _ := memory.NewBackend()
	f := &fixture{t: t, backend: backend, now: testNow}
	f.svc = NewIdentityService(
		config.AuthConfig{AdminRole: "Admin", TokenTTLHours: 24},
		Dependencies{Backend: backend, Hasher: plainHasher{}, Logger: zap.NewNop()},
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func strp(s string) *string { return &s }

func (f *fixture) addTenant(id string, enabled bool) {
	f.t.Helper()
	err := f.backend.Tenants.Create(context.Background(), &domain.Tenant{ID: id, Enabled: enabled})
	require.NoError(f.t, err)
}

func (f *fixture) addUser(id, password string, enabled bool, tenantID *string) {
	f.t.Helper()
	err := f.backend.Users.Create(context.Background(), &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "hashed:" + password,
		Enabled:      enabled,
		TenantID:     tenantID,
	})
	require.NoError(f.t, err)
}

func (f *fixture) addRole(id string) {
	f.t.Helper()
	err := f.backend.Roles.Create(context.Background(), &domain.Role{ID: id})
	require.NoError(f.t, err)
}

func (f *fixture) addRef(id, userID, roleID string, tenantID *string) {
	f.t.Helper()
	err := f.backend.Users.AddRoleRef(context.Background(), &domain.RoleRef{
		ID:       id,
		UserID:   userID,
		RoleID:   roleID,
		TenantID: tenantID,
	})
	require.NoError(f.t, err)
}

func (f *fixture) addToken(id, userID string, tenantID *string, expires time.Time) {
	f.t.Helper()
	err := f.backend.Tokens.Create(context.Background(), &domain.Token{
		ID:       id,
		UserID:   userID,
		TenantID: tenantID,
		Expires:  expires,
	})
	require.NoError(f.t, err)
}

// adminToken seeds a globally privileged caller and returns its token id.
func (f *fixture) adminToken() string {
	f.t.Helper()
	f.addUser("admin", "secret", true, nil)
	f.addRole("Admin")
	f.addRef("ref-admin", "admin", "Admin", nil)
	f.addToken("admin-token", "admin", nil, testNow.Add(time.Hour))
	return "admin-token"
}

func TestAuthenticateMintsToken(t *testing.T) {
	f := newFixture(t)
	f.addUser("joe", "secret", true, nil)

	result, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{
		Username: "joe",
		Password: "secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token.ID)
	assert.Equal(t, "joe", result.Token.UserID)
	assert.Nil(t, result.Token.TenantID)
	assert.Equal(t, testNow.Add(24*time.Hour), result.Token.Expires)
	assert.Nil(t, result.TenantID)
	assert.Empty(t, result.Endpoints)
}

func TestAuthenticateReusesLiveToken(t *testing.T) {
	f := newFixture(t)
	f.addUser("joe", "secret", true, nil)

	first, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{Username: "joe", Password: "secret"})
	require.NoError(t, err)
	second, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{Username: "joe", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, first.Token.ID, second.Token.ID)
}

func TestAuthenticateMintsFreshAfterExpiry(t *testing.T) {
	f := newFixture(t)
	f.addUser("joe", "secret", true, nil)
	f.addToken("stale", "joe", nil, testNow.Add(-time.Minute))

	result, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{Username: "joe", Password: "secret"})
	require.NoError(t, err)
	assert.NotEqual(t, "stale", result.Token.ID)

	// the superseded token stays stored
	_, err = f.backend.Tokens.GetByID(context.Background(), "stale")
	assert.NoError(t, err)
}

func TestAuthenticateScopedDoesNotReuseUnscopedToken(t *testing.T) {
	f := newFixture(t)
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, strp("acme"))
	f.addToken("unscoped", "joe", nil, testNow.Add(time.Hour))

	result, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{
		Username: "joe",
		Password: "secret",
		TenantID: strp("acme"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, "unscoped", result.Token.ID)
	require.NotNil(t, result.Token.TenantID)
	assert.Equal(t, "acme", *result.Token.TenantID)
}

func TestAuthenticateScopedIncludesTenantEndpoints(t *testing.T) {
	f := newFixture(t)
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, strp("acme"))
	require.NoError(t, f.backend.Endpoints.CreateTemplate(context.Background(), &domain.EndpointTemplate{ID: "tmpl-1", Enabled: true}))
	require.NoError(t, f.backend.Endpoints.AddEndpoint(context.Background(), &domain.Endpoint{ID: "ep-1", TenantID: "acme", TemplateID: "tmpl-1"}))

	result, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{
		Username: "joe",
		Password: "secret",
		TenantID: strp("acme"),
	})
	require.NoError(t, err)
	require.Len(t, result.Endpoints, 1)
	assert.Equal(t, "ep-1", result.Endpoints[0].ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.addUser("joe", "secret", true, nil)

	_, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{Username: "joe", Password: "wrong"})
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))
}

func TestAuthenticateUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{Username: "ghost", Password: "secret"})
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))
}

func TestAuthenticateDisabledUserCorrectPassword(t *testing.T) {
	f := newFixture(t)
	f.addUser("joe", "secret", false, nil)

	_, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{Username: "joe", Password: "secret"})
	assert.True(t, util.HasCode(err, util.CodeUserDisabled))
}

func TestAuthenticateScopedUserOutsideTenant(t *testing.T) {
	f := newFixture(t)
	f.addTenant("acme", true)
	f.addTenant("umbrella", true)
	f.addUser("joe", "secret", true, strp("acme"))

	_, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{
		Username: "joe",
		Password: "secret",
		TenantID: strp("umbrella"),
	})
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))
}

func TestAuthenticateScopedToDisabledTenant(t *testing.T) {
	f := newFixture(t)
	f.addTenant("acme", false)
	f.addUser("joe", "secret", true, strp("acme"))

	_, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{
		Username: "joe",
		Password: "secret",
		TenantID: strp("acme"),
	})
	assert.True(t, util.HasCode(err, util.CodeTenantDisabled))

	_, err = f.backend.Tokens.GetForUserByTenant(context.Background(), "joe", "acme")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAuthenticateScopedToUnknownTenant(t *testing.T) {
	f := newFixture(t)
	f.addUser("joe", "secret", true, nil)
	f.addRole("Member")
	f.addRef("ref-1", "joe", "Member", strp("ghost"))

	_, err := f.svc.Authenticate(context.Background(), domain.PasswordCredentials{
		Username: "joe",
		Password: "secret",
		TenantID: strp("ghost"),
	})
	assert.True(t, util.HasCode(err, util.CodeTenantDisabled))
}

func TestValidateTokenProjectsRoles(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, strp("acme"))
	f.addRole("Member")
	f.addRole("Auditor")
	f.addRef("ref-1", "joe", "Member", strp("acme"))
	f.addRef("ref-2", "joe", "Auditor", nil)
	f.addToken("joe-token", "joe", strp("acme"), testNow.Add(time.Hour))

	result, err := f.svc.ValidateToken(context.Background(), admin, "joe-token", nil)
	require.NoError(t, err)
	assert.Equal(t, "joe", result.User.ID)
	require.Len(t, result.User.Roles, 2)
	assert.Equal(t, "Member", result.User.Roles[0].RoleID)
	assert.Equal(t, "Auditor", result.User.Roles[1].RoleID)
}

func TestValidateTokenUnscopedSkipsTenantRoles(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, nil)
	f.addRole("Member")
	f.addRef("ref-1", "joe", "Member", strp("acme"))
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	result, err := f.svc.ValidateToken(context.Background(), admin, "joe-token", nil)
	require.NoError(t, err)
	assert.Empty(t, result.User.Roles)
}

func TestValidateTokenBelongsTo(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, strp("acme"))
	f.addToken("joe-token", "joe", strp("acme"), testNow.Add(time.Hour))

	_, err := f.svc.ValidateToken(context.Background(), admin, "joe-token", strp("acme"))
	assert.NoError(t, err)

	_, err = f.svc.ValidateToken(context.Background(), admin, "joe-token", strp("umbrella"))
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))
}

func TestValidateTokenRequiresAdminCaller(t *testing.T) {
	f := newFixture(t)
	f.addUser("joe", "secret", true, nil)
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	_, err := f.svc.ValidateToken(context.Background(), "joe-token", "joe-token", nil)
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))
}

func TestValidateTokenUnknownSubject(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()

	_, err := f.svc.ValidateToken(context.Background(), admin, "no-such-token", nil)
	assert.True(t, util.HasCode(err, util.CodeNotFound))
}

func TestRevokeTokenThenValidate(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addUser("joe", "secret", true, nil)
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	require.NoError(t, f.svc.RevokeToken(context.Background(), admin, "joe-token"))

	_, err := f.svc.ValidateToken(context.Background(), admin, "joe-token", nil)
	assert.True(t, util.HasCode(err, util.CodeNotFound))

	err = f.svc.RevokeToken(context.Background(), admin, "joe-token")
	assert.True(t, util.HasCode(err, util.CodeNotFound))
}

func TestGetTenantsAdminSeesAll(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addTenant("acme", true)
	f.addTenant("umbrella", true)

	page, err := f.svc.GetTenants(context.Background(), admin, "", 10, "/v2.0/tenants")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestGetTenantsFallbackForPlainCaller(t *testing.T) {
	f := newFixture(t)
	f.addTenant("acme", true)
	f.addTenant("umbrella", true)
	f.addUser("joe", "secret", true, strp("acme"))
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	page, err := f.svc.GetTenants(context.Background(), "joe-token", "", 10, "/v2.0/tenants")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "acme", page.Items[0].ID)
}

func TestGetTenantsExpiredCallerNoFallback(t *testing.T) {
	f := newFixture(t)
	f.addUser("joe", "secret", true, nil)
	f.addToken("joe-token", "joe", nil, testNow.Add(-time.Minute))

	_, err := f.svc.GetTenants(context.Background(), "joe-token", "", 10, "/v2.0/tenants")
	assert.True(t, util.HasCode(err, util.CodeForbidden))
}

func TestGetTenantsRejectsBadLimit(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()

	_, err := f.svc.GetTenants(context.Background(), admin, "", 0, "/v2.0/tenants")
	assert.True(t, util.HasCode(err, util.CodeValidationFailed))
}

func TestCreateTenantDuplicate(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()

	_, err := f.svc.CreateTenant(context.Background(), admin, domain.Tenant{ID: "acme", Enabled: true})
	require.NoError(t, err)

	_, err = f.svc.CreateTenant(context.Background(), admin, domain.Tenant{ID: "acme", Enabled: true})
	assert.True(t, util.HasCode(err, util.CodeConflict))
}

func TestCreateTenantRequiresID(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()

	_, err := f.svc.CreateTenant(context.Background(), admin, domain.Tenant{Enabled: true})
	assert.True(t, util.HasCode(err, util.CodeValidationFailed))
}

func TestDeleteTenantRefusesNonEmpty(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, strp("acme"))

	err := f.svc.DeleteTenant(context.Background(), admin, "acme")
	assert.True(t, util.HasCode(err, util.CodePreconditionFailed))
}

func TestDeleteEmptyTenant(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addTenant("acme", true)

	require.NoError(t, f.svc.DeleteTenant(context.Background(), admin, "acme"))

	_, err := f.svc.GetTenant(context.Background(), admin, "acme")
	assert.True(t, util.HasCode(err, util.CodeNotFound))
}

func TestCreateUserHashesPassword(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()

	user, err := f.svc.CreateUser(context.Background(), admin, NewUser{
		ID:       "joe",
		Password: "secret",
		Email:    "joe@example.com",
		Enabled:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hashed:secret", user.PasswordHash)

	_, err = f.svc.Authenticate(context.Background(), domain.PasswordCredentials{Username: "joe", Password: "secret"})
	assert.NoError(t, err)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()

	_, err := f.svc.CreateUser(context.Background(), admin, NewUser{ID: "joe", Password: "x", Email: "joe@example.com", Enabled: true})
	require.NoError(t, err)

	_, err = f.svc.CreateUser(context.Background(), admin, NewUser{ID: "joe2", Password: "x", Email: "joe@example.com", Enabled: true})
	assert.True(t, util.HasCode(err, util.CodeConflict))
}

func TestCreateUserInDisabledTenant(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addTenant("acme", false)

	_, err := f.svc.CreateUser(context.Background(), admin, NewUser{
		ID:       "joe",
		Password: "x",
		Enabled:  true,
		TenantID: strp("acme"),
	})
	assert.True(t, util.HasCode(err, util.CodeTenantDisabled))
}

func TestSetUserEnabledGatesOutstandingToken(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addUser("joe", "secret", true, nil)
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	require.NoError(t, f.svc.SetUserEnabled(context.Background(), admin, "joe", false))
	_, err := f.svc.ValidateToken(context.Background(), admin, "joe-token", nil)
	assert.True(t, util.HasCode(err, util.CodeUserDisabled))

	require.NoError(t, f.svc.SetUserEnabled(context.Background(), admin, "joe", true))
	_, err = f.svc.ValidateToken(context.Background(), admin, "joe-token", nil)
	assert.NoError(t, err)
}

func TestCreateRoleRefUnknownRole(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addUser("joe", "secret", true, nil)

	_, err := f.svc.CreateRoleRef(context.Background(), admin, "joe", "NoSuchRole", nil)
	assert.True(t, util.HasCode(err, util.CodeNotFound))
}

func TestRoleRefLifecycle(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addUser("joe", "secret", true, nil)
	f.addRole("Member")

	ref, err := f.svc.CreateRoleRef(context.Background(), admin, "joe", "Member", nil)
	require.NoError(t, err)

	page, err := f.svc.GetUserRoles(context.Background(), admin, "joe", "", 10, "/v2.0/users/joe/roleRefs")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ref.ID, page.Items[0].ID)

	require.NoError(t, f.svc.DeleteRoleRef(context.Background(), admin, ref.ID))
	page, err = f.svc.GetUserRoles(context.Background(), admin, "joe", "", 10, "/v2.0/users/joe/roleRefs")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGetTenantUsersIncludesRoleScopedMembers(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, strp("acme"))
	f.addUser("visitor", "secret", true, nil)
	f.addRole("Member")
	f.addRef("ref-1", "visitor", "Member", strp("acme"))

	page, err := f.svc.GetTenantUsers(context.Background(), admin, "acme", "", 10, "/v2.0/tenants/acme/users")
	require.NoError(t, err)
	ids := []string{}
	for _, user := range page.Items {
		ids = append(ids, user.ID)
	}
	assert.ElementsMatch(t, []string{"joe", "visitor"}, ids)
}

func TestEndpointTemplateMapping(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	f.addTenant("acme", true)

	tmpl, err := f.svc.CreateEndpointTemplate(context.Background(), admin, domain.EndpointTemplate{
		Region:      "north",
		ServiceName: "compute",
		PublicURL:   "https://compute.example.com",
		Enabled:     true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, tmpl.ID)

	endpoint, err := f.svc.CreateEndpointForTenant(context.Background(), admin, "acme", tmpl.ID)
	require.NoError(t, err)

	page, err := f.svc.GetTenantEndpoints(context.Background(), admin, "acme", "", 10, "/v2.0/tenants/acme/endpoints")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, endpoint.ID, page.Items[0].ID)

	require.NoError(t, f.svc.DeleteEndpoint(context.Background(), admin, endpoint.ID))
	page, err = f.svc.GetTenantEndpoints(context.Background(), admin, "acme", "", 10, "/v2.0/tenants/acme/endpoints")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestServiceCatalogLifecycle(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()

	_, err := f.svc.CreateService(context.Background(), admin, domain.Service{ID: "compute", Description: "compute api"})
	require.NoError(t, err)

	_, err = f.svc.CreateService(context.Background(), admin, domain.Service{ID: "compute"})
	assert.True(t, util.HasCode(err, util.CodeConflict))

	svc, err := f.svc.GetService(context.Background(), admin, "compute")
	require.NoError(t, err)
	assert.Equal(t, "compute api", svc.Description)

	require.NoError(t, f.svc.DeleteService(context.Background(), admin, "compute"))
	_, err = f.svc.GetService(context.Background(), admin, "compute")
	assert.True(t, util.HasCode(err, util.CodeNotFound))
}

func TestTenantPagingWalk(t *testing.T) {
	f := newFixture(t)
	admin := f.adminToken()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		f.addTenant(id, true)
	}

	page, err := f.svc.GetTenants(context.Background(), admin, "", 2, "/v2.0/tenants")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].ID)
	assert.Equal(t, "b", page.Items[1].ID)

	page, err = f.svc.GetTenants(context.Background(), admin, "b", 2, "/v2.0/tenants")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c", page.Items[0].ID)
	assert.Equal(t, "d", page.Items[1].ID)

	page, err = f.svc.GetTenants(context.Background(), admin, "d", 2, "/v2.0/tenants")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "e", page.Items[0].ID)
}
