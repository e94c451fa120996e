package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/pkg/util"
)

func newGuard(f *fixture) *Guard {
	return NewGuard(f.backend, "Admin", func() time.Time { return f.now })
}

func TestGuardMissingToken(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)

	_, _, err := guard.Validate(context.Background(), "", nil)
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))
}

func TestGuardUnknownToken(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)

	_, _, err := guard.Validate(context.Background(), "no-such-token", nil)
	assert.True(t, util.HasCode(err, util.CodeNotFound))
}

func TestGuardExpiredToken(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)
	f.addUser("joe", "secret", true, nil)
	f.addToken("joe-token", "joe", nil, testNow)

	// a token expiring exactly now is already expired
	_, _, err := guard.Validate(context.Background(), "joe-token", nil)
	assert.True(t, util.HasCode(err, util.CodeForbidden))
}

func TestGuardExpiryCheckedBeforeEnablement(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)
	f.addUser("joe", "secret", false, nil)
	f.addToken("joe-token", "joe", nil, testNow.Add(-time.Minute))

	_, _, err := guard.Validate(context.Background(), "joe-token", nil)
	assert.True(t, util.HasCode(err, util.CodeForbidden))
}

func TestGuardDisabledUser(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)
	f.addUser("joe", "secret", false, nil)
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	_, _, err := guard.Validate(context.Background(), "joe-token", nil)
	assert.True(t, util.HasCode(err, util.CodeUserDisabled))
}

func TestGuardDisabledDefaultTenant(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)
	f.addTenant("acme", false)
	f.addUser("joe", "secret", true, strp("acme"))
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	_, _, err := guard.Validate(context.Background(), "joe-token", nil)
	assert.True(t, util.HasCode(err, util.CodeTenantDisabled))
}

func TestGuardMissingScopeTenant(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)
	f.addUser("joe", "secret", true, nil)
	f.addToken("joe-token", "joe", strp("ghost"), testNow.Add(time.Hour))

	_, _, err := guard.Validate(context.Background(), "joe-token", nil)
	assert.True(t, util.HasCode(err, util.CodeTenantDisabled))
}

func TestGuardBelongsToRejectsUnscopedToken(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, nil)
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	_, _, err := guard.Validate(context.Background(), "joe-token", strp("acme"))
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))
}

func TestGuardValidTokenReturnsOwner(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, strp("acme"))
	f.addToken("joe-token", "joe", strp("acme"), testNow.Add(time.Hour))

	token, user, err := guard.Validate(context.Background(), "joe-token", strp("acme"))
	require.NoError(t, err)
	assert.Equal(t, "joe-token", token.ID)
	assert.Equal(t, "joe", user.ID)
}

func TestGuardAdminRequiresGlobalRef(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)
	f.addTenant("acme", true)
	f.addUser("joe", "secret", true, nil)
	f.addRole("Admin")
	f.addRef("ref-1", "joe", "Admin", strp("acme"))
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	// a tenant-scoped assignment of the admin role does not qualify
	_, _, err := guard.ValidateAdmin(context.Background(), "joe-token")
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))

	f.addRef("ref-2", "joe", "Admin", nil)
	_, _, err = guard.ValidateAdmin(context.Background(), "joe-token")
	assert.NoError(t, err)
}

func TestGuardAdminRejectsOtherGlobalRole(t *testing.T) {
	f := newFixture(t)
	guard := newGuard(f)
	f.addUser("joe", "secret", true, nil)
	f.addRole("Member")
	f.addRef("ref-1", "joe", "Member", nil)
	f.addToken("joe-token", "joe", nil, testNow.Add(time.Hour))

	_, _, err := guard.ValidateAdmin(context.Background(), "joe-token")
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))
}
