package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

func TestPageAfter(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, []string{"a", "b"}, pageAfter(keys, "", 2))
	assert.Equal(t, []string{"c", "d"}, pageAfter(keys, "b", 2))
	assert.Equal(t, []string{"e"}, pageAfter(keys, "d", 2))
	assert.Nil(t, pageAfter(keys, "e", 2))
	// marker need not be an existing key
	assert.Equal(t, []string{"c", "d"}, pageAfter(keys, "bb", 2))
}

func TestPageMarkersWalk(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}

	prev, next := pageMarkers(keys, "", 2)
	assert.Nil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, "b", *next)

	prev, next = pageMarkers(keys, "b", 2)
	require.NotNil(t, prev)
	assert.Equal(t, "", *prev)
	require.NotNil(t, next)
	assert.Equal(t, "d", *next)

	prev, next = pageMarkers(keys, "d", 2)
	require.NotNil(t, prev)
	assert.Equal(t, "b", *prev)
	assert.Nil(t, next)
}

func TestPageMarkersSinglePage(t *testing.T) {
	keys := []string{"a", "b"}

	prev, next := pageMarkers(keys, "", 10)
	assert.Nil(t, prev)
	assert.Nil(t, next)
}

func TestTokenRepoScopedLookups(t *testing.T) {
	backend, _ := NewBackend()
	ctx := context.Background()
	acme := "acme"

	require.NoError(t, backend.Tokens.Create(ctx, &domain.Token{ID: "t1", UserID: "joe"}))
	require.NoError(t, backend.Tokens.Create(ctx, &domain.Token{ID: "t2", UserID: "joe", TenantID: &acme}))

	token, err := backend.Tokens.GetForUser(ctx, "joe")
	require.NoError(t, err)
	assert.Equal(t, "t1", token.ID)

	token, err = backend.Tokens.GetForUserByTenant(ctx, "joe", "acme")
	require.NoError(t, err)
	assert.Equal(t, "t2", token.ID)

	_, err = backend.Tokens.GetForUserByTenant(ctx, "joe", "umbrella")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepoTenantPageSpansRoleScopedMembers(t *testing.T) {
	backend, _ := NewBackend()
	ctx := context.Background()
	acme := "acme"

	require.NoError(t, backend.Users.Create(ctx, &domain.User{ID: "joe", TenantID: &acme}))
	require.NoError(t, backend.Users.Create(ctx, &domain.User{ID: "visitor"}))
	require.NoError(t, backend.Users.AddRoleRef(ctx, &domain.RoleRef{ID: "ref-1", UserID: "visitor", RoleID: "Member", TenantID: &acme}))

	users, err := backend.Users.GetByTenantPage(ctx, "acme", "", 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	assert.Equal(t, []string{"joe", "visitor"}, ids)

	prev, next, err := backend.Users.GetByTenantPageMarkers(ctx, "acme", "joe", 1)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "", *prev)
	assert.Nil(t, next)
}

func TestUserRepoDuplicate(t *testing.T) {
	backend, _ := NewBackend()
	ctx := context.Background()

	require.NoError(t, backend.Users.Create(ctx, &domain.User{ID: "joe"}))
	err := backend.Users.Create(ctx, &domain.User{ID: "joe"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestTenantRepoIsEmpty(t *testing.T) {
	backend, _ := NewBackend()
	ctx := context.Background()
	acme := "acme"

	require.NoError(t, backend.Tenants.Create(ctx, &domain.Tenant{ID: "acme", Enabled: true}))
	empty, err := backend.Tenants.IsEmpty(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, backend.Users.Create(ctx, &domain.User{ID: "joe", TenantID: &acme}))
	empty, err = backend.Tenants.IsEmpty(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, empty)
}
