package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLifecycle(f *fixture) *TokenLifecycle {
	return NewTokenLifecycle(f.backend.Tokens, 24*time.Hour, func() time.Time { return f.now })
}

func TestLifecycleMintsWhenNoneExists(t *testing.T) {
	f := newFixture(t)
	lc := newLifecycle(f)
	f.addUser("joe", "secret", true, nil)

	token, reused, err := lc.IssueOrReuse(context.Background(), "joe", nil)
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, testNow.Add(24*time.Hour), token.Expires)
	assert.Nil(t, token.TenantID)
}

func TestLifecycleReusesUnexpired(t *testing.T) {
	f := newFixture(t)
	lc := newLifecycle(f)
	f.addUser("joe", "secret", true, nil)
	f.addToken("live", "joe", nil, testNow.Add(time.Minute))

	token, reused, err := lc.IssueOrReuse(context.Background(), "joe", nil)
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, "live", token.ID)
}

func TestLifecycleSupersedesExpired(t *testing.T) {
	f := newFixture(t)
	lc := newLifecycle(f)
	f.addUser("joe", "secret", true, nil)
	f.addToken("stale", "joe", nil, testNow)

	token, reused, err := lc.IssueOrReuse(context.Background(), "joe", nil)
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotEqual(t, "stale", token.ID)

	_, err = f.backend.Tokens.GetByID(context.Background(), "stale")
	assert.NoError(t, err)
}

func TestLifecycleScopeIsolation(t *testing.T) {
	f := newFixture(t)
	lc := newLifecycle(f)
	f.addUser("joe", "secret", true, nil)
	f.addToken("scoped", "joe", strp("acme"), testNow.Add(time.Hour))

	token, reused, err := lc.IssueOrReuse(context.Background(), "joe", nil)
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotEqual(t, "scoped", token.ID)

	token, reused, err = lc.IssueOrReuse(context.Background(), "joe", strp("acme"))
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, "scoped", token.ID)
}

func TestLifecycleScopedMint(t *testing.T) {
	f := newFixture(t)
	lc := newLifecycle(f)
	f.addUser("joe", "secret", true, nil)

	token, reused, err := lc.IssueOrReuse(context.Background(), "joe", strp("acme"))
	require.NoError(t, err)
	assert.False(t, reused)
	require.NotNil(t, token.TenantID)
	assert.Equal(t, "acme", *token.TenantID)
}
