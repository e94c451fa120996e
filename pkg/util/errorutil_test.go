package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCodeMatchesWrappedError(t *testing.T) {
	err := fmt.Errorf("lookup failed: %w", NewNotFound("tenant", nil))

	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeUnauthorized))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}

func TestIsUnauthorizedIsCodeSpecific(t *testing.T) {
	assert.True(t, IsUnauthorized(NewUnauthorized("no")))
	assert.False(t, IsUnauthorized(NewForbidden("expired")))
	assert.False(t, IsUnauthorized(NewUserDisabled("disabled")))
	assert.False(t, IsUnauthorized(NewTenantDisabled("disabled")))
	assert.False(t, IsUnauthorized(NewNotFound("token", nil)))
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	orig := NewConflict("duplicate", map[string]any{"id": "x"})
	mapped := ToDomainError(orig)
	assert.Equal(t, CodeConflict, mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("boom")
	mapped := ToDomainError(cause)
	require.NotNil(t, mapped)
	assert.Equal(t, CodeInternal, mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	assert.ErrorIs(t, mapped, cause)
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ToDomainError(NewValidationError("bad", nil)).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(NewUnauthorized("no")).HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ToDomainError(NewForbidden("expired")).HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ToDomainError(NewUserDisabled("off")).HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ToDomainError(NewTenantDisabled("off")).HTTPStatus)
	assert.Equal(t, http.StatusNotFound, ToDomainError(NewNotFound("user", nil)).HTTPStatus)
	assert.Equal(t, http.StatusPreconditionFailed, ToDomainError(NewPreconditionFailed("not empty", nil)).HTTPStatus)
}
