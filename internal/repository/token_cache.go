package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/identity-service/internal/domain"
)

const tokenCachePrefix = "token:"

// cachedTokenRepository is a read-through cache over a TokenRepository.
// Entries live at most until the token's own expiry, so a cache hit can
// never outlive the token; revocation deletes the cache entry before the
// backing record.
type cachedTokenRepository struct {
	inner  TokenRepository
	client *redis.Client
}

// NewCachedTokenRepository decorates inner with a redis cache for by-id
// lookups, the hot path of every validate call.
func NewCachedTokenRepository(inner TokenRepository, client *redis.Client) TokenRepository {
	return &cachedTokenRepository{inner: inner, client: client}
}

func (r *cachedTokenRepository) Create(ctx context.Context, token *domain.Token) error {
	if err := r.inner.Create(ctx, token); err != nil {
		return err
	}
	r.store(ctx, token)
	return nil
}

func (r *cachedTokenRepository) Delete(ctx context.Context, id string) error {
	// Cache entry goes first so a failed backend delete never leaves a
	// stale positive hit.
	r.client.Del(ctx, tokenCachePrefix+id)
	return r.inner.Delete(ctx, id)
}

func (r *cachedTokenRepository) GetByID(ctx context.Context, id string) (*domain.Token, error) {
	// Cache misses and cache failures both fall through to the backend.
	payload, err := r.client.Get(ctx, tokenCachePrefix+id).Bytes()
	if err == nil {
		var token domain.Token
		if unmarshalErr := json.Unmarshal(payload, &token); unmarshalErr == nil {
			return &token, nil
		}
	}

	token, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, token)
	return token, nil
}

func (r *cachedTokenRepository) GetForUser(ctx context.Context, userID string) (*domain.Token, error) {
	return r.inner.GetForUser(ctx, userID)
}

func (r *cachedTokenRepository) GetForUserByTenant(ctx context.Context, userID, tenantID string) (*domain.Token, error) {
	return r.inner.GetForUserByTenant(ctx, userID, tenantID)
}

func (r *cachedTokenRepository) store(ctx context.Context, token *domain.Token) {
	ttl := time.Until(token.Expires)
	if ttl <= 0 {
		return
	}
	payload, err := json.Marshal(token)
	if err != nil {
		return
	}
	r.client.Set(ctx, tokenCachePrefix+token.ID, payload, ttl)
}
