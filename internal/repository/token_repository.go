package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

type tokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a Postgres-backed implementation.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepository{pool: pool}
}

func (r *tokenRepository) Create(ctx context.Context, token *domain.Token) error {
	const query = `
        INSERT INTO tokens (id, user_id, tenant_id, expires)
        VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, token.ID, token.UserID, token.TenantID, token.Expires)
	return mapPgError(err)
}

func (r *tokenRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tokens WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tokenRepository) GetByID(ctx context.Context, id string) (*domain.Token, error) {
	const query = `
        SELECT id, user_id, tenant_id, expires
        FROM tokens WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *tokenRepository) GetForUser(ctx context.Context, userID string) (*domain.Token, error) {
	// Latest-expiring unscoped token; concurrent authenticates may have left
	// more than one live token for a user.
	const query = `
        SELECT id, user_id, tenant_id, expires
        FROM tokens WHERE user_id=$1 AND tenant_id IS NULL
        ORDER BY expires DESC LIMIT 1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *tokenRepository) GetForUserByTenant(ctx context.Context, userID, tenantID string) (*domain.Token, error) {
	const query = `
        SELECT id, user_id, tenant_id, expires
        FROM tokens WHERE user_id=$1 AND tenant_id=$2
        ORDER BY expires DESC LIMIT 1`
	return r.fetchSingle(ctx, query, userID, tenantID)
}

func (r *tokenRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Token, error) {
	var token domain.Token
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&token.ID,
		&token.UserID,
		&token.TenantID,
		&token.Expires,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &token, nil
}
