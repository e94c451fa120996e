package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, email, password_hash, enabled, tenant_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Enabled,
		user.TenantID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapPgError(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, password_hash=$2, enabled=$3, tenant_id=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Enabled,
		user.TenantID,
		user.ID,
	)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, enabled, tenant_id, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, enabled, tenant_id, created_at, updated_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) GetByTenant(ctx context.Context, id, tenantID string) (*domain.User, error) {
	const query = `
        SELECT u.id, u.email, u.password_hash, u.enabled, u.tenant_id, u.created_at, u.updated_at
        FROM users u
        WHERE u.id=$1 AND (u.tenant_id=$2 OR EXISTS (
            SELECT 1 FROM user_roles ur WHERE ur.user_id=u.id AND ur.tenant_id=$2))`
	return r.fetchSingle(ctx, query, id, tenantID)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Enabled,
		&user.TenantID,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &user, nil
}

func (r *userRepository) GetPage(ctx context.Context, marker string, limit int) ([]domain.User, error) {
	const query = `
        SELECT id, email, password_hash, enabled, tenant_id, created_at, updated_at
        FROM users WHERE ($1 = '' OR id > $1) ORDER BY id LIMIT $2`
	rows, err := r.pool.Query(ctx, query, marker, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) GetPageMarkers(ctx context.Context, marker string, limit int) (*string, *string, error) {
	rel := pagedRelation{pool: r.pool, table: "users", keyCol: "id"}
	return rel.markers(ctx, marker, limit)
}

// tenantMembersFilter matches the membership predicate of GetByTenant:
// default tenant or a tenant-scoped role assignment.
const tenantMembersFilter = `(tenant_id=$1 OR EXISTS (
            SELECT 1 FROM user_roles ur WHERE ur.user_id=users.id AND ur.tenant_id=$1))`

func (r *userRepository) GetByTenantPage(ctx context.Context, tenantID, marker string, limit int) ([]domain.User, error) {
	const query = `
        SELECT id, email, password_hash, enabled, tenant_id, created_at, updated_at
        FROM users WHERE ` + tenantMembersFilter + `
        AND ($2 = '' OR id > $2) ORDER BY id LIMIT $3`
	rows, err := r.pool.Query(ctx, query, tenantID, marker, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) GetByTenantPageMarkers(ctx context.Context, tenantID, marker string, limit int) (*string, *string, error) {
	rel := pagedRelation{pool: r.pool, table: "users", keyCol: "id", filter: tenantMembersFilter, args: []any{tenantID}}
	return rel.markers(ctx, marker, limit)
}

func (r *userRepository) AddRoleRef(ctx context.Context, ref *domain.RoleRef) error {
	const query = `
        INSERT INTO user_roles (id, user_id, role_id, tenant_id)
        VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, ref.ID, ref.UserID, ref.RoleID, ref.TenantID)
	return mapPgError(err)
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Enabled,
			&user.TenantID,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
