package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `INSERT INTO roles (id, description) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, query, role.ID, role.Description)
	return mapPgError(err)
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	const query = `SELECT id, description FROM roles WHERE id=$1`
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, id).Scan(&role.ID, &role.Description); err != nil {
		return nil, mapPgError(err)
	}
	return &role, nil
}

func (r *roleRepository) GetPage(ctx context.Context, marker string, limit int) ([]domain.Role, error) {
	const query = `
        SELECT id, description FROM roles
        WHERE ($1 = '' OR id > $1) ORDER BY id LIMIT $2`
	rows, err := r.pool.Query(ctx, query, marker, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Description); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *roleRepository) GetPageMarkers(ctx context.Context, marker string, limit int) (*string, *string, error) {
	rel := pagedRelation{pool: r.pool, table: "roles", keyCol: "id"}
	return rel.markers(ctx, marker, limit)
}

func (r *roleRepository) GetRef(ctx context.Context, refID string) (*domain.RoleRef, error) {
	const query = `
        SELECT id, user_id, role_id, tenant_id FROM user_roles WHERE id=$1`
	var ref domain.RoleRef
	if err := r.pool.QueryRow(ctx, query, refID).Scan(
		&ref.ID,
		&ref.UserID,
		&ref.RoleID,
		&ref.TenantID,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &ref, nil
}

func (r *roleRepository) DeleteRef(ctx context.Context, refID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE id=$1`, refID)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roleRepository) GetGlobalRefs(ctx context.Context, userID string) ([]domain.RoleRef, error) {
	const query = `
        SELECT id, user_id, role_id, tenant_id FROM user_roles
        WHERE user_id=$1 AND tenant_id IS NULL ORDER BY id`
	return r.fetchRefs(ctx, query, userID)
}

func (r *roleRepository) GetTenantRefs(ctx context.Context, userID, tenantID string) ([]domain.RoleRef, error) {
	const query = `
        SELECT id, user_id, role_id, tenant_id FROM user_roles
        WHERE user_id=$1 AND tenant_id=$2 ORDER BY id`
	return r.fetchRefs(ctx, query, userID, tenantID)
}

func (r *roleRepository) GetRefPage(ctx context.Context, userID, marker string, limit int) ([]domain.RoleRef, error) {
	const query = `
        SELECT id, user_id, role_id, tenant_id FROM user_roles
        WHERE user_id=$1 AND ($2 = '' OR id > $2) ORDER BY id LIMIT $3`
	return r.fetchRefs(ctx, query, userID, marker, limit)
}

func (r *roleRepository) GetRefPageMarkers(ctx context.Context, userID, marker string, limit int) (*string, *string, error) {
	rel := pagedRelation{pool: r.pool, table: "user_roles", keyCol: "id", filter: "user_id=$1", args: []any{userID}}
	return rel.markers(ctx, marker, limit)
}

func (r *roleRepository) fetchRefs(ctx context.Context, query string, args ...any) ([]domain.RoleRef, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanRoleRefs(rows)
}

func scanRoleRefs(rows pgx.Rows) ([]domain.RoleRef, error) {
	var result []domain.RoleRef
	for rows.Next() {
		var ref domain.RoleRef
		if err := rows.Scan(&ref.ID, &ref.UserID, &ref.RoleID, &ref.TenantID); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	return result, rows.Err()
}
