package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

// tenantsForUserFilter narrows the tenants relation to those a user is
// associated with: the default tenant plus tenant-scoped role assignments.
const tenantsForUserFilter = `id IN (
        SELECT tenant_id FROM users WHERE id=$1 AND tenant_id IS NOT NULL
        UNION
        SELECT tenant_id FROM user_roles WHERE user_id=$1 AND tenant_id IS NOT NULL)`

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository returns a Postgres-backed implementation.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	const query = `
        INSERT INTO tenants (id, description, enabled)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		tenant.ID,
		tenant.Description,
		tenant.Enabled,
	).Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	return mapPgError(err)
}

func (r *tenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	const query = `
        UPDATE tenants SET description=$1, enabled=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, tenant.Description, tenant.Enabled, tenant.ID)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tenantRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tenants WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	const query = `
        SELECT id, description, enabled, created_at, updated_at
        FROM tenants WHERE id=$1`
	var tenant domain.Tenant
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.Description,
		&tenant.Enabled,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &tenant, nil
}

func (r *tenantRepository) IsEmpty(ctx context.Context, id string) (bool, error) {
	const query = `SELECT NOT EXISTS(SELECT 1 FROM users WHERE tenant_id=$1)`
	var empty bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&empty); err != nil {
		return false, mapPgError(err)
	}
	return empty, nil
}

func (r *tenantRepository) GetPage(ctx context.Context, marker string, limit int) ([]domain.Tenant, error) {
	const query = `
        SELECT id, description, enabled, created_at, updated_at
        FROM tenants WHERE ($1 = '' OR id > $1) ORDER BY id LIMIT $2`
	rows, err := r.pool.Query(ctx, query, marker, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanTenants(rows)
}

func (r *tenantRepository) GetPageMarkers(ctx context.Context, marker string, limit int) (*string, *string, error) {
	rel := pagedRelation{pool: r.pool, table: "tenants", keyCol: "id"}
	return rel.markers(ctx, marker, limit)
}

func (r *tenantRepository) GetForUserPage(ctx context.Context, userID, marker string, limit int) ([]domain.Tenant, error) {
	const query = `
        SELECT id, description, enabled, created_at, updated_at
        FROM tenants WHERE ` + tenantsForUserFilter + `
        AND ($2 = '' OR id > $2) ORDER BY id LIMIT $3`
	rows, err := r.pool.Query(ctx, query, userID, marker, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanTenants(rows)
}

func (r *tenantRepository) GetForUserPageMarkers(ctx context.Context, userID, marker string, limit int) (*string, *string, error) {
	rel := pagedRelation{pool: r.pool, table: "tenants", keyCol: "id", filter: tenantsForUserFilter, args: []any{userID}}
	return rel.markers(ctx, marker, limit)
}

func scanTenants(rows pgx.Rows) ([]domain.Tenant, error) {
	var result []domain.Tenant
	for rows.Next() {
		var tenant domain.Tenant
		if err := rows.Scan(
			&tenant.ID,
			&tenant.Description,
			&tenant.Enabled,
			&tenant.CreatedAt,
			&tenant.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tenant)
	}
	return result, rows.Err()
}
