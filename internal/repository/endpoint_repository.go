package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

type endpointRepository struct {
	pool *pgxpool.Pool
}

// NewEndpointRepository returns a Postgres-backed implementation.
func NewEndpointRepository(pool *pgxpool.Pool) EndpointRepository {
	return &endpointRepository{pool: pool}
}

func (r *endpointRepository) CreateTemplate(ctx context.Context, tmpl *domain.EndpointTemplate) error {
	const query = `
        INSERT INTO endpoint_templates (id, region, service_name, public_url, admin_url, internal_url, enabled, is_global)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		tmpl.ID,
		tmpl.Region,
		tmpl.ServiceName,
		tmpl.PublicURL,
		tmpl.AdminURL,
		tmpl.InternalURL,
		tmpl.Enabled,
		tmpl.Global,
	)
	return mapPgError(err)
}

func (r *endpointRepository) DeleteTemplate(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM endpoint_templates WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *endpointRepository) GetTemplate(ctx context.Context, id string) (*domain.EndpointTemplate, error) {
	const query = `
        SELECT id, region, service_name, public_url, admin_url, internal_url, enabled, is_global
        FROM endpoint_templates WHERE id=$1`
	var tmpl domain.EndpointTemplate
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tmpl.ID,
		&tmpl.Region,
		&tmpl.ServiceName,
		&tmpl.PublicURL,
		&tmpl.AdminURL,
		&tmpl.InternalURL,
		&tmpl.Enabled,
		&tmpl.Global,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &tmpl, nil
}

func (r *endpointRepository) GetTemplatePage(ctx context.Context, marker string, limit int) ([]domain.EndpointTemplate, error) {
	const query = `
        SELECT id, region, service_name, public_url, admin_url, internal_url, enabled, is_global
        FROM endpoint_templates WHERE ($1 = '' OR id > $1) ORDER BY id LIMIT $2`
	rows, err := r.pool.Query(ctx, query, marker, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.EndpointTemplate
	for rows.Next() {
		var tmpl domain.EndpointTemplate
		if err := rows.Scan(
			&tmpl.ID,
			&tmpl.Region,
			&tmpl.ServiceName,
			&tmpl.PublicURL,
			&tmpl.AdminURL,
			&tmpl.InternalURL,
			&tmpl.Enabled,
			&tmpl.Global,
		); err != nil {
			return nil, err
		}
		result = append(result, tmpl)
	}
	return result, rows.Err()
}

func (r *endpointRepository) GetTemplatePageMarkers(ctx context.Context, marker string, limit int) (*string, *string, error) {
	rel := pagedRelation{pool: r.pool, table: "endpoint_templates", keyCol: "id"}
	return rel.markers(ctx, marker, limit)
}

func (r *endpointRepository) AddEndpoint(ctx context.Context, endpoint *domain.Endpoint) error {
	const query = `
        INSERT INTO endpoints (id, tenant_id, template_id) VALUES ($1, $2, $3)`
	_, err := r.pool.Exec(ctx, query, endpoint.ID, endpoint.TenantID, endpoint.TemplateID)
	return mapPgError(err)
}

func (r *endpointRepository) DeleteEndpoint(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM endpoints WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *endpointRepository) GetEndpoint(ctx context.Context, id string) (*domain.Endpoint, error) {
	const query = `SELECT id, tenant_id, template_id FROM endpoints WHERE id=$1`
	var endpoint domain.Endpoint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&endpoint.ID,
		&endpoint.TenantID,
		&endpoint.TemplateID,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &endpoint, nil
}

func (r *endpointRepository) GetAllByTenant(ctx context.Context, tenantID string) ([]domain.Endpoint, error) {
	const query = `
        SELECT id, tenant_id, template_id FROM endpoints WHERE tenant_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanEndpoints(rows)
}

func (r *endpointRepository) GetByTenantPage(ctx context.Context, tenantID, marker string, limit int) ([]domain.Endpoint, error) {
	const query = `
        SELECT id, tenant_id, template_id FROM endpoints
        WHERE tenant_id=$1 AND ($2 = '' OR id > $2) ORDER BY id LIMIT $3`
	rows, err := r.pool.Query(ctx, query, tenantID, marker, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanEndpoints(rows)
}

func (r *endpointRepository) GetByTenantPageMarkers(ctx context.Context, tenantID, marker string, limit int) (*string, *string, error) {
	rel := pagedRelation{pool: r.pool, table: "endpoints", keyCol: "id", filter: "tenant_id=$1", args: []any{tenantID}}
	return rel.markers(ctx, marker, limit)
}

func scanEndpoints(rows pgx.Rows) ([]domain.Endpoint, error) {
	var result []domain.Endpoint
	for rows.Next() {
		var endpoint domain.Endpoint
		if err := rows.Scan(&endpoint.ID, &endpoint.TenantID, &endpoint.TemplateID); err != nil {
			return nil, err
		}
		result = append(result, endpoint)
	}
	return result, rows.Err()
}
