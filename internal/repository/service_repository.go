package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

type serviceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository returns a Postgres-backed implementation.
func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

func (r *serviceRepository) Create(ctx context.Context, svc *domain.Service) error {
	const query = `INSERT INTO services (id, description) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, query, svc.ID, svc.Description)
	return mapPgError(err)
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	const query = `SELECT id, description FROM services WHERE id=$1`
	var svc domain.Service
	if err := r.pool.QueryRow(ctx, query, id).Scan(&svc.ID, &svc.Description); err != nil {
		return nil, mapPgError(err)
	}
	return &svc, nil
}

func (r *serviceRepository) GetPage(ctx context.Context, marker string, limit int) ([]domain.Service, error) {
	const query = `
        SELECT id, description FROM services
        WHERE ($1 = '' OR id > $1) ORDER BY id LIMIT $2`
	rows, err := r.pool.Query(ctx, query, marker, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Service
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.ID, &svc.Description); err != nil {
			return nil, err
		}
		result = append(result, svc)
	}
	return result, rows.Err()
}

func (r *serviceRepository) GetPageMarkers(ctx context.Context, marker string, limit int) (*string, *string, error) {
	rel := pagedRelation{pool: r.pool, table: "services", keyCol: "id"}
	return rel.markers(ctx, marker, limit)
}
