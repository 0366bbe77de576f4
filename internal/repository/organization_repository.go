package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowr-io/workflow-service/internal/domain"
)

// OrganizationRepository defines persistence access for organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
}

type organizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository returns a Postgres-backed implementation.
func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &organizationRepository{pool: pool}
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	const query = `
        INSERT INTO organizations (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, org.Name).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM organizations WHERE id=$1`

	var org domain.Organization
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.CreatedAt,
		&org.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &org, nil
}
