package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowr-io/workflow-service/internal/domain"
)

// TemplateRepository defines persistence access for workflow templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.WorkflowTemplate) error
	Update(ctx context.Context, tpl *domain.WorkflowTemplate) error
	Delete(ctx context.Context, id, organizationID string) error
	GetByID(ctx context.Context, id string) (*domain.WorkflowTemplate, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.WorkflowTemplate, error)
}

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository returns a Postgres-backed implementation.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

func (r *templateRepository) Create(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	structure, err := json.Marshal(tpl.Structure)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO workflow_templates (organization_id, name, description, structure, created_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		tpl.OrganizationID,
		tpl.Name,
		tpl.Description,
		structure,
		tpl.CreatedBy,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
}

func (r *templateRepository) Update(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	structure, err := json.Marshal(tpl.Structure)
	if err != nil {
		return err
	}

	const query = `
        UPDATE workflow_templates
        SET name=$1, description=$2, structure=$3, updated_at=NOW()
        WHERE id=$4 AND organization_id=$5`

	cmd, err := r.pool.Exec(ctx, query, tpl.Name, tpl.Description, structure, tpl.ID, tpl.OrganizationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id, organizationID string) error {
	const query = `DELETE FROM workflow_templates WHERE id=$1 AND organization_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, organizationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTemplate(row pgx.Row) (*domain.WorkflowTemplate, error) {
	var (
		tpl       domain.WorkflowTemplate
		structure []byte
	)
	if err := row.Scan(
		&tpl.ID,
		&tpl.OrganizationID,
		&tpl.Name,
		&tpl.Description,
		&structure,
		&tpl.CreatedBy,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(structure, &tpl.Structure); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.WorkflowTemplate, error) {
	const query = `
        SELECT id, organization_id, name, description, structure, created_by, created_at, updated_at
        FROM workflow_templates WHERE id=$1`
	return scanTemplate(r.pool.QueryRow(ctx, query, id))
}

func (r *templateRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.WorkflowTemplate, error) {
	const query = `
        SELECT id, organization_id, name, description, structure, created_by, created_at, updated_at
        FROM workflow_templates WHERE organization_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.WorkflowTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}
