package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowr-io/workflow-service/internal/domain"
)

// WorkflowRepository defines persistence access for workflow instances and
// their ordered steps and actions.
type WorkflowRepository interface {
	Create(ctx context.Context, wf *domain.Workflow, steps []*domain.WorkflowStep, actions map[int][]*domain.WorkflowStepAction) error
	GetByID(ctx context.Context, id string) (*domain.Workflow, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Workflow, error)
	ListByInitiator(ctx context.Context, initiatorID string) ([]*domain.Workflow, error)
	ListSteps(ctx context.Context, workflowID string) ([]*domain.WorkflowStep, error)
	GetStep(ctx context.Context, stepID string) (*domain.WorkflowStep, error)
	ListActions(ctx context.Context, stepID string) ([]*domain.WorkflowStepAction, error)
	GetAction(ctx context.Context, actionID string) (*domain.WorkflowStepAction, error)
	UpdateWorkflowStatus(ctx context.Context, id string, status domain.WorkflowStatus) error
	UpdateStepStatus(ctx context.Context, id string, status domain.StepStatus) error
	UpdateActionStatus(ctx context.Context, id string, status domain.ActionStatus, data *string) error
}

type workflowRepository struct {
	pool *pgxpool.Pool
}

// NewWorkflowRepository returns a Postgres-backed implementation.
func NewWorkflowRepository(pool *pgxpool.Pool) WorkflowRepository {
	return &workflowRepository{pool: pool}
}

// Create inserts the workflow together with its steps and actions in one
// transaction; actions is keyed by step position.
func (r *workflowRepository) Create(ctx context.Context, wf *domain.Workflow, steps []*domain.WorkflowStep, actions map[int][]*domain.WorkflowStepAction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const wfQuery = `
        INSERT INTO workflows (template_id, organization_id, initiator_id, name, status, priority)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, wfQuery,
		wf.TemplateID,
		wf.OrganizationID,
		wf.InitiatorID,
		wf.Name,
		wf.Status,
		wf.Priority,
	).Scan(&wf.ID, &wf.CreatedAt, &wf.UpdatedAt); err != nil {
		return err
	}

	const stepQuery = `
        INSERT INTO workflow_steps (workflow_id, name, position, assignee_id, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	const actionQuery = `
        INSERT INTO workflow_step_actions (step_id, name, position, type, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	for _, step := range steps {
		step.WorkflowID = wf.ID
		if err := tx.QueryRow(ctx, stepQuery,
			step.WorkflowID,
			step.Name,
			step.Position,
			step.AssigneeID,
			step.Status,
		).Scan(&step.ID, &step.CreatedAt, &step.UpdatedAt); err != nil {
			return err
		}

		for _, action := range actions[step.Position] {
			action.StepID = step.ID
			if err := tx.QueryRow(ctx, actionQuery,
				action.StepID,
				action.Name,
				action.Position,
				action.Type,
				action.Status,
			).Scan(&action.ID, &action.CreatedAt, &action.UpdatedAt); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

const workflowColumns = `id, template_id, organization_id, initiator_id, name, status, priority, created_at, updated_at`

func scanWorkflow(row pgx.Row) (*domain.Workflow, error) {
	var wf domain.Workflow
	if err := row.Scan(
		&wf.ID,
		&wf.TemplateID,
		&wf.OrganizationID,
		&wf.InitiatorID,
		&wf.Name,
		&wf.Status,
		&wf.Priority,
		&wf.CreatedAt,
		&wf.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &wf, nil
}

func (r *workflowRepository) GetByID(ctx context.Context, id string) (*domain.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id=$1`
	return scanWorkflow(r.pool.QueryRow(ctx, query, id))
}

func (r *workflowRepository) listWorkflows(ctx context.Context, query, arg string) ([]*domain.Workflow, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workflows []*domain.Workflow
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return workflows, rows.Err()
}

func (r *workflowRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE organization_id=$1 ORDER BY created_at DESC`
	return r.listWorkflows(ctx, query, organizationID)
}

func (r *workflowRepository) ListByInitiator(ctx context.Context, initiatorID string) ([]*domain.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE initiator_id=$1 ORDER BY created_at DESC`
	return r.listWorkflows(ctx, query, initiatorID)
}

func (r *workflowRepository) ListSteps(ctx context.Context, workflowID string) ([]*domain.WorkflowStep, error) {
	const query = `
        SELECT id, workflow_id, name, position, assignee_id, status, created_at, updated_at
        FROM workflow_steps WHERE workflow_id=$1 ORDER BY position`

	rows, err := r.pool.Query(ctx, query, workflowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []*domain.WorkflowStep
	for rows.Next() {
		var step domain.WorkflowStep
		if err := rows.Scan(
			&step.ID,
			&step.WorkflowID,
			&step.Name,
			&step.Position,
			&step.AssigneeID,
			&step.Status,
			&step.CreatedAt,
			&step.UpdatedAt,
		); err != nil {
			return nil, err
		}
		steps = append(steps, &step)
	}
	return steps, rows.Err()
}

func (r *workflowRepository) GetStep(ctx context.Context, stepID string) (*domain.WorkflowStep, error) {
	const query = `
        SELECT id, workflow_id, name, position, assignee_id, status, created_at, updated_at
        FROM workflow_steps WHERE id=$1`

	var step domain.WorkflowStep
	if err := r.pool.QueryRow(ctx, query, stepID).Scan(
		&step.ID,
		&step.WorkflowID,
		&step.Name,
		&step.Position,
		&step.AssigneeID,
		&step.Status,
		&step.CreatedAt,
		&step.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *workflowRepository) ListActions(ctx context.Context, stepID string) ([]*domain.WorkflowStepAction, error) {
	const query = `
        SELECT id, step_id, name, position, type, status, data, created_at, updated_at
        FROM workflow_step_actions WHERE step_id=$1 ORDER BY position`

	rows, err := r.pool.Query(ctx, query, stepID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*domain.WorkflowStepAction
	for rows.Next() {
		var action domain.WorkflowStepAction
		if err := rows.Scan(
			&action.ID,
			&action.StepID,
			&action.Name,
			&action.Position,
			&action.Type,
			&action.Status,
			&action.Data,
			&action.CreatedAt,
			&action.UpdatedAt,
		); err != nil {
			return nil, err
		}
		actions = append(actions, &action)
	}
	return actions, rows.Err()
}

func (r *workflowRepository) GetAction(ctx context.Context, actionID string) (*domain.WorkflowStepAction, error) {
	const query = `
        SELECT id, step_id, name, position, type, status, data, created_at, updated_at
        FROM workflow_step_actions WHERE id=$1`

	var action domain.WorkflowStepAction
	if err := r.pool.QueryRow(ctx, query, actionID).Scan(
		&action.ID,
		&action.StepID,
		&action.Name,
		&action.Position,
		&action.Type,
		&action.Status,
		&action.Data,
		&action.CreatedAt,
		&action.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &action, nil
}

func (r *workflowRepository) UpdateWorkflowStatus(ctx context.Context, id string, status domain.WorkflowStatus) error {
	return r.updateStatus(ctx, `UPDATE workflows SET status=$1, updated_at=NOW() WHERE id=$2`, string(status), id)
}

func (r *workflowRepository) UpdateStepStatus(ctx context.Context, id string, status domain.StepStatus) error {
	return r.updateStatus(ctx, `UPDATE workflow_steps SET status=$1, updated_at=NOW() WHERE id=$2`, string(status), id)
}

func (r *workflowRepository) UpdateActionStatus(ctx context.Context, id string, status domain.ActionStatus, data *string) error {
	const query = `UPDATE workflow_step_actions SET status=$1, data=COALESCE($2, data), updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, data, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workflowRepository) updateStatus(ctx context.Context, query, status, id string) error {
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
