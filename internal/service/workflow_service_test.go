package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowr-io/workflow-service/internal/auth"
	"github.com/flowr-io/workflow-service/internal/domain"
	"github.com/flowr-io/workflow-service/internal/events"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

// memoryWorkflowRepo is an in-memory WorkflowRepository for service tests.
type memoryWorkflowRepo struct {
	mu        sync.Mutex
	workflows map[string]*domain.Workflow
	steps     map[string]*domain.WorkflowStep
	actions   map[string]*domain.WorkflowStepAction
}

func newMemoryWorkflowRepo() *memoryWorkflowRepo {
	return &memoryWorkflowRepo{
		workflows: make(map[string]*domain.Workflow),
		steps:     make(map[string]*domain.WorkflowStep),
		actions:   make(map[string]*domain.WorkflowStepAction),
	}
}

func (r *memoryWorkflowRepo) Create(_ context.Context, wf *domain.Workflow, steps []*domain.WorkflowStep, actions map[int][]*domain.WorkflowStepAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf.ID = uuid.NewString()
	clone := *wf
	r.workflows[wf.ID] = &clone
	for _, step := range steps {
		step.ID = uuid.NewString()
		step.WorkflowID = wf.ID
		stepClone := *step
		r.steps[step.ID] = &stepClone
		for _, action := range actions[step.Position] {
			action.ID = uuid.NewString()
			action.StepID = step.ID
			actionClone := *action
			r.actions[action.ID] = &actionClone
		}
	}
	return nil
}

func (r *memoryWorkflowRepo) GetByID(_ context.Context, id string) (*domain.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.workflows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *wf
	return &clone, nil
}

func (r *memoryWorkflowRepo) ListByOrganization(_ context.Context, organizationID string) ([]*domain.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Workflow
	for _, wf := range r.workflows {
		if wf.OrganizationID == organizationID {
			clone := *wf
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryWorkflowRepo) ListByInitiator(_ context.Context, initiatorID string) ([]*domain.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Workflow
	for _, wf := range r.workflows {
		if wf.InitiatorID == initiatorID {
			clone := *wf
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryWorkflowRepo) ListSteps(_ context.Context, workflowID string) ([]*domain.WorkflowStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.WorkflowStep
	for _, step := range r.steps {
		if step.WorkflowID == workflowID {
			clone := *step
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memoryWorkflowRepo) GetStep(_ context.Context, stepID string) (*domain.WorkflowStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	step, ok := r.steps[stepID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *step
	return &clone, nil
}

func (r *memoryWorkflowRepo) ListActions(_ context.Context, stepID string) ([]*domain.WorkflowStepAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.WorkflowStepAction
	for _, action := range r.actions {
		if action.StepID == stepID {
			clone := *action
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memoryWorkflowRepo) GetAction(_ context.Context, actionID string) (*domain.WorkflowStepAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	action, ok := r.actions[actionID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *action
	return &clone, nil
}

func (r *memoryWorkflowRepo) UpdateWorkflowStatus(_ context.Context, id string, status domain.WorkflowStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.workflows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	wf.Status = status
	return nil
}

func (r *memoryWorkflowRepo) UpdateStepStatus(_ context.Context, id string, status domain.StepStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	step, ok := r.steps[id]
	if !ok {
		return pgx.ErrNoRows
	}
	step.Status = status
	return nil
}

func (r *memoryWorkflowRepo) UpdateActionStatus(_ context.Context, id string, status domain.ActionStatus, data *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	action, ok := r.actions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	action.Status = status
	if data != nil {
		action.Data = data
	}
	return nil
}

// memoryTemplateRepo is an in-memory TemplateRepository for service tests.
type memoryTemplateRepo struct {
	mu        sync.Mutex
	templates map[string]*domain.WorkflowTemplate
}

func newMemoryTemplateRepo() *memoryTemplateRepo {
	return &memoryTemplateRepo{templates: make(map[string]*domain.WorkflowTemplate)}
}

func (r *memoryTemplateRepo) Create(_ context.Context, tpl *domain.WorkflowTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	clone := *tpl
	r.templates[tpl.ID] = &clone
	return nil
}

func (r *memoryTemplateRepo) Update(_ context.Context, tpl *domain.WorkflowTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[tpl.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *tpl
	r.templates[tpl.ID] = &clone
	return nil
}

func (r *memoryTemplateRepo) Delete(_ context.Context, id, organizationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl, ok := r.templates[id]
	if !ok || tpl.OrganizationID != organizationID {
		return pgx.ErrNoRows
	}
	delete(r.templates, id)
	return nil
}

func (r *memoryTemplateRepo) GetByID(_ context.Context, id string) (*domain.WorkflowTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl, ok := r.templates[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *tpl
	return &clone, nil
}

func (r *memoryTemplateRepo) ListByOrganization(_ context.Context, organizationID string) ([]*domain.WorkflowTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.WorkflowTemplate
	for _, tpl := range r.templates {
		if tpl.OrganizationID == organizationID {
			clone := *tpl
			out = append(out, &clone)
		}
	}
	return out, nil
}

type workflowTestEnv struct {
	workflows  *memoryWorkflowRepo
	templates  *memoryTemplateRepo
	dispatcher *recordingDispatcher
	svc        *WorkflowService
	actor      *auth.Identity
	templateID string
}

func newWorkflowTestEnv(t *testing.T) *workflowTestEnv {
	t.Helper()

	workflows := newMemoryWorkflowRepo()
	templates := newMemoryTemplateRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewWorkflowService(workflows, templates, dispatcher, zap.NewNop())

	actor := &auth.Identity{
		UserID:         uuid.New(),
		Email:          "staff@acme.test",
		Role:           domain.RoleStaff,
		OrganizationID: uuid.New(),
	}

	tpl := &domain.WorkflowTemplate{
		OrganizationID: actor.OrganizationID.String(),
		Name:           "Onboarding",
		Structure: domain.TemplateStructure{
			Steps: []domain.TemplateStep{
				{
					Name:     "Paperwork",
					Position: 1,
					Actions: []domain.TemplateAction{
						{Name: "Upload contract", Position: 1, Type: domain.ActionTypeFileUpload},
						{Name: "Sign contract", Position: 2, Type: domain.ActionTypeSignature},
					},
				},
				{
					Name:     "Review",
					Position: 2,
					Actions: []domain.TemplateAction{
						{Name: "Manager review", Position: 1, Type: domain.ActionTypeReview},
					},
				},
			},
		},
		CreatedBy: uuid.NewString(),
	}
	require.NoError(t, templates.Create(context.Background(), tpl))

	return &workflowTestEnv{
		workflows:  workflows,
		templates:  templates,
		dispatcher: dispatcher,
		svc:        svc,
		actor:      actor,
		templateID: tpl.ID,
	}
}

func TestInitiate(t *testing.T) {
	env := newWorkflowTestEnv(t)
	ctx := context.Background()

	wf, err := env.svc.Initiate(ctx, env.actor, env.templateID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", wf.Name)
	assert.Equal(t, domain.WorkflowStatusActive, wf.Status)
	assert.Equal(t, domain.PriorityMedium, wf.Priority)

	details, err := env.svc.Details(ctx, env.actor, wf.ID)
	require.NoError(t, err)
	require.Len(t, details.Steps, 2)
	assert.Equal(t, domain.StepStatusInProgress, details.Steps[0].Step.Status)
	assert.Equal(t, domain.StepStatusPending, details.Steps[1].Step.Status)
	require.Len(t, details.Steps[0].Actions, 2)
	assert.Equal(t, domain.ActionStatusPending, details.Steps[0].Actions[0].Status)

	_, ok := env.dispatcher.lastOfType(events.EventWorkflowInitiated)
	assert.True(t, ok)
}

func TestInitiateForeignTemplateReadsAsAbsent(t *testing.T) {
	env := newWorkflowTestEnv(t)
	outsider := &auth.Identity{
		UserID:         uuid.New(),
		Email:          "outsider@elsewhere.test",
		Role:           domain.RoleStaff,
		OrganizationID: uuid.New(),
	}

	_, err := env.svc.Initiate(context.Background(), outsider, env.templateID, "", "")
	requireDomainError(t, err, apperrors.KindNotFound)
}

func TestCompleteActionRollsUp(t *testing.T) {
	env := newWorkflowTestEnv(t)
	ctx := context.Background()

	wf, err := env.svc.Initiate(ctx, env.actor, env.templateID, "Jane onboarding", domain.PriorityHigh)
	require.NoError(t, err)

	details, err := env.svc.Details(ctx, env.actor, wf.ID)
	require.NoError(t, err)
	first := details.Steps[0]

	// Completing one of two actions leaves the step in progress.
	require.NoError(t, env.svc.CompleteAction(ctx, env.actor, first.Actions[0].ID, nil))
	details, err = env.svc.Details(ctx, env.actor, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepStatusInProgress, details.Steps[0].Step.Status)

	// Completing the last action finishes the step and starts the next one.
	payload := `{"signature":"jane"}`
	require.NoError(t, env.svc.CompleteAction(ctx, env.actor, first.Actions[1].ID, &payload))
	details, err = env.svc.Details(ctx, env.actor, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepStatusCompleted, details.Steps[0].Step.Status)
	assert.Equal(t, domain.StepStatusInProgress, details.Steps[1].Step.Status)
	require.NotNil(t, details.Steps[0].Actions[1].Data)
	assert.Equal(t, payload, *details.Steps[0].Actions[1].Data)

	// Completing the final step completes the workflow.
	require.NoError(t, env.svc.CompleteAction(ctx, env.actor, details.Steps[1].Actions[0].ID, nil))
	details, err = env.svc.Details(ctx, env.actor, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowStatusCompleted, details.Workflow.Status)

	_, ok := env.dispatcher.lastOfType(events.EventWorkflowCompleted)
	assert.True(t, ok)
}

func TestCompleteActionGuards(t *testing.T) {
	env := newWorkflowTestEnv(t)
	ctx := context.Background()

	wf, err := env.svc.Initiate(ctx, env.actor, env.templateID, "", "")
	require.NoError(t, err)
	details, err := env.svc.Details(ctx, env.actor, wf.ID)
	require.NoError(t, err)
	actionID := details.Steps[0].Actions[0].ID

	err = env.svc.CompleteAction(ctx, env.actor, uuid.NewString(), nil)
	requireDomainError(t, err, apperrors.KindNotFound)

	require.NoError(t, env.svc.CompleteAction(ctx, env.actor, actionID, nil))
	err = env.svc.CompleteAction(ctx, env.actor, actionID, nil)
	requireDomainError(t, err, apperrors.KindConflict)

	require.NoError(t, env.workflows.UpdateWorkflowStatus(ctx, wf.ID, domain.WorkflowStatusPaused))
	err = env.svc.CompleteAction(ctx, env.actor, details.Steps[0].Actions[1].ID, nil)
	requireDomainError(t, err, apperrors.KindConflict)
}

func TestListMineAndOrganization(t *testing.T) {
	env := newWorkflowTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Initiate(ctx, env.actor, env.templateID, "", "")
	require.NoError(t, err)

	colleague := &auth.Identity{
		UserID:         uuid.New(),
		Email:          "colleague@acme.test",
		Role:           domain.RoleStaff,
		OrganizationID: env.actor.OrganizationID,
	}
	_, err = env.svc.Initiate(ctx, colleague, env.templateID, "", "")
	require.NoError(t, err)

	mine, err := env.svc.ListMine(ctx, env.actor)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := env.svc.ListOrganization(ctx, env.actor)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
