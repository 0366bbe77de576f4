package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/flowr-io/workflow-service/internal/auth"
	"github.com/flowr-io/workflow-service/internal/domain"
	"github.com/flowr-io/workflow-service/internal/events"
	"github.com/flowr-io/workflow-service/internal/repository"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

// WorkflowDetails bundles a workflow with its ordered steps and actions.
type WorkflowDetails struct {
	Workflow *domain.Workflow
	Steps    []StepDetails
}

// StepDetails bundles a step with its ordered actions.
type StepDetails struct {
	Step    *domain.WorkflowStep
	Actions []*domain.WorkflowStepAction
}

// WorkflowService runs workflow instances. It consumes the request identity
// for all organization scoping and progresses step/action state.
type WorkflowService struct {
	workflows  repository.WorkflowRepository
	templates  repository.TemplateRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewWorkflowService builds the service.
func NewWorkflowService(workflows repository.WorkflowRepository, templates repository.TemplateRepository, dispatcher events.Dispatcher, logger *zap.Logger) *WorkflowService {
	return &WorkflowService{workflows: workflows, templates: templates, dispatcher: dispatcher, logger: logger}
}

// Initiate materializes a workflow instance from a template. The first step
// starts in progress; everything else is pending.
func (s *WorkflowService) Initiate(ctx context.Context, actor *auth.Identity, templateID, name string, priority domain.Priority) (*domain.Workflow, error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("template", nil)
		}
		return nil, err
	}
	if tpl.OrganizationID != actor.OrganizationID.String() {
		return nil, apperrors.NewNotFound("template", nil)
	}
	if name == "" {
		name = tpl.Name
	}
	if priority == "" {
		priority = domain.PriorityMedium
	}

	wf := &domain.Workflow{
		TemplateID:     tpl.ID,
		OrganizationID: actor.OrganizationID.String(),
		InitiatorID:    actor.UserID.String(),
		Name:           name,
		Status:         domain.WorkflowStatusActive,
		Priority:       priority,
	}

	steps := make([]*domain.WorkflowStep, 0, len(tpl.Structure.Steps))
	actions := make(map[int][]*domain.WorkflowStepAction, len(tpl.Structure.Steps))
	for i, tplStep := range tpl.Structure.Steps {
		status := domain.StepStatusPending
		if i == 0 {
			status = domain.StepStatusInProgress
		}
		step := &domain.WorkflowStep{
			Name:     tplStep.Name,
			Position: tplStep.Position,
			Status:   status,
		}
		steps = append(steps, step)

		for _, tplAction := range tplStep.Actions {
			actions[step.Position] = append(actions[step.Position], &domain.WorkflowStepAction{
				Name:     tplAction.Name,
				Position: tplAction.Position,
				Type:     tplAction.Type,
				Status:   domain.ActionStatusPending,
			})
		}
	}

	if err := s.workflows.Create(ctx, wf, steps, actions); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventWorkflowInitiated, events.WorkflowPayload{
		WorkflowID:     wf.ID,
		OrganizationID: wf.OrganizationID,
		InitiatorID:    wf.InitiatorID,
		Status:         wf.Status,
	})
	s.logger.Info("workflow initiated", zap.String("workflow_id", wf.ID), zap.String("initiator", actor.Email))
	return wf, nil
}

// ListMine returns workflows initiated by the caller.
func (s *WorkflowService) ListMine(ctx context.Context, actor *auth.Identity) ([]*domain.Workflow, error) {
	return s.workflows.ListByInitiator(ctx, actor.UserID.String())
}

// ListOrganization returns every workflow in the caller's organization.
func (s *WorkflowService) ListOrganization(ctx context.Context, actor *auth.Identity) ([]*domain.Workflow, error) {
	return s.workflows.ListByOrganization(ctx, actor.OrganizationID.String())
}

// Details returns a workflow with its steps and actions. Workflows of other
// organizations read as absent.
func (s *WorkflowService) Details(ctx context.Context, actor *auth.Identity, id string) (*WorkflowDetails, error) {
	wf, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	steps, err := s.workflows.ListSteps(ctx, wf.ID)
	if err != nil {
		return nil, err
	}

	details := &WorkflowDetails{Workflow: wf, Steps: make([]StepDetails, 0, len(steps))}
	for _, step := range steps {
		stepActions, err := s.workflows.ListActions(ctx, step.ID)
		if err != nil {
			return nil, err
		}
		details.Steps = append(details.Steps, StepDetails{Step: step, Actions: stepActions})
	}
	return details, nil
}

// CompleteAction marks an action completed and rolls completion up: a step
// completes when all of its actions are completed or skipped, the next step
// moves in progress, and the workflow completes with its last step.
func (s *WorkflowService) CompleteAction(ctx context.Context, actor *auth.Identity, actionID string, data *string) error {
	action, err := s.workflows.GetAction(ctx, actionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("action", nil)
		}
		return err
	}

	step, err := s.workflows.GetStep(ctx, action.StepID)
	if err != nil {
		return err
	}
	wf, err := s.getScoped(ctx, actor, step.WorkflowID)
	if err != nil {
		return err
	}
	if wf.Status != domain.WorkflowStatusActive {
		return apperrors.NewConflict("workflow is not active", map[string]any{"status": string(wf.Status)})
	}
	if action.Status == domain.ActionStatusCompleted {
		return apperrors.NewConflict("action already completed", nil)
	}

	if err := s.workflows.UpdateActionStatus(ctx, action.ID, domain.ActionStatusCompleted, data); err != nil {
		return err
	}
	return s.rollUp(ctx, wf, step)
}

func (s *WorkflowService) rollUp(ctx context.Context, wf *domain.Workflow, step *domain.WorkflowStep) error {
	stepActions, err := s.workflows.ListActions(ctx, step.ID)
	if err != nil {
		return err
	}
	for _, a := range stepActions {
		if a.Status != domain.ActionStatusCompleted && a.Status != domain.ActionStatusSkipped {
			return nil
		}
	}

	if err := s.workflows.UpdateStepStatus(ctx, step.ID, domain.StepStatusCompleted); err != nil {
		return err
	}

	steps, err := s.workflows.ListSteps(ctx, wf.ID)
	if err != nil {
		return err
	}
	for _, next := range steps {
		if next.Position > step.Position && next.Status == domain.StepStatusPending {
			return s.workflows.UpdateStepStatus(ctx, next.ID, domain.StepStatusInProgress)
		}
	}

	// No pending steps remain; the workflow is done.
	for _, done := range steps {
		if done.ID != step.ID && done.Status != domain.StepStatusCompleted && done.Status != domain.StepStatusSkipped {
			return nil
		}
	}
	if err := s.workflows.UpdateWorkflowStatus(ctx, wf.ID, domain.WorkflowStatusCompleted); err != nil {
		return err
	}
	s.publish(ctx, events.EventWorkflowCompleted, events.WorkflowPayload{
		WorkflowID:     wf.ID,
		OrganizationID: wf.OrganizationID,
		InitiatorID:    wf.InitiatorID,
		Status:         domain.WorkflowStatusCompleted,
	})
	s.logger.Info("workflow completed", zap.String("workflow_id", wf.ID))
	return nil
}

func (s *WorkflowService) getScoped(ctx context.Context, actor *auth.Identity, id string) (*domain.Workflow, error) {
	wf, err := s.workflows.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("workflow", nil)
		}
		return nil, err
	}
	if wf.OrganizationID != actor.OrganizationID.String() {
		return nil, apperrors.NewNotFound("workflow", nil)
	}
	return wf, nil
}

func (s *WorkflowService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
