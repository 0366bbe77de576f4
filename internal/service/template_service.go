package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/flowr-io/workflow-service/internal/auth"
	"github.com/flowr-io/workflow-service/internal/domain"
	"github.com/flowr-io/workflow-service/internal/repository"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

// TemplateService manages workflow template design. Every operation requires
// the design capability; the route-level policy already gates these paths,
// and the predicate check here keeps the rule enforced even for callers that
// bypass HTTP.
type TemplateService struct {
	templates repository.TemplateRepository
	logger    *zap.Logger
}

// NewTemplateService builds the service.
func NewTemplateService(templates repository.TemplateRepository, logger *zap.Logger) *TemplateService {
	return &TemplateService{templates: templates, logger: logger}
}

// Create stores a new template in the caller's organization.
func (s *TemplateService) Create(ctx context.Context, actor *auth.Identity, name, description string, structure domain.TemplateStructure) (*domain.WorkflowTemplate, error) {
	if !actor.CanDesignWorkflows() {
		return nil, apperrors.NewForbidden("designing workflows requires the ADMIN or DESIGNER role")
	}
	if err := validateStructure(structure); err != nil {
		return nil, err
	}

	tpl := &domain.WorkflowTemplate{
		OrganizationID: actor.OrganizationID.String(),
		Name:           name,
		Description:    description,
		Structure:      structure,
		CreatedBy:      actor.UserID.String(),
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, err
	}

	s.logger.Info("template created", zap.String("template_id", tpl.ID), zap.String("created_by", actor.Email))
	return tpl, nil
}

// List returns the templates of the caller's organization.
func (s *TemplateService) List(ctx context.Context, actor *auth.Identity) ([]*domain.WorkflowTemplate, error) {
	if !actor.CanDesignWorkflows() {
		return nil, apperrors.NewForbidden("designing workflows requires the ADMIN or DESIGNER role")
	}
	return s.templates.ListByOrganization(ctx, actor.OrganizationID.String())
}

// Get returns one template; templates of other organizations read as absent.
func (s *TemplateService) Get(ctx context.Context, actor *auth.Identity, id string) (*domain.WorkflowTemplate, error) {
	if !actor.CanDesignWorkflows() {
		return nil, apperrors.NewForbidden("designing workflows requires the ADMIN or DESIGNER role")
	}
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("template", nil)
		}
		return nil, err
	}
	if tpl.OrganizationID != actor.OrganizationID.String() {
		return nil, apperrors.NewNotFound("template", nil)
	}
	return tpl, nil
}

// Update replaces a template's mutable fields.
func (s *TemplateService) Update(ctx context.Context, actor *auth.Identity, id, name, description string, structure domain.TemplateStructure) error {
	tpl, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := validateStructure(structure); err != nil {
		return err
	}

	tpl.Name = name
	tpl.Description = description
	tpl.Structure = structure
	return s.templates.Update(ctx, tpl)
}

// Delete removes a template from the caller's organization.
func (s *TemplateService) Delete(ctx context.Context, actor *auth.Identity, id string) error {
	if !actor.CanDesignWorkflows() {
		return apperrors.NewForbidden("designing workflows requires the ADMIN or DESIGNER role")
	}
	if err := s.templates.Delete(ctx, id, actor.OrganizationID.String()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("template", nil)
		}
		return err
	}
	return nil
}

func validateStructure(structure domain.TemplateStructure) error {
	if len(structure.Steps) == 0 {
		return apperrors.NewValidationError("template requires at least one step", nil)
	}
	for _, step := range structure.Steps {
		if step.Name == "" {
			return apperrors.NewValidationError("every step requires a name", nil)
		}
		if len(step.Actions) == 0 {
			return apperrors.NewValidationError("every step requires at least one action", map[string]any{"step": step.Name})
		}
	}
	return nil
}
