package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/flowr-io/workflow-service/internal/api/dto"
	"github.com/flowr-io/workflow-service/internal/auth"
	"github.com/flowr-io/workflow-service/internal/domain"
	"github.com/flowr-io/workflow-service/internal/service"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

// WorkflowsHandler exposes workflow instance endpoints.
type WorkflowsHandler struct {
	workflows *service.WorkflowService
}

// NewWorkflowsHandler constructs handler.
func NewWorkflowsHandler(workflowService *service.WorkflowService) *WorkflowsHandler {
	return &WorkflowsHandler{workflows: workflowService}
}

// Initiate handles POST /api/v1/workflows.
func (h *WorkflowsHandler) Initiate(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.InitiateWorkflowRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TemplateID == "" {
		return apperrors.NewValidationError("template_id is required", nil)
	}

	wf, err := h.workflows.Initiate(c.Context(), identity, req.TemplateID, req.Name, domain.Priority(req.Priority))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": workflowResponse(wf)})
}

// ListMine handles GET /api/v1/workflows.
func (h *WorkflowsHandler) ListMine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	workflows, err := h.workflows.ListMine(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workflowResponses(workflows)})
}

// Details handles GET /api/v1/workflows/:id.
func (h *WorkflowsHandler) Details(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	details, err := h.workflows.Details(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}

	resp := dto.WorkflowDetailsResponse{
		WorkflowResponse: workflowResponse(details.Workflow),
		Steps:            make([]dto.StepResponse, 0, len(details.Steps)),
	}
	for _, step := range details.Steps {
		stepResp := dto.StepResponse{
			ID:       step.Step.ID,
			Name:     step.Step.Name,
			Position: step.Step.Position,
			Status:   string(step.Step.Status),
			Actions:  make([]dto.ActionResponse, 0, len(step.Actions)),
		}
		for _, action := range step.Actions {
			stepResp.Actions = append(stepResp.Actions, dto.ActionResponse{
				ID:       action.ID,
				Name:     action.Name,
				Position: action.Position,
				Type:     string(action.Type),
				Status:   string(action.Status),
				Data:     action.Data,
			})
		}
		resp.Steps = append(resp.Steps, stepResp)
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CompleteAction handles POST /api/v1/workflows/actions/:id/complete.
func (h *WorkflowsHandler) CompleteAction(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CompleteActionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	if err := h.workflows.CompleteAction(c.Context(), identity, c.Params("id"), req.Data); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Action completed"}})
}

func workflowResponse(wf *domain.Workflow) dto.WorkflowResponse {
	return dto.WorkflowResponse{
		ID:          wf.ID,
		TemplateID:  wf.TemplateID,
		InitiatorID: wf.InitiatorID,
		Name:        wf.Name,
		Status:      string(wf.Status),
		Priority:    string(wf.Priority),
		CreatedAt:   wf.CreatedAt,
	}
}

func workflowResponses(workflows []*domain.Workflow) []dto.WorkflowResponse {
	out := make([]dto.WorkflowResponse, 0, len(workflows))
	for _, wf := range workflows {
		out = append(out, workflowResponse(wf))
	}
	return out
}
