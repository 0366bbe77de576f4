package dto

import (
	"time"

	"github.com/flowr-io/workflow-service/internal/domain"
)

// TemplateRequest payload for creating or updating a template.
type TemplateRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Structure   domain.TemplateStructure `json:"structure"`
}

// TemplateResponse is the template view.
type TemplateResponse struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Structure   domain.TemplateStructure `json:"structure"`
	CreatedBy   string                   `json:"created_by"`
	CreatedAt   time.Time                `json:"created_at"`
}

// InitiateWorkflowRequest payload.
type InitiateWorkflowRequest struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
	Priority   string `json:"priority"`
}

// WorkflowResponse is the workflow list view.
type WorkflowResponse struct {
	ID          string    `json:"id"`
	TemplateID  string    `json:"template_id"`
	InitiatorID string    `json:"initiator_id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActionResponse is the action view.
type ActionResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position int     `json:"position"`
	Type     string  `json:"type"`
	Status   string  `json:"status"`
	Data     *string `json:"data,omitempty"`
}

// StepResponse is the step view with its ordered actions.
type StepResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Position int              `json:"position"`
	Status   string           `json:"status"`
	Actions  []ActionResponse `json:"actions"`
}

// WorkflowDetailsResponse is the full workflow view.
type WorkflowDetailsResponse struct {
	WorkflowResponse
	Steps []StepResponse `json:"steps"`
}

// CompleteActionRequest payload.
type CompleteActionRequest struct {
	Data *string `json:"data"`
}
