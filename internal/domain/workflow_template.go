package domain

import "time"

// TemplateStep describes one step in a template's structure.
type TemplateStep struct {
	Name     string           `json:"name"`
	Position int              `json:"position"`
	Actions  []TemplateAction `json:"actions"`
}

// TemplateAction describes one action inside a template step.
type TemplateAction struct {
	Name     string     `json:"name"`
	Position int        `json:"position"`
	Type     ActionType `json:"type"`
}

// TemplateStructure is the ordered step/action layout stored with a template.
type TemplateStructure struct {
	Steps []TemplateStep `json:"steps"`
}

// WorkflowTemplate is a reusable workflow definition scoped to an organization.
type WorkflowTemplate struct {
	ID             string
	OrganizationID string
	Name           string
	Description    string
	Structure      TemplateStructure
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
