package domain

import "time"

// WorkflowStatus represents lifecycle states for a workflow instance.
type WorkflowStatus string

const (
	WorkflowStatusDraft     WorkflowStatus = "DRAFT"
	WorkflowStatusActive    WorkflowStatus = "ACTIVE"
	WorkflowStatusCompleted WorkflowStatus = "COMPLETED"
	WorkflowStatusCancelled WorkflowStatus = "CANCELLED"
	WorkflowStatusPaused    WorkflowStatus = "PAUSED"
	WorkflowStatusFailed    WorkflowStatus = "FAILED"
)

// StepStatus represents lifecycle states for a workflow step.
type StepStatus string

const (
	StepStatusPending    StepStatus = "PENDING"
	StepStatusInProgress StepStatus = "IN_PROGRESS"
	StepStatusCompleted  StepStatus = "COMPLETED"
	StepStatusSkipped    StepStatus = "SKIPPED"
	StepStatusFailed     StepStatus = "FAILED"
	StepStatusCancelled  StepStatus = "CANCELLED"
)

// ActionType enumerates the kinds of work a step action can require.
type ActionType string

const (
	ActionTypeFileUpload ActionType = "FILE_UPLOAD"
	ActionTypeReview     ActionType = "REVIEW"
	ActionTypeSignature  ActionType = "SIGNATURE"
)

// ActionStatus represents lifecycle states for a step action.
type ActionStatus string

const (
	ActionStatusPending    ActionStatus = "PENDING"
	ActionStatusInProgress ActionStatus = "IN_PROGRESS"
	ActionStatusCompleted  ActionStatus = "COMPLETED"
	ActionStatusSkipped    ActionStatus = "SKIPPED"
)

// Priority orders workflows by urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Workflow is an instance of a template initiated by a user.
type Workflow struct {
	ID             string
	TemplateID     string
	OrganizationID string
	InitiatorID    string
	Name           string
	Status         WorkflowStatus
	Priority       Priority
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WorkflowStep is an ordered stage within a workflow.
type WorkflowStep struct {
	ID         string
	WorkflowID string
	Name       string
	Position   int
	AssigneeID *string
	Status     StepStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WorkflowStepAction is an ordered unit of work inside a step.
type WorkflowStepAction struct {
	ID        string
	StepID    string
	Name      string
	Position  int
	Type      ActionType
	Status    ActionStatus
	Data      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
