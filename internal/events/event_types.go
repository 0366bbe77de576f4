package events

import (
	"time"

	"github.com/flowr-io/workflow-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventVerificationRequested  EventType = "verification_requested"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventUserInvited            EventType = "user_invited"
	EventInvitationAccepted     EventType = "invitation_accepted"
	EventWorkflowInitiated      EventType = "workflow_initiated"
	EventWorkflowCompleted      EventType = "workflow_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TokenIssuedPayload carries an issued token for out-of-band delivery. The
// token string goes to the mail boundary only, never into responses or logs.
type TokenIssuedPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"-"`
}

// InvitationAcceptedPayload payload.
type InvitationAcceptedPayload struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	OrganizationID string `json:"organization_id"`
}

// WorkflowPayload payload for workflow lifecycle events.
type WorkflowPayload struct {
	WorkflowID     string                `json:"workflow_id"`
	OrganizationID string                `json:"organization_id"`
	InitiatorID    string                `json:"initiator_id"`
	Status         domain.WorkflowStatus `json:"status"`
}
