package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/flowr-io/workflow-service/internal/events"
	"github.com/flowr-io/workflow-service/internal/notifier"
)

// NotificationService bridges domain events to the outbound mail boundary.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notifier.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer notifier.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, mailer: mailer, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventVerificationRequested, n.handleVerificationRequested)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventUserInvited, n.handleUserInvited)
	n.dispatcher.Subscribe(events.EventInvitationAccepted, n.handleInvitationAccepted)
}

func (n *NotificationService) handleVerificationRequested(ctx context.Context, event events.Event) error {
	payload, err := tokenPayload(event)
	if err != nil {
		return err
	}
	return n.mailer.SendEmailVerification(ctx, payload.Email, payload.Token)
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, err := tokenPayload(event)
	if err != nil {
		return err
	}
	return n.mailer.SendPasswordReset(ctx, payload.Email, payload.Token)
}

func (n *NotificationService) handleUserInvited(ctx context.Context, event events.Event) error {
	payload, err := tokenPayload(event)
	if err != nil {
		return err
	}
	return n.mailer.SendInvitation(ctx, payload.Email, payload.Token)
}

func (n *NotificationService) handleInvitationAccepted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InvitationAcceptedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	return n.mailer.SendWelcome(ctx, payload.Email, payload.Name)
}

func tokenPayload(event events.Event) (events.TokenIssuedPayload, error) {
	payload, ok := event.Payload.(events.TokenIssuedPayload)
	if !ok {
		return events.TokenIssuedPayload{}, fmt.Errorf("unexpected payload for %s", event.Type)
	}
	return payload, nil
}
