package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/flowr-io/workflow-service/internal/auth"
	"github.com/flowr-io/workflow-service/internal/config"
	"github.com/flowr-io/workflow-service/internal/domain"
	"github.com/flowr-io/workflow-service/internal/events"
	"github.com/flowr-io/workflow-service/internal/repository"
	"github.com/flowr-io/workflow-service/internal/token"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

// UserService manages profiles, invitations and role assignment. All
// organization scoping derives from the caller's Identity, never from client
// input.
type UserService struct {
	users      repository.UserRepository
	orgs       repository.OrganizationRepository
	issuer     *token.Issuer
	validator  *token.Validator
	dispatcher events.Dispatcher
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, orgs repository.OrganizationRepository, issuer *token.Issuer, validator *token.Validator, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		orgs:       orgs,
		issuer:     issuer,
		validator:  validator,
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Profile returns the user together with their organization.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, *domain.Organization, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("user", nil)
		}
		return nil, nil, err
	}
	org, err := s.orgs.GetByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, nil, err
	}
	return user, org, nil
}

// UpdateProfile edits the mutable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name string, avatarURL *string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	user.Name = name
	user.AvatarURL = avatarURL
	return s.users.Update(ctx, user)
}

// ChangePassword verifies the current password before updating to the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.String("email", user.Email))
	return nil
}

// Invite creates an inactive, unverified account in the caller's organization
// and hands an invitation token to the notifier. The account cannot log in
// until the invitation is accepted.
func (s *UserService) Invite(ctx context.Context, actor *auth.Identity, name, email string, role domain.Role) (*domain.User, error) {
	if !actor.CanManageUsers() {
		return nil, apperrors.NewForbidden("only administrators may invite users")
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": string(role)})
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("user with this email already exists", nil)
	}

	// Random throwaway password; the invitee sets their own via the reset
	// flow after accepting.
	hash, err := auth.HashPassword(uuid.NewString(), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		OrganizationID: actor.OrganizationID.String(),
		IsActive:       false,
		EmailVerified:  false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	signed, _, err := s.issuer.IssueInvitationToken(user.Email, user.ID, user.Role, user.OrganizationID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventUserInvited, events.TokenIssuedPayload{
		Email: user.Email,
		Name:  user.Name,
		Token: signed,
	})

	s.logger.Info("user invited",
		zap.String("email", user.Email),
		zap.String("invited_by", actor.Email))
	return user, nil
}

// AcceptInvitation consumes an invitation token, activating and verifying the
// account. Email and organization claims are cross-checked against the stored
// record, and an already-active account cannot accept again.
func (s *UserService) AcceptInvitation(ctx context.Context, tokenStr string) error {
	claims, err := s.validator.Validate(tokenStr, token.TypeInvitation)
	if err != nil {
		s.logger.Warn("invitation rejected", zap.Error(err))
		return apperrors.NewValidationError("invalid or expired invitation token", nil)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if user.Email != claims.Subject || user.OrganizationID != claims.OrganizationID {
		return apperrors.NewValidationError("invalid invitation token", nil)
	}
	if user.IsActive {
		return apperrors.NewConflict("invitation already accepted", nil)
	}

	user.IsActive = true
	user.EmailVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.EventInvitationAccepted, events.InvitationAcceptedPayload{
		Email:          user.Email,
		Name:           user.Name,
		OrganizationID: user.OrganizationID,
	})
	s.logger.Info("invitation accepted", zap.String("email", user.Email))
	return nil
}

// ListUsers returns every user in the caller's organization.
func (s *UserService) ListUsers(ctx context.Context, actor *auth.Identity) ([]*domain.User, error) {
	if !actor.CanManageUsers() {
		return nil, apperrors.NewForbidden("only administrators may list users")
	}
	return s.users.ListByOrganization(ctx, actor.OrganizationID.String())
}

// AssignRole changes another user's role within the caller's organization.
func (s *UserService) AssignRole(ctx context.Context, actor *auth.Identity, targetID string, role domain.Role) error {
	if !actor.CanManageUsers() {
		return apperrors.NewForbidden("only administrators may assign roles")
	}
	if targetID == actor.UserID.String() {
		return apperrors.NewValidationError("cannot update your own role", nil)
	}
	if !role.Valid() {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": string(role)})
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if user.OrganizationID != actor.OrganizationID.String() {
		return apperrors.NewForbidden("user does not belong to your organization")
	}
	if user.Role == role {
		return nil
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("role assigned",
		zap.String("email", user.Email),
		zap.String("role", string(role)),
		zap.String("assigned_by", actor.Email))
	return nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
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
