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

// AuthService coordinates registration, login and the email token flows.
// Token strings leave the service only through the event dispatcher toward
// the mail boundary; they are never persisted.
type AuthService struct {
	users      repository.UserRepository
	orgs       repository.OrganizationRepository
	issuer     *token.Issuer
	validator  *token.Validator
	dispatcher events.Dispatcher
	limiter    *LoginLimiter
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	OrgRepo    repository.OrganizationRepository
	Issuer     *token.Issuer
	Validator  *token.Validator
	Dispatcher events.Dispatcher
	Limiter    *LoginLimiter
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		orgs:       deps.OrgRepo,
		issuer:     deps.Issuer,
		validator:  deps.Validator,
		dispatcher: deps.Dispatcher,
		limiter:    deps.Limiter,
		bcryptCost: cfg.BcryptCost,
		logger:     deps.Logger,
	}
}

// Register creates a new STAFF user in an existing organization and hands an
// email-verification token to the notifier. The account stays unverified
// until the token comes back through VerifyEmail.
func (s *AuthService) Register(ctx context.Context, name, email, password, organizationID string) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("user with this email already exists", nil)
	}

	if _, err := s.orgs.GetByID(ctx, organizationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("organization", nil)
		}
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		Role:           domain.RoleStaff,
		OrganizationID: organizationID,
		IsActive:       true,
		EmailVerified:  false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publishVerification(ctx, user)
	s.logger.Info("user registered", zap.String("email", user.Email))
	return user, nil
}

// Login authenticates an active, verified user and issues an AUTH token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if !s.limiter.Allow(ctx, email) {
		return nil, "", time.Time{}, apperrors.NewRateLimited("too many login attempts")
	}

	user, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Warn("login failed", zap.String("email", email))
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}
	if !user.EmailVerified {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("email not verified")
	}

	signed, expiresAt, err := s.issuer.IssueAuthToken(user.Email, user.ID, user.Role, user.OrganizationID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.logger.Info("user logged in", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, signed, expiresAt, nil
}

// VerifyEmail consumes an email-verification token and marks the account
// verified. The email claim is cross-checked against the stored address so a
// token can never verify a different account.
func (s *AuthService) VerifyEmail(ctx context.Context, tokenStr string) error {
	claims, err := s.validator.Validate(tokenStr, token.TypeEmailVerification)
	if err != nil {
		s.logger.Warn("email verification rejected", zap.Error(err))
		return apperrors.NewValidationError("invalid or expired verification token", nil)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if user.Email != claims.Email || user.Email != claims.Subject {
		return apperrors.NewValidationError("invalid verification token", nil)
	}
	if user.EmailVerified {
		return apperrors.NewConflict("email already verified", nil)
	}

	user.EmailVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("email verified", zap.String("email", user.Email))
	return nil
}

// ForgotPassword issues a reset token for the account, silently doing nothing
// for unknown emails so the endpoint cannot be used to probe registrations.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		return err
	}

	signed, _, err := s.issuer.IssuePasswordResetToken(user.Email, user.ID)
	if err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordResetRequested, events.TokenIssuedPayload{
		Email: user.Email,
		Name:  user.Name,
		Token: signed,
	})
	return nil
}

// ResetPassword consumes a password-reset token and updates the password.
func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	claims, err := s.validator.Validate(tokenStr, token.TypePasswordReset)
	if err != nil {
		s.logger.Warn("password reset rejected", zap.Error(err))
		return apperrors.NewValidationError("invalid or expired reset token", nil)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if user.Email != claims.Email || user.Email != claims.Subject {
		return apperrors.NewValidationError("invalid reset token", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("email", user.Email))
	return nil
}

// ResendVerification issues a fresh verification token for an unverified account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if user.EmailVerified {
		return apperrors.NewConflict("email already verified", nil)
	}

	s.publishVerification(ctx, user)
	return nil
}

func (s *AuthService) publishVerification(ctx context.Context, user *domain.User) {
	signed, _, err := s.issuer.IssueEmailVerificationToken(user.Email, user.ID)
	if err != nil {
		s.logger.Error("issue verification token", zap.Error(err))
		return
	}
	s.publish(ctx, events.EventVerificationRequested, events.TokenIssuedPayload{
		Email: user.Email,
		Name:  user.Name,
		Token: signed,
	})
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
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
