package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowr-io/workflow-service/internal/config"
	"github.com/flowr-io/workflow-service/internal/domain"
	"github.com/flowr-io/workflow-service/internal/events"
	"github.com/flowr-io/workflow-service/internal/token"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

type serviceTestEnv struct {
	users      *memoryUserRepo
	orgs       *memoryOrgRepo
	dispatcher *recordingDispatcher
	validator  *token.Validator
	issuer     *token.Issuer
	authSvc    *AuthService
	userSvc    *UserService
	orgID      string
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	codec := token.NewCodec("service-test-secret", 0)
	issuer := token.NewIssuer(codec, token.Lifetimes{
		Auth:              time.Hour,
		EmailVerification: time.Hour,
		PasswordReset:     time.Hour,
		Invitation:        time.Hour,
	})
	validator := token.NewValidator(codec)

	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	dispatcher := &recordingDispatcher{}

	// MinCost keeps the hashing in tests fast.
	cfg := config.AuthConfig{BcryptCost: 4}

	authSvc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   users,
		OrgRepo:    orgs,
		Issuer:     issuer,
		Validator:  validator,
		Dispatcher: dispatcher,
		Limiter:    NewLoginLimiter(nil, 0, 0),
		Logger:     zap.NewNop(),
	})
	userSvc := NewUserService(cfg, users, orgs, issuer, validator, dispatcher, zap.NewNop())

	org := &domain.Organization{Name: "Acme"}
	require.NoError(t, orgs.Create(context.Background(), org))

	return &serviceTestEnv{
		users:      users,
		orgs:       orgs,
		dispatcher: dispatcher,
		validator:  validator,
		issuer:     issuer,
		authSvc:    authSvc,
		userSvc:    userSvc,
		orgID:      org.ID,
	}
}

func (e *serviceTestEnv) register(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := e.authSvc.Register(context.Background(), "Jane", email, "pass1234", e.orgID)
	require.NoError(t, err)
	return user
}

func (e *serviceTestEnv) registerVerified(t *testing.T, email string) *domain.User {
	t.Helper()
	user := e.register(t, email)
	verification, ok := e.dispatcher.lastToken(events.EventVerificationRequested)
	require.True(t, ok)
	require.NoError(t, e.authSvc.VerifyEmail(context.Background(), verification))
	user, err := e.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	return user
}

func requireDomainError(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestRegister(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()

	user := env.register(t, "jane@acme.test")
	assert.Equal(t, domain.RoleStaff, user.Role)
	assert.Equal(t, env.orgID, user.OrganizationID)
	assert.True(t, user.IsActive)
	assert.False(t, user.EmailVerified)
	assert.NotEqual(t, "pass1234", user.PasswordHash)

	verification, ok := env.dispatcher.lastToken(events.EventVerificationRequested)
	require.True(t, ok)
	claims, err := env.validator.Validate(verification, token.TypeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "jane@acme.test", claims.Subject)

	_, err = env.authSvc.Register(ctx, "Other", "jane@acme.test", "pass1234", env.orgID)
	requireDomainError(t, err, apperrors.KindConflict)

	_, err = env.authSvc.Register(ctx, "Jane", "other@acme.test", "pass1234", "00000000-0000-0000-0000-000000000000")
	requireDomainError(t, err, apperrors.KindNotFound)
}

func TestLogin(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	env.registerVerified(t, "jane@acme.test")

	user, signed, expiresAt, err := env.authSvc.Login(ctx, "jane@acme.test", "pass1234")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := env.validator.Validate(signed, token.TypeAuth)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Subject)
	assert.Equal(t, domain.RoleStaff, claims.Role)
	assert.Equal(t, env.orgID, claims.OrganizationID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	env.registerVerified(t, "jane@acme.test")

	// Unknown email and wrong password produce the same message, so the
	// endpoint cannot be used to probe which addresses are registered.
	_, _, _, err := env.authSvc.Login(ctx, "jane@acme.test", "wrong-password")
	requireDomainError(t, err, apperrors.KindUnauthorized)
	assert.Contains(t, err.Error(), "invalid email or password")

	_, _, _, err = env.authSvc.Login(ctx, "nobody@acme.test", "pass1234")
	requireDomainError(t, err, apperrors.KindUnauthorized)
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	env := newServiceTestEnv(t)
	env.register(t, "jane@acme.test")

	_, _, _, err := env.authSvc.Login(context.Background(), "jane@acme.test", "pass1234")
	requireDomainError(t, err, apperrors.KindUnauthorized)
	assert.Contains(t, err.Error(), "email not verified")
}

func TestVerifyEmail(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "jane@acme.test")

	verification, ok := env.dispatcher.lastToken(events.EventVerificationRequested)
	require.True(t, ok)

	require.NoError(t, env.authSvc.VerifyEmail(ctx, verification))
	stored, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)

	// Replaying the token conflicts instead of silently succeeding.
	err = env.authSvc.VerifyEmail(ctx, verification)
	requireDomainError(t, err, apperrors.KindConflict)
}

func TestVerifyEmailRejectsWrongTokens(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	user := env.registerVerified(t, "jane@acme.test")

	err := env.authSvc.VerifyEmail(ctx, "garbage")
	requireDomainError(t, err, apperrors.KindValidation)

	// An AUTH token is never accepted as a verification token.
	signed, _, err := env.issuer.IssueAuthToken(user.Email, user.ID, user.Role, user.OrganizationID)
	require.NoError(t, err)
	err = env.authSvc.VerifyEmail(ctx, signed)
	requireDomainError(t, err, apperrors.KindValidation)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	env.registerVerified(t, "jane@acme.test")

	require.NoError(t, env.authSvc.ForgotPassword(ctx, "jane@acme.test"))
	reset, ok := env.dispatcher.lastToken(events.EventPasswordResetRequested)
	require.True(t, ok)

	require.NoError(t, env.authSvc.ResetPassword(ctx, reset, "new-password"))

	_, _, _, err := env.authSvc.Login(ctx, "jane@acme.test", "pass1234")
	requireDomainError(t, err, apperrors.KindUnauthorized)

	_, _, _, err = env.authSvc.Login(ctx, "jane@acme.test", "new-password")
	require.NoError(t, err)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	env := newServiceTestEnv(t)

	require.NoError(t, env.authSvc.ForgotPassword(context.Background(), "nobody@acme.test"))
	_, ok := env.dispatcher.lastOfType(events.EventPasswordResetRequested)
	assert.False(t, ok)
}

func TestResendVerification(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	env.register(t, "jane@acme.test")

	require.NoError(t, env.authSvc.ResendVerification(ctx, "jane@acme.test"))
	verification, ok := env.dispatcher.lastToken(events.EventVerificationRequested)
	require.True(t, ok)
	require.NoError(t, env.authSvc.VerifyEmail(ctx, verification))

	err := env.authSvc.ResendVerification(ctx, "jane@acme.test")
	requireDomainError(t, err, apperrors.KindConflict)

	err = env.authSvc.ResendVerification(ctx, "nobody@acme.test")
	requireDomainError(t, err, apperrors.KindNotFound)
}
