package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/flowr-io/workflow-service/internal/config"
)

// LogMailer is the development Mailer: it logs delivery intent instead of
// sending. Token strings are logged at debug level only.
type LogMailer struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewLogMailer builds a LogMailer.
func NewLogMailer(logger *zap.Logger, cfg config.NotificationConfig) *LogMailer {
	return &LogMailer{logger: logger, cfg: cfg}
}

func (m *LogMailer) SendEmailVerification(_ context.Context, email, token string) error {
	m.logger.Info("email verification queued", zap.String("to", email), zap.String("from", m.cfg.EmailFrom))
	m.logger.Debug("verification link", zap.String("url", m.cfg.BaseURL+"/api/v1/auth/verify-email?token="+token))
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.logger.Info("password reset queued", zap.String("to", email), zap.String("from", m.cfg.EmailFrom))
	m.logger.Debug("reset link", zap.String("url", m.cfg.BaseURL+"/api/v1/auth/reset-password?token="+token))
	return nil
}

func (m *LogMailer) SendInvitation(_ context.Context, email, token string) error {
	m.logger.Info("invitation queued", zap.String("to", email), zap.String("from", m.cfg.EmailFrom))
	m.logger.Debug("invitation link", zap.String("url", m.cfg.BaseURL+"/api/v1/auth/accept-invite?token="+token))
	return nil
}

func (m *LogMailer) SendWelcome(_ context.Context, email, name string) error {
	m.logger.Info("welcome email queued", zap.String("to", email), zap.String("name", name))
	return nil
}
