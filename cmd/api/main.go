package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/flowr-io/workflow-service/internal/api/http"
	"github.com/flowr-io/workflow-service/internal/api/http/handlers"
	"github.com/flowr-io/workflow-service/internal/auth"
	"github.com/flowr-io/workflow-service/internal/config"
	"github.com/flowr-io/workflow-service/internal/events"
	"github.com/flowr-io/workflow-service/internal/notifier"
	"github.com/flowr-io/workflow-service/internal/observability"
	"github.com/flowr-io/workflow-service/internal/persistence"
	"github.com/flowr-io/workflow-service/internal/repository"
	"github.com/flowr-io/workflow-service/internal/service"
	"github.com/flowr-io/workflow-service/internal/token"
	"github.com/flowr-io/workflow-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	orgRepo := repository.NewOrganizationRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	workflowRepo := repository.NewWorkflowRepository(pool)

	codec := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.ClockSkew())
	issuer := token.NewIssuer(codec, token.Lifetimes{
		Auth:              cfg.Auth.AuthTokenTTL(),
		EmailVerification: cfg.Auth.EmailVerificationTTL(),
		PasswordReset:     cfg.Auth.PasswordResetTTL(),
		Invitation:        cfg.Auth.InvitationTTL(),
	})
	validator := token.NewValidator(codec)

	publicPaths := auth.NewPublicPaths(cfg.Auth.PublicPaths)
	resolver := auth.NewResolver(codec, validator, publicPaths, logger)
	policy := auth.NewPolicy(publicPaths)

	dispatcher := events.NewInMemoryDispatcher(logger)
	limiter := service.NewLoginLimiter(redis.Client, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow())

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		OrgRepo:    orgRepo,
		Issuer:     issuer,
		Validator:  validator,
		Dispatcher: dispatcher,
		Limiter:    limiter,
		Logger:     logger,
	})
	userService := service.NewUserService(cfg.Auth, userRepo, orgRepo, issuer, validator, dispatcher, logger)
	templateService := service.NewTemplateService(templateRepo, logger)
	workflowService := service.NewWorkflowService(workflowRepo, templateRepo, dispatcher, logger)

	mailer := notifier.NewLogMailer(logger, cfg.Notification)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:      handlers.NewAuthHandler(authService, userService),
		Users:     handlers.NewUsersHandler(userService),
		Admin:     handlers.NewAdminHandler(userService, workflowService),
		Templates: handlers.NewTemplatesHandler(templateService),
		Workflows: handlers.NewWorkflowsHandler(workflowService),
		Resolver:  resolver,
		Policy:    policy,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
