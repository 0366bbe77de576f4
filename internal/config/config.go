package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines the token subsystem parameters. JWTSecret is the
// process-wide symmetric signing key (base64 or raw); it is held in memory
// for the process lifetime and never persisted or logged. Each token purpose
// has its own lifetime. ClockSkewSeconds widens expiry checks; the baseline
// is zero tolerance. PublicPaths is the explicit allow-list of endpoints
// reachable without authentication (exact entries, or prefixes ending in '*').
type AuthConfig struct {
	JWTSecret                   string
	AuthTokenTTLMinutes         int
	EmailVerificationTTLMinutes int
	PasswordResetTTLMinutes     int
	InvitationTTLMinutes        int
	ClockSkewSeconds            int
	PublicPaths                 []string
	BcryptCost                  int
	LoginRateLimit              int
	LoginRateWindowSeconds      int
}

// NotificationConfig holds the outbound email settings.
type NotificationConfig struct {
	EmailFrom string
	BaseURL   string
}

// DefaultPublicPaths enumerates the endpoints that skip identity resolution
// when AUTH_PUBLIC_PATHS is not set. This is an explicit list, never a guess.
var DefaultPublicPaths = []string{
	"/api/v1/auth/*",
	"/api/v1/health",
	"/api/v1/health/live",
	"/api/v1/health/ready",
	"/api/v1/docs*",
	"/favicon.ico",
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "workflow-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:                   getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AuthTokenTTLMinutes:         getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 1440),
			EmailVerificationTTLMinutes: getEnvAsInt("AUTH_EMAIL_VERIFICATION_TTL_MINUTES", 60),
			PasswordResetTTLMinutes:     getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
			InvitationTTLMinutes:        getEnvAsInt("AUTH_INVITATION_TTL_MINUTES", 10080),
			ClockSkewSeconds:            getEnvAsInt("AUTH_CLOCK_SKEW_SECONDS", 0),
			PublicPaths:                 getEnvAsList("AUTH_PUBLIC_PATHS", DefaultPublicPaths),
			BcryptCost:                  getEnvAsInt("AUTH_BCRYPT_COST", 12),
			LoginRateLimit:              getEnvAsInt("AUTH_LOGIN_RATE_LIMIT", 10),
			LoginRateWindowSeconds:      getEnvAsInt("AUTH_LOGIN_RATE_WINDOW_SECONDS", 60),
		},
		Notification: NotificationConfig{
			EmailFrom: getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			BaseURL:   getEnv("NOTIFY_BASE_URL", "http://localhost:8080"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AuthTokenTTL returns the session token lifetime.
func (a AuthConfig) AuthTokenTTL() time.Duration {
	return time.Duration(a.AuthTokenTTLMinutes) * time.Minute
}

// EmailVerificationTTL returns the verification token lifetime.
func (a AuthConfig) EmailVerificationTTL() time.Duration {
	return time.Duration(a.EmailVerificationTTLMinutes) * time.Minute
}

// PasswordResetTTL returns the reset token lifetime.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// InvitationTTL returns the invitation token lifetime.
func (a AuthConfig) InvitationTTL() time.Duration {
	return time.Duration(a.InvitationTTLMinutes) * time.Minute
}

// ClockSkew returns the verifier clock skew tolerance.
func (a AuthConfig) ClockSkew() time.Duration {
	if a.ClockSkewSeconds <= 0 {
		return 0
	}
	return time.Duration(a.ClockSkewSeconds) * time.Second
}

// LoginRateWindow returns the rate limiter window.
func (a AuthConfig) LoginRateWindow() time.Duration {
	return time.Duration(a.LoginRateWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
