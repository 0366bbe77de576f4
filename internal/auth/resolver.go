package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flowr-io/workflow-service/internal/token"
)

// Resolver is the per-request identity resolution middleware. It runs on
// every request and moves the request from unauthenticated to authenticated
// at most once; it never rejects a request itself. A broken or missing token
// leaves the request unauthenticated and the authorization policy downstream
// is the sole enforcement point, which keeps genuinely public routes
// reachable even when a stray Authorization header is present.
type Resolver struct {
	codec     *token.Codec
	validator *token.Validator
	public    *PublicPaths
	logger    *zap.Logger
}

// NewResolver constructs the middleware.
func NewResolver(codec *token.Codec, validator *token.Validator, public *PublicPaths, logger *zap.Logger) *Resolver {
	return &Resolver{codec: codec, validator: validator, public: public, logger: logger}
}

// Handle resolves the request identity and continues the chain regardless of
// the outcome.
func (r *Resolver) Handle(c *fiber.Ctx) error {
	if r.public.Match(c.Path()) {
		return c.Next()
	}

	bearer, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		r.logger.Debug("authorization header not present", zap.String("path", c.Path()))
		return c.Next()
	}

	// Guard against a second resolution pass; must not happen in a
	// correctly wired pipeline.
	if _, bound := IdentityFromContext(c); bound {
		return c.Next()
	}

	r.resolve(c, bearer)
	return c.Next()
}

func (r *Resolver) resolve(c *fiber.Ctx, bearer string) {
	claims, err := r.codec.Decode(bearer)
	if err != nil {
		r.logger.Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
		return
	}
	if !r.validator.IsValid(bearer, claims.Subject) {
		r.logger.Debug("token not valid for authentication", zap.String("path", c.Path()))
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		r.logger.Debug("token userId not a uuid", zap.Error(err))
		return
	}
	organizationID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		r.logger.Debug("token organizationId not a uuid", zap.Error(err))
		return
	}
	if !claims.Role.Valid() {
		r.logger.Debug("token role unknown", zap.String("role", string(claims.Role)))
		return
	}

	identity := &Identity{
		UserID:         userID,
		Email:          claims.Subject,
		Role:           claims.Role,
		OrganizationID: organizationID,
	}
	bindIdentity(c, identity)
	r.logger.Debug("authenticated request",
		zap.String("email", identity.Email),
		zap.String("authority", identity.Authority()))
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
