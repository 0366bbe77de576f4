package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/flowr-io/workflow-service/internal/domain"
)

const identityKey = "auth_identity"

// Identity is the request-scoped principal materialized from a validated AUTH
// token. It is bound at most once per request and never shared across
// requests; the embedded role and organization are a snapshot taken at token
// issuance, not a live read of persistence.
type Identity struct {
	UserID         uuid.UUID
	Email          string
	Role           domain.Role
	OrganizationID uuid.UUID
}

// Authority returns the synthesized authority string for the identity's role.
func (id *Identity) Authority() string {
	return "ROLE_" + string(id.Role)
}

// CanDesignWorkflows reports whether the identity may manage workflow templates.
func (id *Identity) CanDesignWorkflows() bool {
	return id.Role.CanDesignWorkflows()
}

// CanManageUsers reports whether the identity may invite users and assign roles.
func (id *Identity) CanManageUsers() bool {
	return id.Role.CanManageUsers()
}

func bindIdentity(c *fiber.Ctx, identity *Identity) {
	c.Locals(identityKey, identity)
}

// IdentityFromContext retrieves the authenticated identity, if one was bound.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
