package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/flowr-io/workflow-service/internal/domain"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

// rule maps a path pattern to an access requirement. Patterns are exact
// paths, or prefixes when they end in '*'.
type rule struct {
	pattern       string
	authenticated bool
	roles         []domain.Role
}

func (r rule) matches(path string) bool {
	if strings.HasSuffix(r.pattern, "*") {
		return strings.HasPrefix(path, strings.TrimSuffix(r.pattern, "*"))
	}
	return path == r.pattern
}

// Policy is the declarative route-to-requirement table evaluated before any
// handler runs. Rules are checked in declaration order and the first
// structural match wins, so more specific patterns are declared first.
type Policy struct {
	public *PublicPaths
	rules  []rule
}

// NewPolicy builds the route table. Anything on the public allow-list needs
// nothing; admin routes need ADMIN; template design routes need a designing
// role; remaining versioned API routes need any authenticated identity; and
// unmatched paths are deliberately left open.
func NewPolicy(public *PublicPaths) *Policy {
	return &Policy{
		public: public,
		rules: []rule{
			{pattern: "/api/v1/admin/*", authenticated: true, roles: []domain.Role{domain.RoleAdmin}},
			{pattern: "/api/v1/workflows/templates/*", authenticated: true, roles: []domain.Role{domain.RoleAdmin, domain.RoleDesigner}},
			{pattern: "/api/v1/*", authenticated: true},
		},
	}
}

// Evaluate checks the identity (nil when unauthenticated) against the rule
// matching the path. It returns nil when access is allowed, an Unauthorized
// error when identity is required but absent, and a Forbidden error when the
// identity's role is insufficient.
func (p *Policy) Evaluate(path string, identity *Identity) error {
	if p.public.Match(path) {
		return nil
	}
	for _, r := range p.rules {
		if !r.matches(path) {
			continue
		}
		if r.authenticated && identity == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(r.roles) == 0 {
			return nil
		}
		for _, role := range r.roles {
			if identity.Role == role {
				return nil
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
	// Explicit default allow for unmatched paths.
	return nil
}

// Enforce returns the fiber middleware that applies the policy to every
// request using whatever identity the resolver bound.
func (p *Policy) Enforce() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		if err := p.Evaluate(c.Path(), identity); err != nil {
			return err
		}
		return c.Next()
	}
}
