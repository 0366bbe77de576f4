package token

import (
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/flowr-io/workflow-service/internal/domain"
)

// Type discriminates the purpose a token was issued for. A token validated
// for one purpose must be rejected for any other, signature notwithstanding.
type Type string

const (
	TypeAuth              Type = "AUTH"
	TypeEmailVerification Type = "EMAIL_VERIFICATION"
	TypePasswordReset     Type = "PASSWORD_RESET"
	TypeInvitation        Type = "INVITATION"
)

// Claims is the signed payload carried by every token. The registered subject
// is always the principal's email. AUTH and INVITATION tokens carry the full
// identity triple; verification and reset tokens duplicate the email as a
// claim so consumers can cross-check it against the subject.
type Claims struct {
	Type           Type        `json:"typ"`
	UserID         string      `json:"userId,omitempty"`
	Email          string      `json:"email,omitempty"`
	Role           domain.Role `json:"role,omitempty"`
	OrganizationID string      `json:"organizationId,omitempty"`
	jwt.RegisteredClaims
}
