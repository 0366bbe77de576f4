package token

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/flowr-io/workflow-service/internal/domain"
)

// Lifetimes carries the externally configured duration for each token purpose.
type Lifetimes struct {
	Auth              time.Duration
	EmailVerification time.Duration
	PasswordReset     time.Duration
	Invitation        time.Duration
}

// Issuer builds purpose-scoped tokens. It computes signed strings only; it
// never persists anything or sends email.
type Issuer struct {
	codec     *Codec
	lifetimes Lifetimes
}

// NewIssuer builds an issuer over the shared codec.
func NewIssuer(codec *Codec, lifetimes Lifetimes) *Issuer {
	return &Issuer{codec: codec, lifetimes: lifetimes}
}

// IssueAuthToken issues a session token carrying the full identity triple.
func (i *Issuer) IssueAuthToken(email, userID string, role domain.Role, organizationID string) (string, time.Time, error) {
	claims, expiresAt := i.newClaims(TypeAuth, email, i.lifetimes.Auth)
	claims.UserID = userID
	claims.Role = role
	claims.OrganizationID = organizationID
	return i.sign(claims, expiresAt)
}

// IssueEmailVerificationToken issues a short-lived token proving control of
// the registered email address.
func (i *Issuer) IssueEmailVerificationToken(email, userID string) (string, time.Time, error) {
	claims, expiresAt := i.newClaims(TypeEmailVerification, email, i.lifetimes.EmailVerification)
	claims.UserID = userID
	claims.Email = email
	return i.sign(claims, expiresAt)
}

// IssuePasswordResetToken issues a short-lived token authorizing a password reset.
func (i *Issuer) IssuePasswordResetToken(email, userID string) (string, time.Time, error) {
	claims, expiresAt := i.newClaims(TypePasswordReset, email, i.lifetimes.PasswordReset)
	claims.UserID = userID
	claims.Email = email
	return i.sign(claims, expiresAt)
}

// IssueInvitationToken issues a token for a not-yet-active user. It carries
// the same identity triple as an AUTH token but its distinct type keeps an
// invited user from authenticating before accepting the invitation.
func (i *Issuer) IssueInvitationToken(email, userID string, role domain.Role, organizationID string) (string, time.Time, error) {
	claims, expiresAt := i.newClaims(TypeInvitation, email, i.lifetimes.Invitation)
	claims.UserID = userID
	claims.Email = email
	claims.Role = role
	claims.OrganizationID = organizationID
	return i.sign(claims, expiresAt)
}

func (i *Issuer) newClaims(typ Type, subject string, ttl time.Duration) (*Claims, time.Time) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	return &Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}, expiresAt
}

func (i *Issuer) sign(claims *Claims, expiresAt time.Time) (string, time.Time, error) {
	signed, err := i.codec.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
