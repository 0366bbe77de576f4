package token

import "errors"

// Error kinds surfaced by Decode and Validate. Callers branch with errors.Is;
// the identity resolver collapses all of them into an unauthenticated outcome.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
	ErrWrongTokenType   = errors.New("wrong token type")
)
