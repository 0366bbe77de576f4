package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Codec signs and parses HS256 tokens with the process-wide symmetric key.
// The key is loaded once at startup and is read-only afterwards, so a single
// Codec is safe for concurrent use by any number of requests.
type Codec struct {
	key    []byte
	leeway time.Duration
}

// NewCodec builds a codec from the configured secret. The secret may be
// base64 encoded (standard or raw-standard alphabet); anything that does not
// decode is used as raw key bytes. Leeway widens the expiry check to tolerate
// clock skew between issuer and verifier; zero is the baseline.
func NewCodec(secret string, leeway time.Duration) *Codec {
	return &Codec{key: keyBytes(secret), leeway: leeway}
}

func keyBytes(secret string) []byte {
	if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(secret); err == nil {
		return decoded
	}
	return []byte(secret)
}

// Encode serializes and signs the claim set. The signature covers the full
// serialized payload, so any claim tampering invalidates it.
func (c *Codec) Encode(claims *Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode parses and verifies a token string without interpreting its type.
// Failures are reported as ErrMalformedToken, ErrInvalidSignature or
// ErrExpired; no claim may be trusted unless Decode succeeds.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.key, nil
	}, jwt.WithLeeway(c.leeway))
	if err != nil {
		return nil, mapParseError(err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrInvalidSignature
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
