package token

// Validator decodes tokens and enforces their declared purpose.
type Validator struct {
	codec *Codec
}

// NewValidator builds a validator over the shared codec.
func NewValidator(codec *Codec) *Validator {
	return &Validator{codec: codec}
}

// Validate decodes the token and checks its type against the expected
// purpose. Codec errors pass through as-is; a purpose mismatch is reported as
// ErrWrongTokenType so callers can distinguish it from a malformed token.
func (v *Validator) Validate(tokenStr string, expected Type) (*Claims, error) {
	claims, err := v.codec.Decode(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// IsValid is the non-throwing authentication fast path: true iff the token
// decodes, is an unexpired AUTH token and its subject matches.
func (v *Validator) IsValid(tokenStr, expectedSubject string) bool {
	claims, err := v.Validate(tokenStr, TypeAuth)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject
}
