package token

import (
	"fmt"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/credseal/internal/credential"
	"github.com/dropDatabas3/credseal/internal/keys"
)

// Claims is the token payload: a fresh token id, the record format
// version tag, and the record fields themselves. RegisteredClaims
// contributes only "jti"; iat/nbf/exp are deliberately never set, the
// record's own di is the only temporal claim.
type Claims struct {
	jwtv5.RegisteredClaims
	SID string `json:"sid"`
	credential.Record
}

// Signer binds records to key material. It runs both validation gates
// before producing a signature; a record that fails either gate never
// reaches the signing primitive.
type Signer struct {
	Schema *credential.Schema
}

// NewSigner builds a Signer over an already-compiled schema.
func NewSigner(schema *credential.Schema) *Signer {
	return &Signer{Schema: schema}
}

// Sign validates rec and returns the compact three-segment serialization
// signed with mat. The header carries {alg, typ, kid}; typ is always
// "JWT".
func (s *Signer) Sign(rec credential.Record, mat *keys.Material) (string, error) {
	violations, err := s.Schema.Validate(rec)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}
	if len(violations) > 0 {
		return "", newViolations(ErrSchemaViolation, violations)
	}

	if violations := credential.CheckInvariants(rec); len(violations) > 0 {
		return "", newViolations(ErrInvariantViolation, violations)
	}

	method := mat.Alg.SigningMethod()
	if method == nil {
		return "", fmt.Errorf("%w: unknown algorithm %q", ErrSigningFailure, mat.Alg)
	}
	if mat.Private == nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailure, keys.ErrNoPrivateKey)
	}

	claims := Claims{
		RegisteredClaims: jwtv5.RegisteredClaims{ID: uuid.NewString()},
		SID:              credential.SchemaID,
		Record:           rec,
	}
	tk := jwtv5.NewWithClaims(method, claims)
	tk.Header["kid"] = mat.KID

	signed, err := tk.SignedString(mat.Private)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}
	return signed, nil
}
