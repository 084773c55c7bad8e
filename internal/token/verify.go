package token

import (
	"fmt"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/credseal/internal/credential"
	"github.com/dropDatabas3/credseal/internal/keys"
)

// Verifier is the round-trip counterpart of Signer.
type Verifier struct {
	Schema *credential.Schema
}

func NewVerifier(schema *credential.Schema) *Verifier {
	return &Verifier{Schema: schema}
}

// Verify checks tokenString against mat and returns the embedded record.
// Gates, in order:
//  1. header alg must equal mat's algorithm exactly: the parser is
//     pinned to that single method, so no algorithm-confusion fallback
//  2. header kid must equal mat's key id
//  3. signature must verify with mat's public key
//  4. sid must be the known record format version
//  5. the payload must pass the schema gate again (never trust the wire)
func (v *Verifier) Verify(tokenString string, mat *keys.Material) (credential.Record, error) {
	var zero credential.Record

	method := mat.Alg.SigningMethod()
	if method == nil {
		return zero, fmt.Errorf("%w: unknown algorithm %q", ErrVerificationFailure, mat.Alg)
	}

	keyfunc := func(t *jwtv5.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid != mat.KID {
			return nil, fmt.Errorf("kid mismatch: token %q, material %q", kid, mat.KID)
		}
		return mat.Public, nil
	}

	var claims Claims
	tok, err := jwtv5.ParseWithClaims(tokenString, &claims, keyfunc,
		jwtv5.WithValidMethods([]string{method.Alg()}))
	if err != nil || !tok.Valid {
		return zero, fmt.Errorf("%w: %v", ErrVerificationFailure, err)
	}

	if claims.SID != credential.SchemaID {
		return zero, fmt.Errorf("%w: unknown sid %q", ErrVerificationFailure, claims.SID)
	}

	violations, err := v.Schema.Validate(claims.Record)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrVerificationFailure, err)
	}
	if len(violations) > 0 {
		return zero, fmt.Errorf("%w: payload fails schema: %v", ErrVerificationFailure, violations)
	}

	return claims.Record, nil
}
