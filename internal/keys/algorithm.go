// Package keys maneja el material de firma: generación, thumbprint, key id
// y un keystore en filesystem con resolución por kid (incluye claves
// retiradas, para verificar tokens emitidos antes de una rotación).
package keys

import (
	"fmt"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Algorithm identifies the signature primitive of a key pair. Each tag
// pins its own key size or curve; there is no negotiation.
type Algorithm string

const (
	RS256 Algorithm = "RS256" // RSA-2048, PKCS#1 v1.5, SHA-256
	RS384 Algorithm = "RS384" // RSA-3072, PKCS#1 v1.5, SHA-384
	RS512 Algorithm = "RS512" // RSA-4096, PKCS#1 v1.5, SHA-512
	ES256 Algorithm = "ES256" // ECDSA P-256, SHA-256
)

// ParseAlgorithm validates an algorithm tag from config or key files.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case RS256, RS384, RS512, ES256:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("unknown algorithm %q", s)
}

// SigningMethod returns the jwt/v5 method for the tag.
func (a Algorithm) SigningMethod() jwtv5.SigningMethod {
	switch a {
	case RS256:
		return jwtv5.SigningMethodRS256
	case RS384:
		return jwtv5.SigningMethodRS384
	case RS512:
		return jwtv5.SigningMethodRS512
	case ES256:
		return jwtv5.SigningMethodES256
	}
	return nil
}

// RSABits returns the pinned modulus size for RSA tags, 0 for EC.
func (a Algorithm) RSABits() int {
	switch a {
	case RS256:
		return 2048
	case RS384:
		return 3072
	case RS512:
		return 4096
	}
	return 0
}
