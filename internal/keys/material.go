package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
)

// Status marks whether material may still sign. Retired material stays
// resolvable so previously issued tokens keep verifying.
type Status string

const (
	StatusActive  Status = "active"
	StatusRetired Status = "retired"
)

// DefaultNamespace es el prefijo del key id cuando la config no fija otro.
const DefaultNamespace = "prc"

var ErrNoPrivateKey = errors.New("material has no private key")

// Material is one signing identity: an asymmetric key pair plus the
// derived identifiers. It is never mutated after creation; rotation
// means creating new Material and retiring the old one.
type Material struct {
	Alg        Algorithm
	Private    crypto.PrivateKey // nil for verify-only material
	Public     crypto.PublicKey
	Thumbprint string // base64url(SHA-256(PKIX DER of Public)), no padding
	KID        string // "<namespace>:x5t#S256:<thumbprint>"
	Status     Status
}

// Generate creates fresh Material for the given algorithm. RSA-4096 can
// take several seconds; callers should run this on a setup path, never
// inside the encode hot path.
func Generate(alg Algorithm, namespace string) (*Material, error) {
	var priv crypto.PrivateKey
	var pub crypto.PublicKey

	switch alg {
	case RS256, RS384, RS512:
		k, err := rsa.GenerateKey(rand.Reader, alg.RSABits())
		if err != nil {
			return nil, fmt.Errorf("generate rsa-%d: %w", alg.RSABits(), err)
		}
		priv, pub = k, &k.PublicKey
	case ES256:
		k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate p-256: %w", err)
		}
		priv, pub = k, &k.PublicKey
	default:
		return nil, fmt.Errorf("unknown algorithm %q", alg)
	}

	return FromKeyPair(alg, priv, pub, namespace)
}

// FromKeyPair derives thumbprint and kid for an existing pair. Used when
// loading material from the keystore.
func FromKeyPair(alg Algorithm, priv crypto.PrivateKey, pub crypto.PublicKey, namespace string) (*Material, error) {
	tp, err := Thumbprint(pub)
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Material{
		Alg:        alg,
		Private:    priv,
		Public:     pub,
		Thumbprint: tp,
		KID:        KeyID(namespace, tp),
		Status:     StatusActive,
	}, nil
}

// Thumbprint devuelve sha256(PKIX DER de la pública) en base64url sin
// padding. Es estable: el mismo par produce siempre el mismo thumbprint.
func Thumbprint(pub crypto.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	sum := sha256.Sum256(der)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

// KeyID builds the namespaced key id carried in token headers.
func KeyID(namespace, thumbprint string) string {
	return namespace + ":x5t#S256:" + thumbprint
}

// VerifyOnly returns a copy without the private key, for handing to
// verification paths that must not be able to sign.
func (m *Material) VerifyOnly() *Material {
	cp := *m
	cp.Private = nil
	return &cp
}
