package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// EncodePrivatePEM serializes a private key as PKCS#8 PEM. The result is
// for the keystore only; private keys never travel in tokens.
func EncodePrivatePEM(priv crypto.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("marshal pkcs8: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// DecodePrivatePEM parses a PKCS#8 PEM private key and returns the key
// pair. Only RSA and ECDSA keys are accepted.
func DecodePrivatePEM(data []byte) (crypto.PrivateKey, crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, nil, fmt.Errorf("invalid private key PEM")
	}
	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parse pkcs8: %w", err)
	}
	switch k := priv.(type) {
	case *rsa.PrivateKey:
		return k, &k.PublicKey, nil
	case *ecdsa.PrivateKey:
		return k, &k.PublicKey, nil
	}
	return nil, nil, fmt.Errorf("unsupported private key type %T", priv)
}

// EncodePublicPEM serializes a public key as PKIX PEM.
func EncodePublicPEM(pub crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("marshal pkix: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// DecodePublicPEM parses a PKIX PEM public key.
func DecodePublicPEM(data []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("invalid public key PEM")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse pkix: %w", err)
	}
	switch pub.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return pub, nil
	}
	return nil, fmt.Errorf("unsupported public key type %T", pub)
}
