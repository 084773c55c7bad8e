package token

import (
	"fmt"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// PeekKID extrae el kid del header SIN verificar la firma. Sirve solo
// para resolver material de firma en un keystore; nunca para confiar en
// el contenido del token.
func PeekKID(tokenString string) (string, error) {
	tok, _, err := jwtv5.NewParser().ParseUnverified(tokenString, jwtv5.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrVerificationFailure, err)
	}
	kid, _ := tok.Header["kid"].(string)
	if kid == "" {
		return "", fmt.Errorf("%w: missing kid header", ErrVerificationFailure)
	}
	return kid, nil
}
