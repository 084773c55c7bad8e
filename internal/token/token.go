// Package token arma y verifica el token firmado de tres segmentos
// (header.payload.signature) que liga un Record a un key id concreto.
package token

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaViolation: el record no pasa el contrato estructural.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrInvariantViolation: regla de negocio cross-field rota.
	ErrInvariantViolation = errors.New("business invariant violation")
	// ErrSigningFailure: material de firma inutilizable. Nunca degrada a
	// token sin firmar.
	ErrSigningFailure = errors.New("signing failure")
	// ErrVerificationFailure: firma inválida, algoritmo no coincidente o
	// payload re-validado inválido. La credencial NO es confiable.
	ErrVerificationFailure = errors.New("verification failure")
)

// ViolationsError carries the complete list of field-level violations of
// one validation gate. Unwrap yields the gate's sentinel so callers can
// classify with errors.Is and still read every violation.
type ViolationsError struct {
	kind       error
	Violations []string
}

func (e *ViolationsError) Error() string {
	return fmt.Sprintf("%v: %s", e.kind, strings.Join(e.Violations, "; "))
}

func (e *ViolationsError) Unwrap() error { return e.kind }

func newViolations(kind error, violations []string) *ViolationsError {
	return &ViolationsError{kind: kind, Violations: violations}
}

// ViolationList extracts the violation list from err, when it carries one.
func ViolationList(err error) []string {
	var ve *ViolationsError
	if errors.As(err, &ve) {
		return ve.Violations
	}
	return nil
}
