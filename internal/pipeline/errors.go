package pipeline

import (
	"errors"

	"github.com/dropDatabas3/credseal/internal/qr"
	"github.com/dropDatabas3/credseal/internal/token"
)

// Error kinds exposed upward. Every pipeline failure is errors.Is-able
// against exactly one of these so the calling workflow can render an
// actionable message instead of a generic one.
var (
	// Recoverable by re-entry of the record.
	ErrSchemaViolation    = token.ErrSchemaViolation
	ErrInvariantViolation = token.ErrInvariantViolation

	// Key material unusable for this call.
	ErrSigningFailure = token.ErrSigningFailure

	// Do not trust the credential.
	ErrVerificationFailure = token.ErrVerificationFailure

	// Malformed base-45 input or corrupt compressed stream.
	ErrCodecFailure = errors.New("codec failure")

	// Recoverable by raising the EC level or shrinking optional fields.
	ErrCapacityExceeded = qr.ErrCapacityExceeded
)

// codecErr marca un error de encode/inflate con el kind ErrCodecFailure
// sin perder el error original.
func codecErr(err error) error {
	return errors.Join(ErrCodecFailure, err)
}

// Violations returns the field-level violation list when err came from a
// validation gate, nil otherwise.
func Violations(err error) []string {
	return token.ViolationList(err)
}
