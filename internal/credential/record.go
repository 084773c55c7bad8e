// Package credential define el Record de la credencial sanitaria y sus dos
// compuertas de validación: el schema estructural (JSON Schema) y las reglas
// de negocio cross-field (invariants.go). Ambas corren ANTES de firmar.
package credential

// SchemaID es el tag de versión del formato del payload ("sid" en el token).
const SchemaID = "eessi:prc:1.0"

// Record is the health-credential payload to be signed and encoded.
// JSON tags match the short claim names carried inside the signed token;
// optional fields use omitempty so they are only serialized when present.
type Record struct {
	// IssuingCountry: 2-letter code, must be a member of Countries.
	IssuingCountry string `json:"ic"`
	FamilyName     string `json:"fn"` // max 40 chars
	GivenName      string `json:"gn"` // max 35 chars
	// DateOfBirth: YYYY-MM-DD; "00" in month and/or day means unknown.
	DateOfBirth string `json:"dob"`
	// HolderID: personal identification number, max 20 chars.
	HolderID      string `json:"hi"`
	Institution   string `json:"in"` // max 21 chars
	InstitutionID string `json:"ii"` // 4..10 digits
	CardID        string `json:"ci,omitempty"` // max 20 digits
	ValidFrom     string `json:"sd"`
	ValidUntil    string `json:"ed"`
	IssuedAt      string `json:"di"`
	ExpiresAt     string `json:"xd,omitempty"`
	// RevocationRef: URI where revocation status can be checked.
	RevocationRef string `json:"ru,omitempty"`
}
