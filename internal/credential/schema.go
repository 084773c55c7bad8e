package credential

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

// Schema is the compiled structural contract for a Record. It is built
// once at startup and passed by reference wherever validation is needed;
// there is no process-wide hidden instance. A Schema is immutable and
// safe for concurrent use.
type Schema struct {
	compiled *jsonschema.Schema
}

// NewSchema compiles the embedded JSON Schema. A compile failure is a
// configuration error: callers must treat it as fatal and refuse to sign
// anything. There is deliberately no always-valid fallback.
func NewSchema() (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("prc-1.0.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("prc-1.0.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks r against the structural contract (required fields,
// lengths, patterns, country enumeration) and returns the complete list
// of violations. Cross-field business rules live in CheckInvariants, not
// here. An empty slice means the record is structurally valid.
func (s *Schema) Validate(r Record) ([]string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}

	var violations []string
	if err := s.compiled.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("schema validate: %w", err)
		}
		violations = flatten(ve, nil)
	}

	// El pattern del schema solo fija la forma YYYY-MM-DD; la convención
	// "00" (mes/día desconocido) y la sanidad de calendario van aparte.
	if r.DateOfBirth != "" && !hasViolationFor(violations, "/dob") && !ValidBirthDate(r.DateOfBirth) {
		violations = append(violations, "/dob: not a valid birth date")
	}

	return violations, nil
}

func hasViolationFor(violations []string, location string) bool {
	for _, v := range violations {
		if len(v) >= len(location) && v[:len(location)] == location {
			return true
		}
	}
	return false
}

// flatten walks the cause tree and collects the leaf errors as
// "<instance location>: <message>" strings.
func flatten(ve *jsonschema.ValidationError, out []string) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return append(out, fmt.Sprintf("%s: %s", loc, ve.Message))
	}
	for _, c := range ve.Causes {
		out = flatten(c, out)
	}
	return out
}
