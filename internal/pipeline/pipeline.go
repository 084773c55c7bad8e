// Package pipeline compone las etapas del camino record → barcode string
// (firmar → deflate → base45 → planificar capacidad) y su inverso. Todas
// las operaciones son síncronas, puras respecto de sus entradas y sin
// estado mutable compartido: es seguro llamarlas en paralelo.
package pipeline

import (
	"github.com/dropDatabas3/credseal/internal/credential"
	"github.com/dropDatabas3/credseal/internal/encode"
	"github.com/dropDatabas3/credseal/internal/keys"
	"github.com/dropDatabas3/credseal/internal/qr"
	"github.com/dropDatabas3/credseal/internal/token"
)

// Result is what the document renderer receives: a string guaranteed to
// satisfy the 45-symbol alphabet and the barcode version that holds it.
type Result struct {
	Payload string     `json:"payload"`
	Version int        `json:"version"`
	Level   qr.ECLevel `json:"level"`
}

// Pipeline wires the stages over one compiled schema and one key
// material. Rotation and deactivation of material happen outside; the
// pipeline accepts whatever material it is handed as long as the
// algorithm tag is recognized.
type Pipeline struct {
	signer   *token.Signer
	verifier *token.Verifier
	material *keys.Material
	level    qr.ECLevel
}

// Option configura un Pipeline.
type Option func(*Pipeline)

// WithLevel overrides the default error-correction level (L).
func WithLevel(level qr.ECLevel) Option {
	return func(p *Pipeline) { p.level = level }
}

// New builds a Pipeline. schema must already be compiled (fail-fast at
// startup); mat must carry a recognized algorithm tag.
func New(schema *credential.Schema, mat *keys.Material, opts ...Option) *Pipeline {
	p := &Pipeline{
		signer:   token.NewSigner(schema),
		verifier: token.NewVerifier(schema),
		material: mat,
		level:    qr.DefaultLevel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ToBarcodeString runs the full encode path. It never returns a partial
// result: any stage error aborts the call with the stage's error kind.
func (p *Pipeline) ToBarcodeString(rec credential.Record) (Result, error) {
	signed, err := p.signer.Sign(rec, p.material)
	if err != nil {
		observeEncode(err)
		return Result{}, err
	}

	compressed, err := encode.Deflate(signed)
	if err != nil {
		err = codecErr(err)
		observeEncode(err)
		return Result{}, err
	}

	payload := encode.EncodeBase45(compressed)
	if err := encode.CheckAlphabet(payload); err != nil {
		err = codecErr(err)
		observeEncode(err)
		return Result{}, err
	}

	version, err := qr.SelectVersion(len(payload), p.level)
	if err != nil {
		observeEncode(err)
		return Result{}, err
	}

	observeEncode(nil)
	encodedLength.Observe(float64(len(payload)))
	return Result{Payload: payload, Version: version, Level: p.level}, nil
}

// FromBarcodeString runs the inverse path: base45 decode → inflate →
// parse + verify signature → re-validated record.
func (p *Pipeline) FromBarcodeString(s string) (credential.Record, error) {
	var zero credential.Record

	compressed, err := encode.DecodeBase45(s)
	if err != nil {
		err = codecErr(err)
		observeDecode(err)
		return zero, err
	}

	signed, err := encode.Inflate(compressed)
	if err != nil {
		err = codecErr(err)
		observeDecode(err)
		return zero, err
	}

	rec, err := p.verifier.Verify(signed, p.material)
	if err != nil {
		observeDecode(err)
		return zero, err
	}

	observeDecode(nil)
	return rec, nil
}
