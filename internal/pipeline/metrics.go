package pipeline

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	encodeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credseal",
		Subsystem: "pipeline",
		Name:      "encode_total",
		Help:      "Encode attempts by outcome.",
	}, []string{"outcome"})

	decodeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credseal",
		Subsystem: "pipeline",
		Name:      "decode_total",
		Help:      "Decode/verify attempts by outcome.",
	}, []string{"outcome"})

	encodedLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "credseal",
		Subsystem: "pipeline",
		Name:      "encoded_length_chars",
		Help:      "Length of the base45 payload handed to the renderer.",
		Buckets:   []float64{100, 200, 300, 400, 600, 800, 1200, 1800, 2700, 4296},
	})
)

// outcomeLabel colapsa un error a su kind para no explotar cardinalidad.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSchemaViolation):
		return "schema_violation"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	case errors.Is(err, ErrSigningFailure):
		return "signing_failure"
	case errors.Is(err, ErrVerificationFailure):
		return "verification_failure"
	case errors.Is(err, ErrCodecFailure):
		return "codec_failure"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	}
	return "other"
}

func observeEncode(err error) { encodeTotal.WithLabelValues(outcomeLabel(err)).Inc() }
func observeDecode(err error) { decodeTotal.WithLabelValues(outcomeLabel(err)).Inc() }
