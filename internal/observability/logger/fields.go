package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar del pipeline. Usar siempre estos helpers para que los
// nombres queden consistentes entre CLI y servicio.

// KID crea un campo para el key id del material de firma.
func KID(v string) zap.Field {
	return zap.String("kid", v)
}

// Algorithm crea un campo para el tag de algoritmo (RS256/RS384/RS512/ES256).
func Algorithm(v string) zap.Field {
	return zap.String("alg", v)
}

// Version crea un campo para la versión de QR seleccionada.
func Version(v int) zap.Field {
	return zap.Int("qr_version", v)
}

// ECLevel crea un campo para el nivel de corrección de errores.
func ECLevel(v string) zap.Field {
	return zap.String("ec_level", v)
}

// PayloadLength crea un campo para el largo del string base45.
func PayloadLength(v int) zap.Field {
	return zap.Int("payload_length", v)
}

// Violations crea un campo con la lista completa de violaciones de una
// compuerta de validación.
func Violations(v []string) zap.Field {
	return zap.Strings("violations", v)
}

// ───────────────────────────── HTTP ─────────────────────────────

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Err crea un campo de error estándar.
func Err(err error) zap.Field {
	return zap.Error(err)
}
