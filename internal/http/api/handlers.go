// Package api es la fachada HTTP del pipeline: una capa fina y sin
// estado sobre encode/decode para los colaboradores externos (colección
// de records y renderizado de documentos). Acá no hay persistencia ni
// política de acceso.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/credseal/internal/credential"
	"github.com/dropDatabas3/credseal/internal/observability/logger"
	"github.com/dropDatabas3/credseal/internal/pipeline"
)

// Handler expone el pipeline vía HTTP.
type Handler struct {
	Pipe *pipeline.Pipeline
}

func NewHandler(p *pipeline.Pipeline) *Handler {
	return &Handler{Pipe: p}
}

// Sign: POST /v1/sign. Body es el Record JSON; responde payload base45,
// versión QR y nivel EC.
func (h *Handler) Sign(w http.ResponseWriter, r *http.Request) {
	var rec credential.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, errInvalidJSON)
		return
	}

	res, err := h.Pipe.ToBarcodeString(rec)
	if err != nil {
		log := logger.From(r.Context())
		log.Warn("encode failed", logger.Err(err))
		writeError(w, fromPipelineError(err))
		return
	}

	logger.From(r.Context()).Info("credential encoded",
		logger.Version(res.Version),
		logger.ECLevel(string(res.Level)),
		logger.PayloadLength(len(res.Payload)))
	writeJSON(w, res)
}

type verifyRequest struct {
	Payload string `json:"payload"`
}

// Verify: POST /v1/verify. Body {"payload": "<base45>"}; responde el
// Record verificado o el kind del fallo.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Payload == "" {
		writeError(w, errInvalidJSON)
		return
	}

	rec, err := h.Pipe.FromBarcodeString(req.Payload)
	if err != nil {
		logger.From(r.Context()).Warn("verify failed", logger.Err(err))
		writeError(w, fromPipelineError(err))
		return
	}

	writeJSON(w, rec)
}

// Health: GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
