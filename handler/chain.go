/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L3
Logic:       HTTP handler implementing POST /multi_chain: decodes
             the request body, calls the chain executor, and maps
             the returned error kind to an HTTP status. This is the
             thin layer — all orchestration logic lives in the
             chain package.
Suitability: L3 model for request/response mapping.
──────────────────────────────────────────────────────────────
*/

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/matejviezan93/bridge-ai-chain/chain"
)

// ChainHandler serves POST /multi_chain.
type ChainHandler struct {
	logger zerolog.Logger
	chain  *chain.Chain
}

// NewChainHandler creates a new chain handler.
func NewChainHandler(logger zerolog.Logger, c *chain.Chain) *ChainHandler {
	return &ChainHandler{logger: logger, chain: c}
}

// RunChain handles POST /multi_chain.
func (h *ChainHandler) RunChain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := r.Header.Get("X-Request-ID")

	var req chain.ChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "failed to parse request body: "+err.Error())
		return
	}

	resp, err := h.chain.RunChain(r.Context(), req)
	if err != nil {
		h.handleError(w, reqID, err)
		return
	}

	h.logger.Info().
		Str("req_id", reqID).
		Float64("cost_usd", resp.CostUSD).
		Float64("latency_s", resp.LatencyS).
		Dur("handler_duration", time.Since(start)).
		Msg("chain run completed")

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ChainHandler) handleError(w http.ResponseWriter, reqID string, err error) {
	chainErr, ok := err.(*chain.Error)
	if !ok {
		h.logger.Error().Str("req_id", reqID).Err(err).Msg("unmapped chain error")
		h.writeError(w, http.StatusInternalServerError, "internal_error", "chain run failed")
		return
	}

	h.logger.Warn().
		Str("req_id", reqID).
		Str("kind", string(chainErr.Kind)).
		Err(chainErr).
		Msg("chain run failed")

	h.writeError(w, chainErr.Status(), string(chainErr.Kind), chainErr.Error())
}

func (h *ChainHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *ChainHandler) writeError(w http.ResponseWriter, status int, errType, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    errType,
			"message": message,
		},
	})
}
