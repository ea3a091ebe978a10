/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L3
Logic:       Router with the full middleware chain:
             CORS → Security Headers → Request ID → Recoverer
             → Request Logger → Body Size Limit, then, inside
             the authenticated group: Auth → Rate Limit → Header
             Normalization. Routes: POST /multi_chain, /healthz,
             /ready.
Context:     Router design affects all downstream handlers.
Suitability: L3 model for proper middleware chain design.
──────────────────────────────────────────────────────────────
*/

package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/matejviezan93/bridge-ai-chain/chain"
	"github.com/matejviezan93/bridge-ai-chain/config"
	"github.com/matejviezan93/bridge-ai-chain/handler"
	bmw "github.com/matejviezan93/bridge-ai-chain/middleware"
)

// NewRouter returns a configured chi Router with the full middleware
// chain and the chain endpoint mounted. rateLimiter is pre-built by the
// caller so it can optionally carry a Redis backing.
func NewRouter(cfg *config.Config, appLogger zerolog.Logger, c *chain.Chain, rateLimiter *bmw.RateLimiter) http.Handler {
	r := chi.NewRouter()

	// --- Middleware Chain (order matters) ---
	r.Use(bmw.CORSMiddleware([]string{"*"}))
	r.Use(bmw.SecurityHeadersMiddleware)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mwRequestLogger(appLogger))
	r.Use(mwMaxBodySize(cfg.MaxBodyBytes))

	// --- Health endpoints (no auth required) ---
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"bridge-ai-chain"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready","service":"bridge-ai-chain"}`))
	})

	// --- Chain endpoint (auth + rate limit required) ---
	chainHandler := handler.NewChainHandler(appLogger, c)
	authMW := bmw.NewAuthMiddleware(appLogger, cfg.APIKeyHeader)
	headerNorm := bmw.NewHeaderNormalization(appLogger)

	r.Group(func(r chi.Router) {
		r.Use(authMW.Handler)
		r.Use(rateLimiter.Handler)
		r.Use(headerNorm.Handler)

		r.Post("/multi_chain", chainHandler.RunChain)
	})

	return r
}

// mwMaxBodySize returns middleware that limits the request body size.
func mwMaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = 1 * 1024 * 1024
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > 0 && r.ContentLength > maxBytes {
				http.Error(w, `{"error":"request_too_large","message":"request body too large"}`, http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func mwRequestLogger(appLogger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(rw, r)
			dur := time.Since(start)
			reqID := chimw.GetReqID(r.Context())
			appLogger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("req_id", reqID).
				Int("status", rw.Status()).
				Dur("duration", dur).
				Msg("request completed")
		})
	}
}

