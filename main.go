/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L3
Logic:       Gateway entry point with graceful shutdown: wires
             config → logger → Redis → the four-stage chain
             pipeline → router → HTTP server with OS signal
             handling. Replaces the original multi-provider
             registry wiring with the narrower stage pipeline
             this service actually runs.
Root Cause:  Sprint task T011 — HTTP server with graceful
             shutdown.
Context:     Entry point wiring config → logger → Redis →
             chain pipeline → router → HTTP server.
Suitability: L3 model for graceful shutdown and system wiring.
──────────────────────────────────────────────────────────────
*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/matejviezan93/bridge-ai-chain/chain"
	"github.com/matejviezan93/bridge-ai-chain/config"
	"github.com/matejviezan93/bridge-ai-chain/llmclient"
	"github.com/matejviezan93/bridge-ai-chain/logger"
	bmw "github.com/matejviezan93/bridge-ai-chain/middleware"
	"github.com/matejviezan93/bridge-ai-chain/redisclient"
	"github.com/matejviezan93/bridge-ai-chain/router"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)

	log.Info().Str("env", cfg.Env).Msg("bridge-ai-chain gateway starting")

	rl := bmw.NewRateLimiter(log, cfg.RateLimitEnabled, cfg.RateLimitRPM, cfg.RateLimitBurst)

	// Initialize Redis (optional; only used for distributed rate limiting)
	if cfg.RedisURL != "" {
		rc, err := redisclient.New(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("redis init failed — rate limiter falling back to in-memory")
		} else if err := rc.Ping(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed — rate limiter falling back to in-memory")
		} else {
			log.Info().Msg("redis connected")
			rl = rl.WithRedis(rc)
		}
	}

	pricing := chain.DefaultPricing()
	if cfg.PricingOverridesPath != "" {
		if err := pricing.LoadOverridesFromFile(cfg.PricingOverridesPath); err != nil {
			log.Warn().Err(err).Str("path", cfg.PricingOverridesPath).Msg("pricing overrides not loaded")
		}
	}

	stages, err := buildStages(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build chain stages")
	}

	c := &chain.Chain{
		Stages:           stages,
		CostCap:          cfg.CostCapUSD,
		Pricing:          pricing,
		History:          chain.NewHistoryStore(cfg.HistoryDir),
		Persona:          chain.NewPersonaStore(cfg.PersonaDir),
		CostLog:          chain.NewCostLogWriter(cfg.CostLogPath),
		Log:              log,
		HistoryMaxTokens: cfg.HistoryMaxTokens,
	}

	// Create router with the full middleware chain and the chain endpoint
	r := router.NewRouter(cfg, log, c, rl)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-done
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GracefulTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("gateway stopped gracefully")
	}
}

// buildStages assembles the fixed analyzer → imitator → post_editor →
// masker pipeline, resolving each stage's provider and model from
// environment variables and registering the matching llmclient adapter.
func buildStages(log zerolog.Logger) ([]chain.Stage, error) {
	roles := []struct {
		role         chain.Role
		envPrefix    string
		defaultProv  string
		defaultModel string
		defaultTemp  float64
		defaultTopP  float64
		defaultMax   int
	}{
		{chain.RoleAnalyzer, "CHAIN_ANALYZER", "anthropic", "claude-3-5-haiku-20241022", 0.2, 1.0, 1024},
		{chain.RoleImitator, "CHAIN_IMITATOR", "anthropic", "claude-3-5-haiku-20241022", 0.9, 1.0, 2048},
		{chain.RolePostEditor, "CHAIN_POST_EDITOR", "openai", "gpt-4o-mini", 0.3, 1.0, 2048},
		{chain.RoleMasker, "CHAIN_MASKER", "gemini", "gemini-1.5-flash", 0.2, 1.0, 1024},
	}

	stages := make([]chain.Stage, 0, len(roles))
	for _, rc := range roles {
		provider := getEnv(rc.envPrefix+"_PROVIDER", rc.defaultProv)
		model := getEnv(rc.envPrefix+"_MODEL", rc.defaultModel)

		client, err := buildClient(provider, model)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", rc.role, err)
		}

		maxOut := rc.defaultMax
		stages = append(stages, chain.Stage{
			Config: chain.StageConfig{
				Role:            rc.role,
				Name:            string(rc.role),
				Provider:        provider,
				Model:           model,
				Temperature:     rc.defaultTemp,
				TopP:            rc.defaultTopP,
				MaxOutputTokens: &maxOut,
			},
			Client: client,
		})
		log.Info().Str("role", string(rc.role)).Str("provider", provider).Str("model", model).Msg("registered chain stage")
	}

	return stages, nil
}

// buildClient returns a chain.Client for the named provider, reading the
// matching API key (and, for azure, the endpoint) from the environment.
func buildClient(provider, model string) (chain.Client, error) {
	switch provider {
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		return llmclient.NewAnthropic(key, model), nil

	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return llmclient.NewOpenAICompatible(key, "", model), nil

	case "groq":
		key := os.Getenv("GROQ_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GROQ_API_KEY not set")
		}
		return llmclient.NewOpenAICompatible(key, "https://api.groq.com/openai/v1", model), nil

	case "together":
		key := os.Getenv("TOGETHER_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("TOGETHER_API_KEY not set")
		}
		return llmclient.NewOpenAICompatible(key, "https://api.together.xyz/v1", model), nil

	case "azure":
		endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
		key := os.Getenv("AZURE_OPENAI_KEY")
		if endpoint == "" || key == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_KEY must both be set")
		}
		return llmclient.NewOpenAICompatible(key, endpoint, model), nil

	case "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		return llmclient.NewGemini(key, model), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
