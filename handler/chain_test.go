package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/matejviezan93/bridge-ai-chain/chain"
	"github.com/matejviezan93/bridge-ai-chain/handler"
)

type stubClient struct {
	model string
}

func (s *stubClient) Generate(ctx context.Context, messages []chain.Message, maxOutputTokens *int, temperature, topP float64) (*chain.LLMResponse, error) {
	return &chain.LLMResponse{
		Text:         "ok",
		InputTokens:  10,
		OutputTokens: 10,
		Metadata:     map[string]string{"model": s.model},
	}, nil
}

func testChain(t *testing.T, costCap float64) *chain.Chain {
	t.Helper()
	dir := t.TempDir()
	pricing := chain.DefaultPricing()
	pricing.Set("test-model", chain.ModelPricing{InputUSDPerMTok: 1, OutputUSDPerMTok: 1})

	stages := []chain.Stage{
		{Config: chain.StageConfig{Role: chain.RoleAnalyzer, Model: "test-model"}, Client: &stubClient{model: "test-model"}},
		{Config: chain.StageConfig{Role: chain.RoleImitator, Model: "test-model"}, Client: &stubClient{model: "test-model"}},
		{Config: chain.StageConfig{Role: chain.RolePostEditor, Model: "test-model"}, Client: &stubClient{model: "test-model"}},
		{Config: chain.StageConfig{Role: chain.RoleMasker, Model: "test-model"}, Client: &stubClient{model: "test-model"}},
	}

	return &chain.Chain{
		Stages:           stages,
		CostCap:          costCap,
		Pricing:          pricing,
		History:          chain.NewHistoryStore(filepath.Join(dir, "history")),
		Persona:          chain.NewPersonaStore(filepath.Join(dir, "personas")),
		CostLog:          chain.NewCostLogWriter(filepath.Join(dir, "costs.jsonl")),
		Log:              zerolog.Nop(),
		HistoryMaxTokens: 30_000,
	}
}

func TestRunChainHandlerSuccess(t *testing.T) {
	h := handler.NewChainHandler(zerolog.Nop(), testChain(t, 10.0))

	body, _ := json.Marshal(chain.ChainRequest{UserInput: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/multi_chain", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.RunChain(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp chain.ChainResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Output != "ok" {
		t.Fatalf("expected output 'ok', got %q", resp.Output)
	}
}

func TestRunChainHandlerValidationError(t *testing.T) {
	h := handler.NewChainHandler(zerolog.Nop(), testChain(t, 10.0))

	body, _ := json.Marshal(chain.ChainRequest{UserInput: ""})
	req := httptest.NewRequest(http.MethodPost, "/multi_chain", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.RunChain(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRunChainHandlerBudgetExceeded(t *testing.T) {
	h := handler.NewChainHandler(zerolog.Nop(), testChain(t, 0.0000001))

	body, _ := json.Marshal(chain.ChainRequest{UserInput: "hello", Settings: map[string]interface{}{"target_words": 5000.0}})
	req := httptest.NewRequest(http.MethodPost, "/multi_chain", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.RunChain(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRunChainHandlerMalformedBody(t *testing.T) {
	h := handler.NewChainHandler(zerolog.Nop(), testChain(t, 10.0))

	req := httptest.NewRequest(http.MethodPost, "/multi_chain", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.RunChain(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}
