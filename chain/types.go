/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L3
Logic:       Core data model for the multi-stage chain executor:
             stage configuration, the single-method client contract,
             messages, history turns, and the request/response shapes
             exposed over HTTP.
Root Cause:  Interface design affects every downstream component
             (prompt assembler, projector, stage executor, chain
             executor) — kept in one file, mirroring the teacher's
             provider.go role as the shared vocabulary for a package.
Suitability: L3 for interface design affecting architecture.
──────────────────────────────────────────────────────────────
*/

package chain

import "context"

// Role identifies a stage's semantic function in the pipeline.
type Role string

const (
	RoleAnalyzer   Role = "analyzer"
	RoleImitator   Role = "imitator"
	RolePostEditor Role = "post_editor"
	RoleMasker     Role = "masker"
)

// StageConfig is an immutable description of one pipeline step.
type StageConfig struct {
	Role            Role
	Name            string
	Provider        string
	Model           string
	Temperature     float64
	TopP            float64
	MaxOutputTokens *int // optional
}

// Message is one entry in the ordered list passed to a client.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// LLMResponse is the result of one client call.
type LLMResponse struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Metadata     map[string]string // must contain "model"
}

// Client is the single-method contract every stage invokes. Provider
// connectors (Anthropic, OpenAI-compatible, Gemini, ...) live outside
// this package and satisfy this interface; the chain executor never
// imports a vendor SDK directly.
type Client interface {
	Generate(ctx context.Context, messages []Message, maxOutputTokens *int, temperature, topP float64) (*LLMResponse, error)
}

// Stage pairs a StageConfig with the client handle that executes it.
type Stage struct {
	Config StageConfig
	Client Client
}

// HistoryTurn is the persisted form of one conversation turn.
type HistoryTurn struct {
	Role string `json:"role"` // "user" | "assistant"
	Text string `json:"text"`
}

// ChainRequest is the inbound request to RunChain.
type ChainRequest struct {
	History        string                 `json:"history,omitempty"`
	UserInput      string                 `json:"user_input"`
	Settings       map[string]interface{} `json:"settings,omitempty"`
	PersonaID      string                 `json:"persona_id,omitempty"`
	ConversationID string                 `json:"conversation_id,omitempty"`
}

// CallRecord is the per-stage accounting entry in ChainResponse.Calls.
type CallRecord struct {
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	LatencyS     float64 `json:"latency_s"`
}

// ChainResponse is the aggregated result of one chain run.
type ChainResponse struct {
	Output   string              `json:"output"`
	LatencyS float64             `json:"latency_s"`
	CostUSD  float64             `json:"cost_usd"`
	Calls    map[Role]CallRecord `json:"calls"`
}

// CostLogRecord is one line written to the cost log per completed chain.
type CostLogRecord struct {
	Timestamp      string               `json:"timestamp"`
	ConversationID *string              `json:"conversation_id"`
	TotalCostUSD   float64              `json:"total_cost_usd"`
	TotalLatencyS  float64              `json:"total_latency_s"`
	Calls          map[Role]CallRecord `json:"calls"`
}
