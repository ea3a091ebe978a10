/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L3
Logic:       The chain executor: wires persona lookup, history
             load/trim, pre-flight budget enforcement, sequential
             stage execution, history persistence, and cost-log
             writing into the single RunChain entry point the HTTP
             handler calls.
Root Cause:  C8/C10 — the orchestration core. Stages execute in
             strict sequence within one run (each depends on the
             previous stage's output); independent RunChain calls
             run fully concurrently, synchronized only where they
             share a conversation file via HistoryStore's per-path
             locking.
Suitability: L3 — the core control flow; correctness matters.
──────────────────────────────────────────────────────────────
*/

package chain

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Chain holds the fixed pipeline topology and the shared state stores a
// RunChain call needs. One Chain is built at startup and shared across
// all requests.
type Chain struct {
	Stages    []Stage
	CostCap   float64
	Pricing   *PricingTable
	History   *HistoryStore
	Persona   *PersonaStore
	CostLog   *CostLogWriter
	Log       zerolog.Logger

	// HistoryMaxTokens bounds how much prior conversation is loaded into
	// a stage prompt before the oldest turns are trimmed off.
	HistoryMaxTokens int
}

// RunChain executes the full pipeline for one request: it validates the
// input, resolves persona and history, rejects the request up front if
// the projected cost exceeds the budget cap, runs each stage in order
// threading the previous stage's output forward, and on success persists
// the new history turns and appends a cost-log line.
func (c *Chain) RunChain(ctx context.Context, req ChainRequest) (*ChainResponse, error) {
	if req.UserInput == "" {
		return nil, newValidationErr("user_input must not be empty")
	}

	start := time.Now()

	var (
		history []HistoryTurn
		err     error
	)
	// conversation_id wins over an inline history blob when both are
	// present: the stored, trimmed history is the more reliable source.
	if req.ConversationID != "" {
		history, err = c.History.Load(req.ConversationID)
		if err != nil {
			return nil, err
		}
		history = c.History.Trim(history, c.HistoryMaxTokens)
	} else if req.History != "" {
		history = c.History.Trim([]HistoryTurn{{Role: "user", Text: req.History}}, c.HistoryMaxTokens)
	}

	persona, hasPersona, err := c.Persona.Load(req.PersonaID)
	if err != nil {
		return nil, err
	}

	projections, err := projectChain(c.Stages, persona, hasPersona, history, req.UserInput, req.Settings)
	if err != nil {
		return nil, err
	}
	if _, err := enforceBudget(c.Pricing, projections, c.CostCap); err != nil {
		return nil, err
	}

	calls := make(map[Role]CallRecord, len(c.Stages))
	var (
		previousOutput string
		hasPrevious    bool
		finalOutput    string
	)

	for _, stage := range c.Stages {
		select {
		case <-ctx.Done():
			return nil, newClientErr("chain run canceled", ctx.Err())
		default:
		}

		messages := assemblePrompt(stage.Config, persona, hasPersona, history, req.UserInput, previousOutput, hasPrevious)
		output, record, err := executeStage(ctx, c.Pricing, stage, messages)
		if err != nil {
			return nil, err
		}

		calls[stage.Config.Role] = record
		previousOutput = output
		hasPrevious = true
		finalOutput = output

		c.Log.Debug().
			Str("role", string(stage.Config.Role)).
			Str("model", record.Model).
			Float64("cost_usd", record.CostUSD).
			Float64("latency_s", record.LatencyS).
			Msg("stage completed")
	}

	var totalCost, totalLatency float64
	for _, rec := range calls {
		totalCost += rec.CostUSD
		totalLatency += rec.LatencyS
	}

	if req.ConversationID != "" {
		turns := []HistoryTurn{
			{Role: "user", Text: req.UserInput},
			{Role: "assistant", Text: finalOutput},
		}
		if err := c.History.Append(req.ConversationID, turns...); err != nil {
			return nil, err
		}
	}

	response := &ChainResponse{
		Output:   finalOutput,
		LatencyS: time.Since(start).Seconds(),
		CostUSD:  totalCost,
		Calls:    calls,
	}

	c.writeCostLog(req, response, totalLatency)

	return response, nil
}

// writeCostLog appends the run's accounting line. A failure here is
// logged and swallowed: the chain already succeeded and the caller must
// still get their response.
func (c *Chain) writeCostLog(req ChainRequest, resp *ChainResponse, totalLatency float64) {
	var convID *string
	if req.ConversationID != "" {
		convID = &req.ConversationID
	}
	record := CostLogRecord{
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
		ConversationID: convID,
		TotalCostUSD:   resp.CostUSD,
		TotalLatencyS:  totalLatency,
		Calls:          resp.Calls,
	}
	if err := c.CostLog.Write(record); err != nil {
		c.Log.Warn().Err(err).Msg("failed to write cost log record")
	}
}
