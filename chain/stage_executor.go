package chain

import (
	"context"
	"fmt"
	"time"
)

// executeStage runs a single stage's Client.Generate call, measures wall
// latency, and prices the call against the pricing table using the
// model the client actually reports (not the model the stage was
// configured with, in case the client substituted one). No retry: a
// client error is surfaced immediately as client_failure.
func executeStage(ctx context.Context, pricing *PricingTable, stage Stage, messages []Message) (string, CallRecord, error) {
	start := time.Now()
	resp, err := stage.Client.Generate(ctx, messages, stage.Config.MaxOutputTokens, stage.Config.Temperature, stage.Config.TopP)
	latency := time.Since(start).Seconds()
	if err != nil {
		return "", CallRecord{}, newClientErr(fmt.Sprintf("%s stage call failed", stage.Config.Role), err)
	}

	model := resp.Metadata["model"]
	if model == "" {
		model = stage.Config.Model
	}
	cost, err := pricing.Cost(model, resp.InputTokens, resp.OutputTokens)
	if err != nil {
		return "", CallRecord{}, err
	}

	record := CallRecord{
		Model:        model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		CostUSD:      cost,
		LatencyS:     latency,
	}
	return resp.Text, record, nil
}
