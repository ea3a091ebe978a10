/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L3
Logic:       Pre-flight cost projection and budget enforcement. Runs
             the exact same prompt assembler the stage executor uses,
             substituting a sized placeholder for any stage output
             that doesn't exist yet, so the projection reflects the
             real prompt shape rather than a rough guess.
Root Cause:  C6 — the request-level budget guard. Rejecting over-
             budget requests before any model call is made is the
             whole point: a real call already spent the money a
             post-hoc check would merely report.
Context:     Projected output tokens per stage are capped by the
             stage's configured max_output_tokens, or a fixed default
             when the stage has none, and sized up from
             settings.target_words when the caller hints at a longer
             reply.
Suitability: L3 — the money-safety component; correctness matters.
──────────────────────────────────────────────────────────────
*/

package chain

import (
	"fmt"
	"math"
	"strings"
)

// defaultMaxOutputTokens is the output cap used for projection when a
// stage has no configured max_output_tokens. It is not passed to
// Client.Generate, which receives the stage's own (possibly nil) value.
const defaultMaxOutputTokens = 4096

// defaultProjectedOutputTokens is the output token estimate used when
// the caller gives no target_words hint, chosen as a representative
// reply length rather than the (much larger) hard cap.
const defaultProjectedOutputTokens = 1024

// wordsToTokenFactor approximates how many estimator tokens a word of
// English prose costs once rendered through the crude char/4 estimator.
const wordsToTokenFactor = 1.6

type stageProjection struct {
	role         Role
	model        string
	inputTokens  int
	outputTokens int
}

// projectedOutputTokens returns how many output tokens a stage is
// expected to produce, for pricing purposes only.
func projectedOutputTokens(stage StageConfig, settings map[string]interface{}) int {
	estimate := defaultProjectedOutputTokens
	if tw, ok := settings["target_words"]; ok {
		if words, ok := toFloat(tw); ok && words > 0 {
			estimate = int(math.Ceil(words * wordsToTokenFactor))
		}
	}
	cap := defaultMaxOutputTokens
	if stage.MaxOutputTokens != nil {
		cap = *stage.MaxOutputTokens
	}
	if estimate > cap {
		estimate = cap
	}
	return estimate
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// projectChain prices the whole pipeline before any stage executes.
// Stage 0 is assembled against the real user input and history; every
// later stage is assembled against a placeholder "previous output" of
// the right estimated length, since the real text doesn't exist yet.
func projectChain(stages []Stage, persona string, hasPersona bool, history []HistoryTurn, userInput string, settings map[string]interface{}) ([]stageProjection, error) {
	projections := make([]stageProjection, 0, len(stages))

	var prevOutputTokens int
	hasPrevious := false

	for _, stage := range stages {
		var placeholder string
		if hasPrevious {
			placeholder = strings.Repeat("x", prevOutputTokens*4)
		}
		messages := assemblePrompt(stage.Config, persona, hasPersona, history, userInput, placeholder, hasPrevious)
		inputTokens := estimateMessagesTokens(messages)
		outputTokens := projectedOutputTokens(stage.Config, settings)

		projections = append(projections, stageProjection{
			role:         stage.Config.Role,
			model:        stage.Config.Model,
			inputTokens:  inputTokens,
			outputTokens: outputTokens,
		})

		prevOutputTokens = outputTokens
		hasPrevious = true
	}

	return projections, nil
}

// enforceBudget prices the projections against the pricing table and
// rejects the request outright if the projected total exceeds capUSD.
func enforceBudget(pricing *PricingTable, projections []stageProjection, capUSD float64) (float64, error) {
	var total float64
	for _, p := range projections {
		cost, err := pricing.Cost(p.model, p.inputTokens, p.outputTokens)
		if err != nil {
			return 0, err
		}
		total += cost
	}
	total = math.Round(total*1e8) / 1e8
	if total > capUSD {
		return total, newBudgetErr(fmt.Sprintf("projected cost %.6f USD exceeds budget cap %.6f USD", total, capUSD))
	}
	return total, nil
}
