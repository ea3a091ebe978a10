package chain

import "math"

// EstimateTokens is the crude char/4 estimator used for pre-flight cost
// projection and history trimming. It is deliberately not a real
// tokenizer — the chain never couples to a vendor's tokenization scheme.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(math.Max(1, math.Ceil(float64(len(text))/4.0)))
}

// estimateMessagesTokens sums the crude estimate across an ordered
// message list, counting only content (role labels are not billed).
func estimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateTokens(m.Content)
	}
	return total
}
