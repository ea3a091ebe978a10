/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L2
Logic:       Anthropic adapter satisfying chain.Client. Extracts
             system messages into Anthropic's separate system
             parameter, since Anthropic does not accept a system
             role inside the messages array.
Suitability: L2 model for well-documented Anthropic API.
──────────────────────────────────────────────────────────────
*/

package llmclient

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/matejviezan93/bridge-ai-chain/chain"
)

// AnthropicClient adapts the official Anthropic SDK to chain.Client.
type AnthropicClient struct {
	sdk   anthropicsdk.Client
	model string
}

// NewAnthropic returns a chain.Client backed by the Anthropic Messages API.
func NewAnthropic(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		sdk:   anthropicsdk.NewClient(option.WithAPIKey(apiKey)),
		model: model,
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, messages []chain.Message, maxOutputTokens *int, temperature, topP float64) (*chain.LLMResponse, error) {
	system, rest := extractSystem(messages)

	converted := make([]anthropicsdk.MessageParam, 0, len(rest))
	for _, m := range rest {
		switch m.Role {
		case "assistant":
			converted = append(converted, anthropicsdk.NewAssistantMessage(anthropicsdk.NewTextBlock(m.Content)))
		default:
			converted = append(converted, anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(m.Content)))
		}
	}

	maxTokens := int64(4096)
	if maxOutputTokens != nil {
		maxTokens = int64(*maxOutputTokens)
	}

	params := anthropicsdk.MessageNewParams{
		Model:       anthropicsdk.Model(c.model),
		Messages:    converted,
		MaxTokens:   maxTokens,
		Temperature: anthropicsdk.Float(temperature),
		TopP:        anthropicsdk.Float(topP),
	}
	if system != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: system}}
	}

	resp, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropicsdk.TextBlock); ok {
			if text != "" {
				text += "\n"
			}
			text += tb.Text
		}
	}

	return &chain.LLMResponse{
		Text:         text,
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
		Metadata:     map[string]string{"model": string(resp.Model)},
	}, nil
}

func extractSystem(messages []chain.Message) (string, []chain.Message) {
	var system string
	rest := make([]chain.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == "system" {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
