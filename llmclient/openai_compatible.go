/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L2
Logic:       Adapter for any OpenAI-compatible chat completions API
             satisfying chain.Client. A base URL override covers
             Groq, Together, and Azure OpenAI deployments without a
             separate adapter per vendor — they all speak the same
             /chat/completions wire format.
Suitability: L2 model for well-documented OpenAI-compatible APIs.
──────────────────────────────────────────────────────────────
*/

package llmclient

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/matejviezan93/bridge-ai-chain/chain"
)

// OpenAICompatibleClient adapts the official OpenAI SDK to chain.Client,
// optionally pointed at a compatible third-party base URL.
type OpenAICompatibleClient struct {
	sdk   openaisdk.Client
	model string
}

// NewOpenAICompatible returns a chain.Client for OpenAI or any API that
// mirrors its chat completions wire format. Pass baseURL="" for OpenAI
// itself; pass an override for Groq, Together, or an Azure deployment.
func NewOpenAICompatible(apiKey, baseURL, model string) *OpenAICompatibleClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAICompatibleClient{
		sdk:   openaisdk.NewClient(opts...),
		model: model,
	}
}

func (c *OpenAICompatibleClient) Generate(ctx context.Context, messages []chain.Message, maxOutputTokens *int, temperature, topP float64) (*chain.LLMResponse, error) {
	converted := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			converted = append(converted, openaisdk.SystemMessage(m.Content))
		case "assistant":
			converted = append(converted, openaisdk.AssistantMessage(m.Content))
		default:
			converted = append(converted, openaisdk.UserMessage(m.Content))
		}
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(c.model),
		Messages:    converted,
		Temperature: openaisdk.Float(temperature),
		TopP:        openaisdk.Float(topP),
	}
	if maxOutputTokens != nil {
		params.MaxCompletionTokens = openaisdk.Int(int64(*maxOutputTokens))
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai-compatible: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai-compatible: no choices returned")
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}

	return &chain.LLMResponse{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		Metadata:     map[string]string{"model": model},
	}, nil
}
