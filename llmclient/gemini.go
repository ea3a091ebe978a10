/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L2
Logic:       Gemini adapter satisfying chain.Client. A new genai
             client and model handle are created per call since the
             SDK client is cheap to construct and holds no
             connection state worth pooling across stages.
Suitability: L2 model for well-documented Gemini API.
──────────────────────────────────────────────────────────────
*/

package llmclient

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/matejviezan93/bridge-ai-chain/chain"
)

// GeminiClient adapts the official Gemini SDK to chain.Client.
type GeminiClient struct {
	apiKey string
	model  string
}

// NewGemini returns a chain.Client backed by the Gemini API.
func NewGemini(apiKey, model string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey, model: model}
}

func (c *GeminiClient) Generate(ctx context.Context, messages []chain.Message, maxOutputTokens *int, temperature, topP float64) (*chain.LLMResponse, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	defer client.Close()

	genModel := client.GenerativeModel(c.model)
	genModel.Temperature = genai.Ptr(float32(temperature))
	genModel.TopP = genai.Ptr(float32(topP))
	if maxOutputTokens != nil {
		genModel.MaxOutputTokens = genai.Ptr(int32(*maxOutputTokens))
	}

	system, rest := extractSystem(messages)
	if system != "" {
		genModel.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	var parts []genai.Part
	for _, m := range rest {
		if m.Content != "" {
			parts = append(parts, genai.Text(m.Content))
		}
	}

	resp, err := genModel.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	var text string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
	}

	inputTokens, outputTokens := 0, 0
	if resp.UsageMetadata != nil {
		inputTokens = int(resp.UsageMetadata.PromptTokenCount)
		outputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &chain.LLMResponse{
		Text:         text,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Metadata:     map[string]string{"model": c.model},
	}, nil
}
