package chain

import (
	"context"
	"fmt"
)

// stubClient is a deterministic, in-memory Client used across tests. It
// never makes a network call; it returns a canned response sized by
// token counts supplied at construction, optionally failing outright.
type stubClient struct {
	model        string
	inputTokens  int
	outputTokens int
	text         string
	err          error
	calls        int
	lastMessages []Message
}

func (s *stubClient) Generate(ctx context.Context, messages []Message, maxOutputTokens *int, temperature, topP float64) (*LLMResponse, error) {
	s.calls++
	s.lastMessages = messages
	if s.err != nil {
		return nil, s.err
	}
	text := s.text
	if text == "" {
		text = fmt.Sprintf("%s-output", s.model)
	}
	return &LLMResponse{
		Text:         text,
		InputTokens:  s.inputTokens,
		OutputTokens: s.outputTokens,
		Metadata:     map[string]string{"model": s.model},
	}, nil
}

func newTestStages(clients map[Role]*stubClient) []Stage {
	order := []Role{RoleAnalyzer, RoleImitator, RolePostEditor, RoleMasker}
	stages := make([]Stage, 0, len(order))
	for _, role := range order {
		c, ok := clients[role]
		if !ok {
			continue
		}
		stages = append(stages, Stage{
			Config: StageConfig{Role: role, Name: string(role), Model: c.model, Temperature: 0.7, TopP: 1.0},
			Client: c,
		})
	}
	return stages
}

func testPricing() *PricingTable {
	pt := DefaultPricing()
	pt.Set("stub-a", ModelPricing{InputUSDPerMTok: 1.0, OutputUSDPerMTok: 2.0})
	pt.Set("stub-b", ModelPricing{InputUSDPerMTok: 0.5, OutputUSDPerMTok: 1.0})
	return pt
}
