package chain

import "testing"

func TestAssemblePromptFirstStageNoPersonaNoHistory(t *testing.T) {
	stage := StageConfig{Role: RoleAnalyzer, Model: "stub-a"}
	messages := assemblePrompt(stage, "", false, nil, "hello there", "", false)

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages (role instruction + user input), got %d: %+v", len(messages), messages)
	}
	if messages[0].Role != "system" {
		t.Fatalf("expected first message to be system role instruction, got %q", messages[0].Role)
	}
	if messages[1].Role != "user" || messages[1].Content != "hello there" {
		t.Fatalf("expected user input last, got %+v", messages[1])
	}
}

func TestAssemblePromptIncludesPersonaAndHistory(t *testing.T) {
	stage := StageConfig{Role: RoleImitator, Model: "stub-a"}
	history := []HistoryTurn{
		{Role: "user", Text: "earlier question"},
		{Role: "assistant", Text: "earlier answer"},
	}
	messages := assemblePrompt(stage, "You are helpful.", true, history, "new question", "", false)

	if messages[0].Role != "system" || messages[0].Content != "You are helpful." {
		t.Fatalf("expected persona first, got %+v", messages[0])
	}
	if messages[1].Role != "system" {
		t.Fatalf("expected role instruction second, got %+v", messages[1])
	}
	if messages[2].Content != "earlier question" || messages[3].Content != "earlier answer" {
		t.Fatalf("expected history turns in order, got %+v", messages[2:4])
	}
	last := messages[len(messages)-1]
	if last.Role != "user" || last.Content != "new question" {
		t.Fatalf("expected user input last, got %+v", last)
	}
}

func TestAssemblePromptDownstreamStageIncludesPrevious(t *testing.T) {
	stage := StageConfig{Role: RolePostEditor, Model: "stub-b"}
	messages := assemblePrompt(stage, "", false, nil, "draft this", "previous draft text", true)

	var sawPrevious bool
	for _, m := range messages {
		if m.Role == "assistant" && m.Content == "previous draft text" {
			sawPrevious = true
		}
	}
	if !sawPrevious {
		t.Fatalf("expected previous stage output to be present, got %+v", messages)
	}
	last := messages[len(messages)-1]
	if last.Role != "user" {
		t.Fatalf("expected a trailing handoff directive as user message, got %+v", last)
	}
}
