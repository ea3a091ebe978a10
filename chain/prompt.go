/*
[AI GENERATED - GOVERNANCE PROTOCOL]
──────────────────────────────────────────────────────────────
Model:       Claude Opus 4.6
Tier:        L2
Logic:       Pure prompt assembly — turns persona text, conversation
             history, the user's input, and (for downstream stages)
             the previous stage's output into the ordered message
             list a Client.Generate call expects. No I/O, no network.
Root Cause:  C5 — shared by both the real stage executor and the
             pre-flight cost projector, so both price and run the
             exact same prompt shape.
Suitability: L2 — pure function, string assembly.
──────────────────────────────────────────────────────────────
*/

package chain

import "fmt"

// roleInstructions are the fixed system-level task descriptions per
// pipeline role. They are static; only the stage's position in the
// pipeline (first vs. downstream) changes what else goes in the prompt.
var roleInstructions = map[Role]string{
	RoleAnalyzer:   "You are the analyzer stage. Read the conversation and the user's input and produce a structured analysis of intent, tone, and constraints for the next stage to act on.",
	RoleImitator:   "You are the imitator stage. Using the analysis and persona provided, draft a response that matches the requested voice and style.",
	RolePostEditor: "You are the post-editor stage. Refine the draft for clarity, correctness, and consistency without changing its meaning.",
	RoleMasker:     "You are the masker stage. Produce the final output, removing any artifacts of the pipeline (stage labels, meta-commentary) so only the intended reply remains.",
}

// assemblePrompt builds the ordered message list for one stage.
//
// Order: persona system message (if any) -> role instruction system
// message -> history turns -> user input -> for stages after the first,
// the previous stage's output plus a handoff directive.
func assemblePrompt(stage StageConfig, persona string, hasPersona bool, history []HistoryTurn, userInput string, previousOutput string, hasPrevious bool) []Message {
	var messages []Message

	if hasPersona && persona != "" {
		messages = append(messages, Message{Role: "system", Content: persona})
	}
	messages = append(messages, Message{Role: "system", Content: roleInstructions[stage.Role]})

	for _, turn := range history {
		role := turn.Role
		if role != "user" && role != "assistant" {
			role = "user"
		}
		messages = append(messages, Message{Role: role, Content: turn.Text})
	}

	messages = append(messages, Message{Role: "user", Content: userInput})

	if hasPrevious {
		messages = append(messages, Message{Role: "assistant", Content: previousOutput})
		messages = append(messages, Message{
			Role:    "user",
			Content: fmt.Sprintf("Continue from the %s stage's output above.", stage.Role),
		})
	}

	return messages
}
