package chain

import "testing"

func testStages() []Stage {
	return []Stage{
		{Config: StageConfig{Role: RoleAnalyzer, Model: "stub-a"}, Client: &stubClient{model: "stub-a"}},
		{Config: StageConfig{Role: RoleImitator, Model: "stub-a"}, Client: &stubClient{model: "stub-a"}},
		{Config: StageConfig{Role: RolePostEditor, Model: "stub-b"}, Client: &stubClient{model: "stub-b"}},
		{Config: StageConfig{Role: RoleMasker, Model: "stub-b"}, Client: &stubClient{model: "stub-b"}},
	}
}

func TestProjectedOutputTokensDefault(t *testing.T) {
	stage := StageConfig{Role: RoleAnalyzer}
	got := projectedOutputTokens(stage, nil)
	if got != defaultProjectedOutputTokens {
		t.Fatalf("expected default projected output tokens %d, got %d", defaultProjectedOutputTokens, got)
	}
}

func TestProjectedOutputTokensFromTargetWords(t *testing.T) {
	stage := StageConfig{Role: RoleAnalyzer}
	got := projectedOutputTokens(stage, map[string]interface{}{"target_words": 100.0})
	want := int(100 * wordsToTokenFactor)
	if got != want {
		t.Fatalf("expected %d tokens from target_words hint, got %d", want, got)
	}
}

func TestProjectedOutputTokensCappedByMaxOutputTokens(t *testing.T) {
	cap := 10
	stage := StageConfig{Role: RoleAnalyzer, MaxOutputTokens: &cap}
	got := projectedOutputTokens(stage, map[string]interface{}{"target_words": 1000.0})
	if got != 10 {
		t.Fatalf("expected projection capped at stage max_output_tokens=10, got %d", got)
	}
}

func TestEnforceBudgetWithinCapPasses(t *testing.T) {
	pricing := testPricing()
	stages := testStages()
	projections, err := projectChain(stages, "", false, nil, "short prompt", nil)
	if err != nil {
		t.Fatalf("projectChain failed: %v", err)
	}
	if _, err := enforceBudget(pricing, projections, 10.0); err != nil {
		t.Fatalf("expected budget to pass with a generous cap, got %v", err)
	}
}

func TestEnforceBudgetOverCapRejects(t *testing.T) {
	pricing := testPricing()
	stages := testStages()
	settings := map[string]interface{}{"target_words": 5000.0}
	projections, err := projectChain(stages, "", false, nil, "short prompt", settings)
	if err != nil {
		t.Fatalf("projectChain failed: %v", err)
	}
	_, err = enforceBudget(pricing, projections, 0.000001)
	if err == nil {
		t.Fatal("expected a tiny cap to reject the projected cost")
	}
	chainErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if chainErr.Kind != KindBudgetExceeded {
		t.Fatalf("expected budget_exceeded kind, got %s", chainErr.Kind)
	}
	if got := chainErr.Message; !containsSubstring(got, "exceeds budget") {
		t.Fatalf("expected budget error message to mention exceeding budget, got %q", got)
	}
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
