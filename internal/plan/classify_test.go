package plan

import (
	"strings"
	"testing"
)

func TestClassify_FeatureWithIntegrationCategory(t *testing.T) {
	c := Classify("We should build a new authentication integration module")

	if c.Kind != KindFeature {
		t.Fatalf("Kind = %q, want %q", c.Kind, KindFeature)
	}
	// "integrat" matches before the generic Core Feature default.
	if c.FeatureType != FeatureIntegration {
		t.Errorf("FeatureType = %q, want %q", c.FeatureType, FeatureIntegration)
	}
	if c.ExperimentType != "" {
		t.Errorf("ExperimentType should be empty for a feature, got %q", c.ExperimentType)
	}
	if c.Metrics.Confidence != 7 {
		t.Errorf("Confidence = %d, want the fixed feature prior 7", c.Metrics.Confidence)
	}
}

func TestClassify_TieFavorsExperiment(t *testing.T) {
	// No keywords on either side: 0 == 0 must classify as experiment.
	c := Classify("hello world")
	if c.Kind != KindExperiment {
		t.Errorf("Kind = %q, want %q on a keyword tie", c.Kind, KindExperiment)
	}
	if c.Metrics.Confidence != 6 {
		t.Errorf("Confidence = %d, want the fixed experiment prior 6", c.Metrics.Confidence)
	}
}

func TestClassify_ExperimentCategories(t *testing.T) {
	tests := []struct {
		text string
		want ExperimentType
	}{
		{"test a new landing page for the spring campaign", ExperimentLandingPage},
		{"try a different ad audience", ExperimentAdCampaign},
		{"test shorter hero copy", ExperimentMarketingCopy},
		{"test a lower intro price", ExperimentPriceTest},
		{"measure checkout funnel dropoff", ExperimentABTest},
	}

	for _, tt := range tests {
		c := Classify(tt.text)
		if c.Kind != KindExperiment {
			t.Errorf("Classify(%q).Kind = %q, want experiment", tt.text, c.Kind)
			continue
		}
		if c.ExperimentType != tt.want {
			t.Errorf("Classify(%q).ExperimentType = %q, want %q", tt.text, c.ExperimentType, tt.want)
		}
	}
}

func TestClassify_FeatureCategoryPriorityOrder(t *testing.T) {
	// "performance" outranks "secur" even when both appear.
	c := Classify("improve performance of the security module")
	if c.FeatureType != FeaturePerformance {
		t.Errorf("FeatureType = %q, want %q (priority order)", c.FeatureType, FeaturePerformance)
	}
}

func TestClassify_MetricsBounds(t *testing.T) {
	long := strings.Repeat("build and test everything thoroughly. ", 30)
	c := Classify(long)

	m := c.Metrics
	if m.Complexity < 1 || m.Complexity > 10 {
		t.Errorf("Complexity = %d, want within [1,10]", m.Complexity)
	}
	if m.Impact > 10 {
		t.Errorf("Impact = %d, want <= 10", m.Impact)
	}
	if m.Ease != max(1, 10-m.Complexity) {
		t.Errorf("Ease = %d, want max(1, 10-complexity) = %d", m.Ease, max(1, 10-m.Complexity))
	}

	// Short text bottoms out at complexity 1.
	if got := Classify("fix it").Metrics.Complexity; got != 1 {
		t.Errorf("short text Complexity = %d, want 1", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	text := "build a price test for the new landing page"
	first := Classify(text)
	for range 5 {
		if got := Classify(text); got != first {
			t.Fatalf("Classify is not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestDraftFeature(t *testing.T) {
	text := "Build a billing integration. It should sync invoices nightly."
	f, err := DraftFeature(text)
	if err != nil {
		t.Fatalf("DraftFeature failed: %v", err)
	}
	if f == nil {
		t.Fatal("DraftFeature returned nil for a feature-classified note")
	}

	if f.Title != "Build a billing integration" {
		t.Errorf("Title = %q, want text up to the first period", f.Title)
	}
	if f.Description != text {
		t.Errorf("Description = %q, want the full text", f.Description)
	}
	if f.Type != FeatureIntegration {
		t.Errorf("Type = %q, want %q", f.Type, FeatureIntegration)
	}
	if f.Status != FeatureStatusNew || f.Progress != 0 {
		t.Errorf("new draft should start new/0%%, got %s/%d", f.Status, f.Progress)
	}

	wantCost, _ := FeatureTokenCost(f.Type, f.Complexity)
	if f.TokenCost != wantCost {
		t.Errorf("TokenCost = %d, want %d", f.TokenCost, wantCost)
	}
	wantPriority := FeaturePriority(f.ICE.Total, f.Complexity, 0)
	if f.Priority != wantPriority {
		t.Errorf("Priority = %v, want %v", f.Priority, wantPriority)
	}
}

func TestDraftFeature_WrongKindReturnsNil(t *testing.T) {
	f, err := DraftFeature("test a cheaper intro price on the landing page")
	if err != nil {
		t.Fatalf("DraftFeature failed: %v", err)
	}
	if f != nil {
		t.Errorf("DraftFeature should return nil for an experiment note, got %+v", f)
	}
}

func TestDraftExperiment(t *testing.T) {
	text := "Test a holiday ad campaign targeting lapsed customers"
	e, err := DraftExperiment(text)
	if err != nil {
		t.Fatalf("DraftExperiment failed: %v", err)
	}
	if e == nil {
		t.Fatal("DraftExperiment returned nil for an experiment-classified note")
	}

	if e.Hypothesis != text {
		t.Errorf("Hypothesis = %q, want the full text", e.Hypothesis)
	}
	if e.Status != ExperimentStatusDraft {
		t.Errorf("Status = %q, want draft", e.Status)
	}
	if e.DurationDays != DefaultExperimentDuration {
		t.Errorf("DurationDays = %d, want %d", e.DurationDays, DefaultExperimentDuration)
	}

	// Default one-week duration means the base table cost applies as-is.
	wantCost, _ := ExperimentTokenCost(e.Type, DefaultExperimentDuration)
	if e.TokenCost != wantCost {
		t.Errorf("TokenCost = %d, want %d", e.TokenCost, wantCost)
	}
}

func TestDraftTitle_Fallbacks(t *testing.T) {
	long := strings.Repeat("x", 80)
	if got := draftTitle(long); len([]rune(got)) != 50 {
		t.Errorf("long title len = %d, want 50", len([]rune(got)))
	}

	// Leading period: the segment before it is empty, fall back to 50 chars.
	if got := draftTitle(".starts with a period"); got != ".starts with a period" {
		t.Errorf("draftTitle(leading period) = %q, want the full short text", got)
	}

	if got := draftTitle("short note"); got != "short note" {
		t.Errorf("draftTitle(short) = %q, want unchanged", got)
	}
}
