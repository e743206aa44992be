package ops

import (
	"context"
	"testing"

	"github.com/hansvb/planboard/internal/db"
	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
	"github.com/hansvb/planboard/internal/remote"
)

func TestClassifyMessage_Feature(t *testing.T) {
	out, err := ClassifyMessage("We should build a new authentication integration module")
	if err != nil {
		t.Fatalf("ClassifyMessage failed: %v", err)
	}

	if out.Classification.Kind != plan.KindFeature {
		t.Fatalf("Kind = %q, want feature", out.Classification.Kind)
	}
	if out.Feature == nil {
		t.Fatal("Feature draft not built")
	}
	if out.Experiment != nil {
		t.Error("Experiment draft should be nil for a feature message")
	}
	if out.Feature.Type != plan.FeatureIntegration {
		t.Errorf("Type = %q, want Integration", out.Feature.Type)
	}
	// Dry run: nothing persisted, no id assigned
	if out.Feature.ID != "" {
		t.Errorf("ID = %q, want empty before intake", out.Feature.ID)
	}
}

func TestClassifyMessage_Empty(t *testing.T) {
	_, err := ClassifyMessage("   ")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank text should return ErrInvalidRequest, got: %v", err)
	}
}

func TestIntakeMessage_PersistsExperiment(t *testing.T) {
	database := newTestDB(t)

	out, err := IntakeMessage(context.Background(), database,
		"Test a holiday ad campaign targeting lapsed customers")
	if err != nil {
		t.Fatalf("IntakeMessage failed: %v", err)
	}

	if out.Experiment == nil {
		t.Fatal("Experiment draft not built")
	}
	if len(out.Experiment.ID) != 26 {
		t.Errorf("ID length = %d, want 26 (ULID)", len(out.Experiment.ID))
	}

	stored, err := db.GetExperiment(database, out.Experiment.ID)
	if err != nil {
		t.Fatalf("GetExperiment failed: %v", err)
	}
	if stored.Type != plan.ExperimentAdCampaign {
		t.Errorf("stored Type = %q, want Ad Campaign", stored.Type)
	}
	if stored.Status != plan.ExperimentStatusDraft {
		t.Errorf("stored Status = %q, want draft", stored.Status)
	}
}

func TestIntakeMessage_PersistsFeature(t *testing.T) {
	database := newTestDB(t)

	out, err := IntakeMessage(context.Background(), database,
		"Build a billing integration. It should sync invoices nightly.")
	if err != nil {
		t.Fatalf("IntakeMessage failed: %v", err)
	}

	if out.Feature == nil {
		t.Fatal("Feature draft not built")
	}

	stored, err := db.GetFeature(database, out.Feature.ID)
	if err != nil {
		t.Fatalf("GetFeature failed: %v", err)
	}
	if stored.Title != "Build a billing integration" {
		t.Errorf("Title = %q, want text before the first period", stored.Title)
	}
}

func TestReviewFeedback(t *testing.T) {
	src := &fakeRemote{snap: remote.Snapshot{
		Feedback: []remote.FeedbackNote{
			{ID: "1", Text: "We should build a faster export system"},
			{ID: "2", Text: ""},
			{ID: "3", Text: "Try a new landing page for the spring campaign"},
		},
	}}

	drafts, err := ReviewFeedback(context.Background(), src)
	if err != nil {
		t.Fatalf("ReviewFeedback failed: %v", err)
	}

	// The empty note is skipped
	if len(drafts) != 2 {
		t.Fatalf("len(drafts) = %d, want 2", len(drafts))
	}
	if drafts[0].Draft.Classification.Kind != plan.KindFeature {
		t.Errorf("first draft Kind = %q, want feature", drafts[0].Draft.Classification.Kind)
	}
	if drafts[1].Draft.Classification.Kind != plan.KindExperiment {
		t.Errorf("second draft Kind = %q, want experiment", drafts[1].Draft.Classification.Kind)
	}
}

func TestReviewFeedback_NoRemote(t *testing.T) {
	drafts, err := ReviewFeedback(context.Background(), nil)
	if err != nil {
		t.Fatalf("ReviewFeedback failed: %v", err)
	}
	if len(drafts) != 0 {
		t.Errorf("len(drafts) = %d, want 0 without a remote source", len(drafts))
	}
}
