package ops

import (
	"context"
	"testing"

	"github.com/hansvb/planboard/internal/config"
	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
	"github.com/hansvb/planboard/internal/remote"
)

func TestAddIdea_HappyPath(t *testing.T) {
	database := newTestDB(t)

	idea, err := AddIdea(context.Background(), database, AddIdeaInput{
		Title:       "Bundle discounts",
		Description: "Offer a bundle discount on repeat orders",
		Category:    plan.IdeaNewStrategy,
		Impact:      8,
		Confidence:  6,
		Ease:        7,
	})
	if err != nil {
		t.Fatalf("AddIdea failed: %v", err)
	}

	if len(idea.ID) != 26 {
		t.Errorf("ID length = %d, want 26 (ULID)", len(idea.ID))
	}
	if idea.ICE.Total != 7.0 {
		t.Errorf("ICE.Total = %v, want 7.0", idea.ICE.Total)
	}
	// New Strategy base 4000 scaled by 21/30
	if idea.TokenCost != 2800 {
		t.Errorf("TokenCost = %d, want 2800", idea.TokenCost)
	}
	if idea.Status != plan.IdeaStatusNew {
		t.Errorf("Status = %q, want new", idea.Status)
	}
	if idea.Source != plan.SourceManual {
		t.Errorf("Source = %q, want manual", idea.Source)
	}
	if idea.CreatedAt == 0 {
		t.Error("CreatedAt not set")
	}
}

func TestAddIdea_Validation(t *testing.T) {
	database := newTestDB(t)

	tests := []struct {
		name  string
		input AddIdeaInput
	}{
		{"missing title", AddIdeaInput{Category: plan.IdeaNewStrategy, Impact: 5, Confidence: 5, Ease: 5}},
		{"unknown category", AddIdeaInput{Title: "t", Category: "Mystery", Impact: 5, Confidence: 5, Ease: 5}},
		{"impact too low", AddIdeaInput{Title: "t", Category: plan.IdeaNewStrategy, Impact: 0, Confidence: 5, Ease: 5}},
		{"ease too high", AddIdeaInput{Title: "t", Category: plan.IdeaNewStrategy, Impact: 5, Confidence: 5, Ease: 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddIdea(context.Background(), database, tt.input)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("AddIdea should return ErrInvalidRequest, got: %v", err)
			}
		})
	}
}

func TestListIdeas_MergesRemote(t *testing.T) {
	database := newTestDB(t)
	cfg := config.DefaultConfig()

	local, err := AddIdea(context.Background(), database, AddIdeaInput{
		Title: "Local idea", Category: plan.IdeaUserExperience,
		Impact: 5, Confidence: 5, Ease: 5,
	})
	if err != nil {
		t.Fatalf("AddIdea failed: %v", err)
	}

	src := &fakeRemote{snap: remote.Snapshot{
		Ideas: []plan.Idea{
			{ID: "remote-1", Title: "Remote idea", Category: plan.IdeaGrowthInitiative,
				ICE: plan.ICEScore{Impact: 9, Confidence: 8, Ease: 7, Total: 8.0},
				TokenCost: 2800, Status: plan.IdeaStatusNew, CreatedAt: 2000},
			// Collides with the local idea: remote wins
			{ID: local.ID, Title: "Remote copy of local", Category: plan.IdeaUserExperience,
				Status: plan.IdeaStatusCompleted, CreatedAt: 3000},
		},
	}}

	out, err := ListIdeas(context.Background(), database, cfg, src, ListQuery{})
	if err != nil {
		t.Fatalf("ListIdeas failed: %v", err)
	}

	if len(out.Ideas) != 2 {
		t.Fatalf("len(Ideas) = %d, want 2 (no duplicates)", len(out.Ideas))
	}
	for _, idea := range out.Ideas {
		if idea.ID == local.ID && idea.Title != "Remote copy of local" {
			t.Errorf("local version survived an id collision with remote")
		}
		want := plan.SourceRemote
		if idea.ID != local.ID && idea.ID != "remote-1" {
			want = plan.SourceManual
		}
		if idea.Source != want {
			t.Errorf("idea %s Source = %q, want %q", idea.ID, idea.Source, want)
		}
	}
	if out.Summary.Count != 2 {
		t.Errorf("Summary.Count = %d, want 2", out.Summary.Count)
	}
}

func TestListIdeas_FilterAndSort(t *testing.T) {
	database := newTestDB(t)
	cfg := config.DefaultConfig()

	for _, in := range []AddIdeaInput{
		{Title: "Low", Category: plan.IdeaNewAdCreative, Impact: 2, Confidence: 2, Ease: 2},
		{Title: "High", Category: plan.IdeaNewAdCreative, Impact: 9, Confidence: 9, Ease: 9},
		{Title: "Other category", Category: plan.IdeaNewStrategy, Impact: 5, Confidence: 5, Ease: 5},
	} {
		if _, err := AddIdea(context.Background(), database, in); err != nil {
			t.Fatalf("AddIdea failed: %v", err)
		}
	}

	out, err := ListIdeas(context.Background(), database, cfg, nil, ListQuery{
		Sort:     "score",
		Category: string(plan.IdeaNewAdCreative),
	})
	if err != nil {
		t.Fatalf("ListIdeas failed: %v", err)
	}

	if len(out.Ideas) != 2 {
		t.Fatalf("len(Ideas) = %d, want 2 after category filter", len(out.Ideas))
	}
	if out.Ideas[0].Title != "High" {
		t.Errorf("first idea = %q, want High (score descending)", out.Ideas[0].Title)
	}
}

func TestGetIdea(t *testing.T) {
	database := newTestDB(t)

	local, err := AddIdea(context.Background(), database, AddIdeaInput{
		Title: "Local idea", Category: plan.IdeaUserExperience,
		Impact: 5, Confidence: 5, Ease: 5,
	})
	if err != nil {
		t.Fatalf("AddIdea failed: %v", err)
	}

	src := &fakeRemote{snap: remote.Snapshot{
		Ideas: []plan.Idea{
			{ID: "remote-1", Title: "Remote idea"},
			// Collides with the local idea: remote wins, as in lists
			{ID: local.ID, Title: "Remote copy of local"},
		},
	}}

	got, err := GetIdea(context.Background(), database, src, "remote-1")
	if err != nil {
		t.Fatalf("GetIdea(remote-1) failed: %v", err)
	}
	if got.Source != plan.SourceRemote {
		t.Errorf("Source = %q, want remote", got.Source)
	}

	got, err = GetIdea(context.Background(), database, src, local.ID)
	if err != nil {
		t.Fatalf("GetIdea(local.ID) failed: %v", err)
	}
	if got.Title != "Remote copy of local" {
		t.Errorf("Title = %q, want the remote version on id collision", got.Title)
	}

	got, err = GetIdea(context.Background(), database, nil, local.ID)
	if err != nil {
		t.Fatalf("GetIdea without a remote source failed: %v", err)
	}
	if got.Title != "Local idea" {
		t.Errorf("Title = %q, want Local idea", got.Title)
	}

	_, err = GetIdea(context.Background(), database, src, "nowhere")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown id should return ErrNotFound, got: %v", err)
	}
}

func TestSetIdeaStatus(t *testing.T) {
	database := newTestDB(t)

	idea, err := AddIdea(context.Background(), database, AddIdeaInput{
		Title: "t", Category: plan.IdeaFeatureImprovement,
		Impact: 5, Confidence: 5, Ease: 5,
	})
	if err != nil {
		t.Fatalf("AddIdea failed: %v", err)
	}

	updated, err := SetIdeaStatus(context.Background(), database, nil, idea.ID, plan.IdeaStatusInProgress)
	if err != nil {
		t.Fatalf("SetIdeaStatus failed: %v", err)
	}
	if updated.Status != plan.IdeaStatusInProgress {
		t.Errorf("Status = %q, want in-progress", updated.Status)
	}

	_, err = SetIdeaStatus(context.Background(), database, nil, idea.ID, "bogus")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("bogus status should return ErrInvalidRequest, got: %v", err)
	}
}

func TestDeleteIdea_RemoteIsReadOnly(t *testing.T) {
	database := newTestDB(t)

	src := &fakeRemote{snap: remote.Snapshot{
		Ideas: []plan.Idea{{ID: "remote-1", Title: "Remote idea"}},
	}}

	err := DeleteIdea(context.Background(), database, src, "remote-1")
	if !errors.Is(err, errors.ErrReadOnly) {
		t.Errorf("deleting a remote id should return ErrReadOnly, got: %v", err)
	}

	// An id in neither store is a plain not-found
	err = DeleteIdea(context.Background(), database, src, "nowhere")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown id should return ErrNotFound, got: %v", err)
	}
}

func TestPromoteIdea(t *testing.T) {
	database := newTestDB(t)

	idea, err := AddIdea(context.Background(), database, AddIdeaInput{
		Title: "t", Category: plan.IdeaMarketingCampaign,
		Impact: 5, Confidence: 5, Ease: 5,
	})
	if err != nil {
		t.Fatalf("AddIdea failed: %v", err)
	}

	promoted, err := PromoteIdea(context.Background(), database, nil, idea.ID, true)
	if err != nil {
		t.Fatalf("PromoteIdea failed: %v", err)
	}
	if !promoted.Promoted {
		t.Error("Promoted = false, want true")
	}

	demoted, err := PromoteIdea(context.Background(), database, nil, idea.ID, false)
	if err != nil {
		t.Fatalf("PromoteIdea (unpromote) failed: %v", err)
	}
	if demoted.Promoted {
		t.Error("Promoted = true, want false after unpromote")
	}
}
