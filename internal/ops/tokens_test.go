package ops

import (
	"context"
	"testing"
	"time"

	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
	"github.com/hansvb/planboard/internal/remote"

	"github.com/hansvb/planboard/internal/config"
)

func TestLogTokenSession(t *testing.T) {
	database := newTestDB(t)
	cfg := config.DefaultConfig()

	session, err := LogTokenSession(context.Background(), database, cfg, LogSessionInput{
		Date:         "2026-08-30",
		Model:        "claude-sonnet-4-5",
		InputTokens:  120000,
		OutputTokens: 45000,
		Tasks:        "checkout refactor",
	})
	if err != nil {
		t.Fatalf("LogTokenSession failed: %v", err)
	}

	if session.TotalTokens != 165000 {
		t.Errorf("TotalTokens = %d, want 165000", session.TotalTokens)
	}
	// 120 * 0.003 + 45 * 0.015
	if session.Cost != 1.035 {
		t.Errorf("Cost = %v, want 1.035", session.Cost)
	}
}

func TestLogTokenSession_DefaultsDateToToday(t *testing.T) {
	database := newTestDB(t)
	cfg := config.DefaultConfig()

	session, err := LogTokenSession(context.Background(), database, cfg, LogSessionInput{
		Model: "claude-sonnet-4-5", InputTokens: 100, OutputTokens: 50,
	})
	if err != nil {
		t.Fatalf("LogTokenSession failed: %v", err)
	}

	if session.Date != time.Now().Format("2006-01-02") {
		t.Errorf("Date = %q, want today", session.Date)
	}
}

func TestLogTokenSession_Validation(t *testing.T) {
	database := newTestDB(t)
	cfg := config.DefaultConfig()

	tests := []struct {
		name  string
		input LogSessionInput
	}{
		{"missing model", LogSessionInput{InputTokens: 1, OutputTokens: 1}},
		{"negative input", LogSessionInput{Model: "m", InputTokens: -1}},
		{"bad date", LogSessionInput{Model: "m", Date: "30/08/2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LogTokenSession(context.Background(), database, cfg, tt.input)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("LogTokenSession should return ErrInvalidRequest, got: %v", err)
			}
		})
	}
}

func TestListTokenSessions_TotalsOverMergedView(t *testing.T) {
	database := newTestDB(t)
	cfg := config.DefaultConfig()

	if _, err := LogTokenSession(context.Background(), database, cfg, LogSessionInput{
		Date: "2026-08-30", Model: "claude-sonnet-4-5",
		InputTokens: 1000, OutputTokens: 500,
	}); err != nil {
		t.Fatalf("LogTokenSession failed: %v", err)
	}

	src := &fakeRemote{snap: remote.Snapshot{
		Sessions: []plan.TokenSession{
			{ID: "remote-s1", Date: "2026-08-29", Model: "claude-sonnet-4-5",
				InputTokens: 2000, OutputTokens: 1000, TotalTokens: 3000, Cost: 0.021},
		},
	}}

	out, err := ListTokenSessions(context.Background(), database, src, ListQuery{Sort: "date"})
	if err != nil {
		t.Fatalf("ListTokenSessions failed: %v", err)
	}

	if len(out.Sessions) != 2 {
		t.Fatalf("len(Sessions) = %d, want 2", len(out.Sessions))
	}
	if out.Totals.InputTokens != 3000 || out.Totals.OutputTokens != 1500 {
		t.Errorf("Totals = %+v, want input 3000 output 1500", out.Totals)
	}
	if out.Totals.TotalTokens != 4500 {
		t.Errorf("TotalTokens = %d, want 4500", out.Totals.TotalTokens)
	}
	// Local day is newer, sorts first
	if out.Sessions[0].Date != "2026-08-30" {
		t.Errorf("first session date = %q, want 2026-08-30", out.Sessions[0].Date)
	}
}
