package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hansvb/planboard/internal/plan"
)

func TestFetchIdeas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ideas.json" {
			http.NotFound(w, r)
			return
		}
		// Cache-busting timestamp must be on every request
		if r.URL.Query().Get("t") == "" {
			t.Error("missing cache-busting t parameter")
		}
		w.Write([]byte(`{"ideas": [
			{"id": 1755859200000, "title": "Bundle discounts", "description": "d",
			 "category": "New Strategy", "impact": 8, "confidence": 6, "ease": 7,
			 "tokenCost": 2800, "status": "new", "createdAt": 1755859200000},
			{"id": "remote-2", "text": "Try a referral push", "tag": "Growth Initiative",
			 "date": "2026-08-20T09:30:00Z"}
		]}`))
	}))
	defer srv.Close()

	ideas := NewClient(srv.URL).FetchIdeas(context.Background())
	if len(ideas) != 2 {
		t.Fatalf("len(ideas) = %d, want 2", len(ideas))
	}

	// Numeric writer ids are normalized to strings
	if ideas[0].ID != "1755859200000" {
		t.Errorf("ID = %q, want 1755859200000", ideas[0].ID)
	}
	if ideas[0].Source != plan.SourceRemote {
		t.Errorf("Source = %q, want remote", ideas[0].Source)
	}
	if ideas[0].ICE.Total != 7.0 {
		t.Errorf("ICE.Total = %v, want 7.0", ideas[0].ICE.Total)
	}
	// Millisecond epochs become Unix seconds
	if ideas[0].CreatedAt != 1755859200 {
		t.Errorf("CreatedAt = %d, want 1755859200", ideas[0].CreatedAt)
	}

	// Older writer rows use text/tag/date
	if ideas[1].Title != "Try a referral push" {
		t.Errorf("Title = %q, want text fallback", ideas[1].Title)
	}
	if ideas[1].Category != plan.IdeaGrowthInitiative {
		t.Errorf("Category = %q, want tag fallback", ideas[1].Category)
	}
	if ideas[1].Status != plan.IdeaStatusNew {
		t.Errorf("Status = %q, want default new", ideas[1].Status)
	}
	if ideas[1].CreatedAt == 0 {
		t.Error("CreatedAt not parsed from RFC 3339 date")
	}
}

func TestFetchIdeas_NetworkError(t *testing.T) {
	// Point at a server that is already closed
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	ideas := NewClient(srv.URL).FetchIdeas(context.Background())
	if len(ideas) != 0 {
		t.Errorf("len(ideas) = %d, want 0 on network error", len(ideas))
	}
}

func TestFetchIdeas_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ideas": [not json`))
	}))
	defer srv.Close()

	ideas := NewClient(srv.URL).FetchIdeas(context.Background())
	if len(ideas) != 0 {
		t.Errorf("len(ideas) = %d, want 0 on parse error", len(ideas))
	}
}

func TestFetchIdeas_NoBaseURL(t *testing.T) {
	ideas := NewClient("").FetchIdeas(context.Background())
	if len(ideas) != 0 {
		t.Errorf("len(ideas) = %d, want 0 without a base URL", len(ideas))
	}
}

func TestFetchExperiments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/experiments.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"experiments": [
			{"id": 42, "title": "Holiday ads", "hypothesis": "h", "type": "Ad Campaign",
			 "impact": 8, "confidence": 6, "ease": 7, "status": "running",
			 "durationDays": 7, "results": {"lift": "12.5"}, "sampleSize": 800}
		]}`))
	}))
	defer srv.Close()

	experiments := NewClient(srv.URL).FetchExperiments(context.Background())
	if len(experiments) != 1 {
		t.Fatalf("len(experiments) = %d, want 1", len(experiments))
	}

	e := experiments[0]
	if e.ID != "42" {
		t.Errorf("ID = %q, want 42", e.ID)
	}
	if e.Results == nil || e.Results.Lift != 12.5 {
		t.Errorf("Results = %+v, want lift 12.5 (string on the wire)", e.Results)
	}
	if e.SampleSize == nil || *e.SampleSize != 800 {
		t.Errorf("SampleSize = %v, want 800", e.SampleSize)
	}
	if e.Source != plan.SourceRemote {
		t.Errorf("Source = %q, want remote", e.Source)
	}
}

func TestFetchTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokens.json" {
			http.NotFound(w, r)
			return
		}
		// The writer renders cost via toFixed, so it arrives as a string,
		// and omits totalTokens
		w.Write([]byte(`{"sessions": [
			{"id": 7, "date": "2026-08-30", "model": "claude-sonnet-4-5",
			 "inputTokens": 120000, "outputTokens": 45000, "cost": "1.0350",
			 "tasks": "checkout refactor"}
		]}`))
	}))
	defer srv.Close()

	sessions := NewClient(srv.URL).FetchTokens(context.Background())
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}

	s := sessions[0]
	if s.Cost != 1.035 {
		t.Errorf("Cost = %v, want 1.035", s.Cost)
	}
	if s.TotalTokens != 165000 {
		t.Errorf("TotalTokens = %d, want computed 165000", s.TotalTokens)
	}
}

func TestFetchMarketing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/marketing.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"dailyLog": [{"date": "2026-08-29", "spend": 250, "revenue": "1100.00",
			              "orders": 34, "sessions": 2100, "ctr": 1.8, "cpa": 7.35}],
			"summary": {"roas": 4.4},
			"notes": "## Strong week"
		}`))
	}))
	defer srv.Close()

	m := NewClient(srv.URL).FetchMarketing(context.Background())
	if len(m.DailyLog) != 1 {
		t.Fatalf("len(DailyLog) = %d, want 1", len(m.DailyLog))
	}
	if m.DailyLog[0].Revenue != 1100.0 {
		t.Errorf("Revenue = %v, want 1100.0", m.DailyLog[0].Revenue)
	}
	// Rows without ids are keyed by date
	if m.DailyLog[0].ID != "2026-08-29" {
		t.Errorf("ID = %q, want date fallback", m.DailyLog[0].ID)
	}
	if m.Notes != "## Strong week" {
		t.Errorf("Notes = %q", m.Notes)
	}
}

func TestFetchMarketing_FailureDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewClient(srv.URL).FetchMarketing(context.Background())
	if len(m.DailyLog) != 0 || m.Notes != "" {
		t.Errorf("marketing = %+v, want empty defaults on failure", m)
	}
}

func TestFetchFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feedback.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"feedback": [
			{"id": 1, "text": "We should build a faster export", "date": 1755859200000}
		]}`))
	}))
	defer srv.Close()

	notes := NewClient(srv.URL).FetchFeedback(context.Background())
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d, want 1", len(notes))
	}
	if notes[0].ID != "1" || notes[0].Text == "" {
		t.Errorf("note = %+v", notes[0])
	}
	if notes[0].CreatedAt != 1755859200 {
		t.Errorf("CreatedAt = %d, want 1755859200", notes[0].CreatedAt)
	}
}

func TestPoller_RefreshNow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ideas.json":
			w.Write([]byte(`{"ideas": [{"id": 1, "title": "t", "date": "2026-08-20"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL), time.Minute)

	// Before any refresh the snapshot is empty
	if snap := p.Snapshot(); len(snap.Ideas) != 0 {
		t.Fatalf("initial snapshot has %d ideas, want 0", len(snap.Ideas))
	}

	snap := p.RefreshNow(context.Background())
	if len(snap.Ideas) != 1 {
		t.Fatalf("len(Ideas) = %d, want 1 after refresh", len(snap.Ideas))
	}
	if snap.FetchedAt == 0 {
		t.Error("FetchedAt not set")
	}

	// The applied snapshot is visible to later readers
	if again := p.Snapshot(); len(again.Ideas) != 1 {
		t.Errorf("Snapshot() lost the refreshed data")
	}
}

func TestPoller_StaleResponseDiscarded(t *testing.T) {
	p := NewPoller(NewClient(""), time.Minute)

	newer := Snapshot{Ideas: []plan.Idea{{ID: "a"}}, FetchedAt: 200}
	stale := Snapshot{FetchedAt: 100}

	// Fetch 2 lands first, then the slower fetch 1 finishes
	p.apply(2, newer)
	p.apply(1, stale)

	if snap := p.Snapshot(); len(snap.Ideas) != 1 || snap.FetchedAt != 200 {
		t.Errorf("stale response overwrote the newer snapshot: %+v", snap)
	}

	// A genuinely newer fetch still lands
	p.apply(3, Snapshot{FetchedAt: 300})
	if snap := p.Snapshot(); snap.FetchedAt != 300 {
		t.Errorf("newer response discarded: %+v", snap)
	}
}
