package ops

import (
	"context"
	"database/sql"

	"github.com/hansvb/planboard/internal/config"
	"github.com/hansvb/planboard/internal/db"
	"github.com/hansvb/planboard/internal/plan"
)

// BoardSummaryOutput is the cross-entity dashboard header: one summary
// block per board plus session totals, all over the merged view.
type BoardSummaryOutput struct {
	Ideas       plan.Summary `json:"ideas"`
	Features    plan.Summary `json:"features"`
	Experiments plan.Summary `json:"experiments"`
	Tokens      TokenTotals  `json:"tokens"`

	// RemoteFetchedAt is the Unix time of the applied remote snapshot,
	// zero when no poll has landed yet.
	RemoteFetchedAt int64 `json:"remote_fetched_at,omitempty"`
}

// BoardSummary aggregates every board. Each block counts the merged
// local+remote view, unfiltered.
func BoardSummary(ctx context.Context, database *sql.DB, cfg *config.Config, src RemoteSource) (*BoardSummaryOutput, error) {
	snap := currentSnapshot(src)

	ideas, err := db.ListIdeas(database)
	if err != nil {
		return nil, err
	}
	features, err := db.ListFeatures(database)
	if err != nil {
		return nil, err
	}
	experiments, err := db.ListExperiments(database)
	if err != nil {
		return nil, err
	}
	sessions, err := db.ListTokenSessions(database)
	if err != nil {
		return nil, err
	}

	mergedSessions := plan.Merge(sessions, snap.Sessions)
	var tokens TokenTotals
	for _, s := range mergedSessions {
		tokens.InputTokens += s.InputTokens
		tokens.OutputTokens += s.OutputTokens
		tokens.TotalTokens += s.TotalTokens
		tokens.TotalCost += s.Cost
	}

	return &BoardSummaryOutput{
		Ideas:           plan.Summarize(plan.Merge(ideas, snap.Ideas), cfg.TokenUnitRate),
		Features:        plan.Summarize(features, cfg.TokenUnitRate),
		Experiments:     plan.Summarize(plan.Merge(experiments, snap.Experiments), cfg.TokenUnitRate),
		Tokens:          tokens,
		RemoteFetchedAt: snap.FetchedAt,
	}, nil
}
