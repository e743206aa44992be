package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hansvb/planboard/internal/config"
	"github.com/hansvb/planboard/internal/db"
	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
)

// LogSessionInput contains parameters for the LogTokenSession operation.
// An empty date defaults to today.
type LogSessionInput struct {
	Date         string
	Model        string
	InputTokens  int
	OutputTokens int
	Tasks        string
}

// LogTokenSession prices and stores one AI work session. Cost and the
// token total are derived here, never taken from the caller.
func LogTokenSession(ctx context.Context, database *sql.DB, cfg *config.Config, input LogSessionInput) (*plan.TokenSession, error) {
	if err := requireText("model", input.Model); err != nil {
		return nil, err
	}
	if input.InputTokens < 0 || input.OutputTokens < 0 {
		return nil, errors.NewInvalidRequest(fmt.Sprintf(
			"token counts must be non-negative, got input=%d output=%d",
			input.InputTokens, input.OutputTokens))
	}

	date, err := validateDate(input.Date)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	session := &plan.TokenSession{
		ID:           id,
		Date:         date,
		Model:        input.Model,
		InputTokens:  input.InputTokens,
		OutputTokens: input.OutputTokens,
		TotalTokens:  input.InputTokens + input.OutputTokens,
		Cost:         plan.SessionCost(input.InputTokens, input.OutputTokens, cfg.InputRatePer1K, cfg.OutputRatePer1K),
		Tasks:        input.Tasks,
		Source:       plan.SourceManual,
	}

	if err := db.InsertTokenSession(database, session); err != nil {
		return nil, err
	}
	return session, nil
}

// TokenTotals aggregates the listed sessions.
type TokenTotals struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	TotalCost    float64 `json:"total_cost"`
}

// ListSessionsOutput contains the merged session list plus totals over
// exactly the returned rows.
type ListSessionsOutput struct {
	Sessions []plan.TokenSession `json:"sessions"`
	Totals   TokenTotals         `json:"totals"`
}

// ListTokenSessions merges local sessions with the remote snapshot
// (remote wins on id collision), then filters and sorts.
func ListTokenSessions(ctx context.Context, database *sql.DB, src RemoteSource, q ListQuery) (*ListSessionsOutput, error) {
	local, err := db.ListTokenSessions(database)
	if err != nil {
		return nil, err
	}

	merged := plan.Merge(local, currentSnapshot(src).Sessions)
	merged = runPipeline(merged, q)

	var totals TokenTotals
	for _, s := range merged {
		totals.InputTokens += s.InputTokens
		totals.OutputTokens += s.OutputTokens
		totals.TotalTokens += s.TotalTokens
		totals.TotalCost += s.Cost
	}

	return &ListSessionsOutput{Sessions: merged, Totals: totals}, nil
}

// DeleteTokenSession removes a local session. Remote-sourced ids are
// read-only.
func DeleteTokenSession(ctx context.Context, database *sql.DB, src RemoteSource, id string) error {
	err := db.DeleteTokenSession(database, id)
	return mutationTarget(err, containsID(currentSnapshot(src).Sessions, id), id)
}
