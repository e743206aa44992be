package ops

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hansvb/planboard/internal/config"
	"github.com/hansvb/planboard/internal/db"
	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
)

// AddIdeaInput contains parameters for the AddIdea operation.
type AddIdeaInput struct {
	Title       string
	Description string
	Category    plan.IdeaCategory
	Impact      int
	Confidence  int
	Ease        int
}

// AddIdea scores and stores a new local idea. The ICE total and token
// cost are computed here and fixed for the idea's lifetime; only status
// and the promoted flag mutate afterwards.
func AddIdea(ctx context.Context, database *sql.DB, input AddIdeaInput) (*plan.Idea, error) {
	if err := requireText("title", input.Title); err != nil {
		return nil, err
	}
	if !plan.ValidIdeaCategory(input.Category) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown idea category %q", input.Category))
	}
	for _, score := range []struct {
		field string
		value int
	}{
		{"impact", input.Impact},
		{"confidence", input.Confidence},
		{"ease", input.Ease},
	} {
		if err := validateScore(score.field, score.value); err != nil {
			return nil, err
		}
	}

	ice := plan.ComputeICE(input.Impact, input.Confidence, input.Ease)
	cost, err := plan.IdeaTokenCost(input.Category, ice)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	idea := &plan.Idea{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		ICE:         ice,
		TokenCost:   cost,
		Status:      plan.IdeaStatusNew,
		CreatedAt:   time.Now().Unix(),
		Source:      plan.SourceManual,
	}

	if err := db.InsertIdea(database, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// ListIdeasOutput contains the merged, filtered, sorted idea list plus
// aggregate statistics over exactly the returned rows.
type ListIdeasOutput struct {
	Ideas   []plan.Idea  `json:"ideas"`
	Summary plan.Summary `json:"summary"`
}

// ListIdeas merges local ideas with the remote snapshot (remote wins on
// id collision), then filters, sorts, and summarizes.
func ListIdeas(ctx context.Context, database *sql.DB, cfg *config.Config, src RemoteSource, q ListQuery) (*ListIdeasOutput, error) {
	local, err := db.ListIdeas(database)
	if err != nil {
		return nil, err
	}

	merged := plan.Merge(local, currentSnapshot(src).Ideas)
	merged = runPipeline(merged, q)

	return &ListIdeasOutput{
		Ideas:   merged,
		Summary: plan.Summarize(merged, cfg.TokenUnitRate),
	}, nil
}

// GetIdea reads one idea from the merged view. The snapshot is checked
// first so the lookup agrees with the list: remote wins on id collision.
func GetIdea(ctx context.Context, database *sql.DB, src RemoteSource, id string) (*plan.Idea, error) {
	for _, remoteIdea := range currentSnapshot(src).Ideas {
		if remoteIdea.ID == id {
			remoteIdea = remoteIdea.WithSource(plan.SourceRemote)
			return &remoteIdea, nil
		}
	}
	return db.GetIdea(database, id)
}

// SetIdeaStatus updates the status of a local idea. Remote-sourced ids
// are read-only.
func SetIdeaStatus(ctx context.Context, database *sql.DB, src RemoteSource, id string, status plan.IdeaStatus) (*plan.Idea, error) {
	if !plan.ValidIdeaStatus(status) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown idea status %q", status))
	}

	err := db.UpdateIdeaStatus(database, id, status)
	if err := mutationTarget(err, containsID(currentSnapshot(src).Ideas, id), id); err != nil {
		return nil, err
	}
	return db.GetIdea(database, id)
}

// PromoteIdea toggles the informal promoted-to-experiment flag.
func PromoteIdea(ctx context.Context, database *sql.DB, src RemoteSource, id string, promoted bool) (*plan.Idea, error) {
	err := db.SetIdeaPromoted(database, id, promoted)
	if err := mutationTarget(err, containsID(currentSnapshot(src).Ideas, id), id); err != nil {
		return nil, err
	}
	return db.GetIdea(database, id)
}

// DeleteIdea removes a local idea. Remote-sourced ids are read-only and
// reappear on every poll; deleting them locally would only mislead.
func DeleteIdea(ctx context.Context, database *sql.DB, src RemoteSource, id string) error {
	err := db.DeleteIdea(database, id)
	return mutationTarget(err, containsID(currentSnapshot(src).Ideas, id), id)
}
