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

// AddExperimentInput contains parameters for the AddExperiment operation.
type AddExperimentInput struct {
	Title        string
	Hypothesis   string
	Type         plan.ExperimentType
	Impact       int
	Confidence   int
	Ease         int
	DurationDays int // default: one weekly cycle
}

// AddExperiment scores and stores a new local experiment.
func AddExperiment(ctx context.Context, database *sql.DB, input AddExperimentInput) (*plan.Experiment, error) {
	if err := requireText("title", input.Title); err != nil {
		return nil, err
	}
	if !plan.ValidExperimentType(input.Type) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown experiment type %q", input.Type))
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
	if input.DurationDays == 0 {
		input.DurationDays = plan.DefaultExperimentDuration
	}
	if input.DurationDays < 1 {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("duration_days must be positive, got %d", input.DurationDays))
	}

	cost, err := plan.ExperimentTokenCost(input.Type, input.DurationDays)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	experiment := &plan.Experiment{
		ID:           id,
		Title:        input.Title,
		Hypothesis:   input.Hypothesis,
		Type:         input.Type,
		ICE:          plan.ComputeICE(input.Impact, input.Confidence, input.Ease),
		TokenCost:    cost,
		Status:       plan.ExperimentStatusDraft,
		DurationDays: input.DurationDays,
		CreatedAt:    time.Now().Unix(),
		Source:       plan.SourceManual,
	}

	if err := db.InsertExperiment(database, experiment); err != nil {
		return nil, err
	}
	return experiment, nil
}

// ListExperimentsOutput contains the merged, filtered, sorted
// experiment list plus aggregate statistics over the returned rows.
type ListExperimentsOutput struct {
	Experiments []plan.Experiment `json:"experiments"`
	Summary     plan.Summary      `json:"summary"`
}

// ListExperiments merges local experiments with the remote snapshot
// (remote wins on id collision), then filters, sorts, and summarizes.
func ListExperiments(ctx context.Context, database *sql.DB, cfg *config.Config, src RemoteSource, q ListQuery) (*ListExperimentsOutput, error) {
	local, err := db.ListExperiments(database)
	if err != nil {
		return nil, err
	}

	merged := plan.Merge(local, currentSnapshot(src).Experiments)
	merged = runPipeline(merged, q)

	return &ListExperimentsOutput{
		Experiments: merged,
		Summary:     plan.Summarize(merged, cfg.TokenUnitRate),
	}, nil
}

// SetExperimentStatus updates the status of a local experiment.
// Remote-sourced ids are read-only.
func SetExperimentStatus(ctx context.Context, database *sql.DB, src RemoteSource, id string, status plan.ExperimentStatus) (*plan.Experiment, error) {
	if !plan.ValidExperimentStatus(status) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown experiment status %q", status))
	}

	err := db.UpdateExperimentStatus(database, id, status)
	if err := mutationTarget(err, containsID(currentSnapshot(src).Experiments, id), id); err != nil {
		return nil, err
	}
	return db.GetExperiment(database, id)
}

// RecordResultInput contains parameters for the RecordExperimentResult
// operation.
type RecordResultInput struct {
	ID         string
	Lift       float64
	SampleSize *int
}

// RecordExperimentResult stores the measured lift (and optional sample
// size) and marks the experiment completed.
func RecordExperimentResult(ctx context.Context, database *sql.DB, src RemoteSource, input RecordResultInput) (*plan.Experiment, error) {
	if input.SampleSize != nil && *input.SampleSize < 1 {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("sample_size must be positive, got %d", *input.SampleSize))
	}

	err := db.RecordExperimentResult(database, input.ID, input.Lift, input.SampleSize)
	if err := mutationTarget(err, containsID(currentSnapshot(src).Experiments, input.ID), input.ID); err != nil {
		return nil, err
	}
	return db.GetExperiment(database, input.ID)
}

// DeleteExperiment removes a local experiment. Remote-sourced ids are
// read-only.
func DeleteExperiment(ctx context.Context, database *sql.DB, src RemoteSource, id string) error {
	err := db.DeleteExperiment(database, id)
	return mutationTarget(err, containsID(currentSnapshot(src).Experiments, id), id)
}
