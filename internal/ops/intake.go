package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/hansvb/planboard/internal/db"
	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
	"github.com/hansvb/planboard/internal/remote"
)

// ClassifyOutput is the dry-run classification of one message: the
// verdict plus the draft entity that IntakeMessage would persist.
// Exactly one of Feature / Experiment is set.
type ClassifyOutput struct {
	Classification plan.Classification `json:"classification"`
	Feature        *plan.Feature       `json:"feature,omitempty"`
	Experiment     *plan.Experiment    `json:"experiment,omitempty"`
}

// ClassifyMessage classifies a free-text message and builds the
// resulting draft without persisting anything.
func ClassifyMessage(text string) (*ClassifyOutput, error) {
	if err := requireText("text", text); err != nil {
		return nil, err
	}

	out := &ClassifyOutput{Classification: plan.Classify(text)}

	switch out.Classification.Kind {
	case plan.KindFeature:
		feature, err := plan.DraftFeature(text)
		if err != nil {
			return nil, err
		}
		out.Feature = feature
	case plan.KindExperiment:
		experiment, err := plan.DraftExperiment(text)
		if err != nil {
			return nil, err
		}
		out.Experiment = experiment
	}
	return out, nil
}

// IntakeMessage classifies a free-text message and persists the draft
// as a feature or experiment. The returned output carries the stored
// entity with its assigned id.
func IntakeMessage(ctx context.Context, database *sql.DB, text string) (*ClassifyOutput, error) {
	out, err := ClassifyMessage(text)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	now := time.Now().Unix()

	switch {
	case out.Feature != nil:
		out.Feature.ID = id
		out.Feature.CreatedAt = now
		out.Feature.Source = plan.SourceManual
		if err := db.InsertFeature(database, out.Feature); err != nil {
			return nil, err
		}
	case out.Experiment != nil:
		out.Experiment.ID = id
		out.Experiment.CreatedAt = now
		out.Experiment.Source = plan.SourceManual
		if err := db.InsertExperiment(database, out.Experiment); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FeedbackDraft pairs one remote feedback note with its classification.
type FeedbackDraft struct {
	Note  remote.FeedbackNote `json:"note"`
	Draft *ClassifyOutput     `json:"draft"`
}

// ReviewFeedback classifies every note in the remote feedback document
// without persisting anything. Each draft can then be accepted through
// IntakeMessage.
func ReviewFeedback(ctx context.Context, src RemoteSource) ([]FeedbackDraft, error) {
	notes := currentSnapshot(src).Feedback

	drafts := make([]FeedbackDraft, 0, len(notes))
	for _, note := range notes {
		draft, err := ClassifyMessage(note.Text)
		if err != nil {
			// Empty notes are skipped, not fatal
			if errors.Is(err, errors.ErrInvalidRequest) {
				continue
			}
			return nil, err
		}
		drafts = append(drafts, FeedbackDraft{Note: note, Draft: draft})
	}
	return drafts, nil
}
