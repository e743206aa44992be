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

// AddFeatureInput contains parameters for the AddFeature operation.
// Urgency feeds the priority formula but is not stored; it defaults to
// zero when the caller has no urgency signal.
type AddFeatureInput struct {
	Title       string
	Description string
	Type        plan.FeatureType
	Impact      int
	Confidence  int
	Ease        int
	Complexity  int
	Urgency     float64
}

// AddFeature scores and stores a new local feature.
func AddFeature(ctx context.Context, database *sql.DB, input AddFeatureInput) (*plan.Feature, error) {
	if err := requireText("title", input.Title); err != nil {
		return nil, err
	}
	if !plan.ValidFeatureType(input.Type) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown feature type %q", input.Type))
	}
	for _, score := range []struct {
		field string
		value int
	}{
		{"impact", input.Impact},
		{"confidence", input.Confidence},
		{"ease", input.Ease},
		{"complexity", input.Complexity},
	} {
		if err := validateScore(score.field, score.value); err != nil {
			return nil, err
		}
	}

	ice := plan.ComputeICE(input.Impact, input.Confidence, input.Ease)
	cost, err := plan.FeatureTokenCost(input.Type, input.Complexity)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	feature := &plan.Feature{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		ICE:         ice,
		Complexity:  input.Complexity,
		Priority:    plan.FeaturePriority(ice.Total, input.Complexity, input.Urgency),
		TokenCost:   cost,
		Status:      plan.FeatureStatusNew,
		Progress:    0,
		CreatedAt:   time.Now().Unix(),
		Source:      plan.SourceManual,
	}

	if err := db.InsertFeature(database, feature); err != nil {
		return nil, err
	}
	return feature, nil
}

// ListFeaturesOutput contains the filtered, sorted feature list plus
// aggregate statistics over exactly the returned rows.
type ListFeaturesOutput struct {
	Features []plan.Feature `json:"features"`
	Summary  plan.Summary   `json:"summary"`
}

// ListFeatures filters, sorts, and summarizes the feature queue. The
// remote side publishes no feature document, so the list is local only.
func ListFeatures(ctx context.Context, database *sql.DB, cfg *config.Config, q ListQuery) (*ListFeaturesOutput, error) {
	features, err := db.ListFeatures(database)
	if err != nil {
		return nil, err
	}

	features = runPipeline(features, q)
	return &ListFeaturesOutput{
		Features: features,
		Summary:  plan.Summarize(features, cfg.TokenUnitRate),
	}, nil
}

// SetFeatureStatus updates the status of a feature.
func SetFeatureStatus(ctx context.Context, database *sql.DB, id string, status plan.FeatureStatus) (*plan.Feature, error) {
	if !plan.ValidFeatureStatus(status) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown feature status %q", status))
	}
	if err := db.UpdateFeatureStatus(database, id, status); err != nil {
		return nil, err
	}
	return db.GetFeature(database, id)
}

// SetFeatureProgress updates the completion percentage of a feature.
func SetFeatureProgress(ctx context.Context, database *sql.DB, id string, progress int) (*plan.Feature, error) {
	if progress < 0 || progress > 100 {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("progress must be between 0 and 100, got %d", progress))
	}
	if err := db.UpdateFeatureProgress(database, id, progress); err != nil {
		return nil, err
	}
	return db.GetFeature(database, id)
}

// DeleteFeature removes a feature.
func DeleteFeature(ctx context.Context, database *sql.DB, id string) error {
	return db.DeleteFeature(database, id)
}
