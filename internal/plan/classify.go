package plan

import (
	"math"
	"strings"
)

// Kind is the classified target type of a free-text note.
type Kind string

const (
	KindFeature    Kind = "feature"
	KindExperiment Kind = "experiment"
)

// featureKeywords and experimentKeywords drive the keyword-count vote.
// A token matches when it contains the keyword as a substring, so
// "building" counts for "build" and "integrations" for "integrate".
var featureKeywords = []string{
	"build", "create", "implement", "develop", "add", "integrate",
	"improve", "optimize", "enhance", "upgrade", "fix", "system",
	"functionality", "feature", "capability", "module",
}

var experimentKeywords = []string{
	"test", "try", "experiment", "measure", "validate", "hypothesis",
	"campaign", "ad", "marketing", "copy", "landing page", "price",
	"messaging", "audience", "target",
}

// Metrics are the heuristic score inputs derived from the text.
type Metrics struct {
	Impact     int `json:"impact"`
	Confidence int `json:"confidence"`
	Ease       int `json:"ease"`
	Complexity int `json:"complexity"`
}

// Classification is the result of classifying a free-text note.
// Exactly one of FeatureType / ExperimentType is set, matching Kind.
type Classification struct {
	Kind           Kind           `json:"kind"`
	FeatureType    FeatureType    `json:"feature_type,omitempty"`
	ExperimentType ExperimentType `json:"experiment_type,omitempty"`
	Metrics        Metrics        `json:"metrics"`
}

// Category returns the assigned category as a plain string.
func (c Classification) Category() string {
	if c.Kind == KindFeature {
		return string(c.FeatureType)
	}
	return string(c.ExperimentType)
}

// Classify converts a free-text note into a typed entity draft
// description. It is a deterministic keyword heuristic, not NLP: the
// same text always yields the same result, with no randomness and no
// external calls. Ties in the keyword vote go to experiment.
func Classify(text string) Classification {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	featureCount := countKeywordHits(words, featureKeywords)
	experimentCount := countKeywordHits(words, experimentKeywords)

	kind := KindExperiment
	if featureCount > experimentCount {
		kind = KindFeature
	}

	// Heuristic metrics. Complexity tracks text length (3 points per
	// 100 chars), impact tracks keyword density, confidence is a fixed
	// prior per kind (features read as slightly more predictable).
	complexity := clamp(int(math.Ceil(float64(len(text))/100*3)), 1, 10)
	impact := min((featureCount+experimentCount)*2, 10)
	confidence := 6
	if kind == KindFeature {
		confidence = 7
	}
	ease := max(1, 10-complexity)

	c := Classification{
		Kind: kind,
		Metrics: Metrics{
			Impact:     impact,
			Confidence: confidence,
			Ease:       ease,
			Complexity: complexity,
		},
	}

	if kind == KindFeature {
		c.FeatureType = classifyFeatureType(lower)
	} else {
		c.ExperimentType = classifyExperimentType(lower)
	}
	return c
}

// classifyFeatureType assigns a feature category by priority-ordered
// substring search; the first match wins.
func classifyFeatureType(lower string) FeatureType {
	switch {
	case strings.Contains(lower, "performance"):
		return FeaturePerformance
	case strings.Contains(lower, "secur"):
		return FeatureSecurity
	case strings.Contains(lower, "integrat"):
		return FeatureIntegration
	case strings.Contains(lower, "enhance"):
		return FeatureEnhancement
	default:
		return FeatureCore
	}
}

// classifyExperimentType assigns an experiment category by
// priority-ordered substring search; the first match wins.
func classifyExperimentType(lower string) ExperimentType {
	switch {
	case strings.Contains(lower, "landing"):
		return ExperimentLandingPage
	case strings.Contains(lower, "ad"):
		return ExperimentAdCampaign
	case strings.Contains(lower, "copy"):
		return ExperimentMarketingCopy
	case strings.Contains(lower, "price"):
		return ExperimentPriceTest
	default:
		return ExperimentABTest
	}
}

func countKeywordHits(words, keywords []string) int {
	count := 0
	for _, w := range words {
		for _, k := range keywords {
			if strings.Contains(w, k) {
				count++
				break
			}
		}
	}
	return count
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DefaultExperimentDuration is the duration assumed for drafted
// experiments, in days (one weekly cycle).
const DefaultExperimentDuration = 7

// DraftFeature builds a feature from a free-text note. Returns nil when
// the note classifies as an experiment: the message is simply not a
// feature, which is not an error. ID, CreatedAt, and Source are left
// for the caller to fill.
func DraftFeature(text string) (*Feature, error) {
	c := Classify(text)
	if c.Kind != KindFeature {
		return nil, nil
	}

	cost, err := FeatureTokenCost(c.FeatureType, c.Metrics.Complexity)
	if err != nil {
		return nil, err
	}

	ice := ComputeICE(c.Metrics.Impact, c.Metrics.Confidence, c.Metrics.Ease)
	return &Feature{
		Title:       draftTitle(text),
		Description: text,
		Type:        c.FeatureType,
		ICE:         ice,
		Complexity:  c.Metrics.Complexity,
		Priority:    FeaturePriority(ice.Total, c.Metrics.Complexity, 0),
		TokenCost:   cost,
		Status:      FeatureStatusNew,
		Progress:    0,
	}, nil
}

// DraftExperiment builds an experiment from a free-text note. Returns
// nil when the note classifies as a feature. ID, CreatedAt, and Source
// are left for the caller to fill.
func DraftExperiment(text string) (*Experiment, error) {
	c := Classify(text)
	if c.Kind != KindExperiment {
		return nil, nil
	}

	cost, err := ExperimentTokenCost(c.ExperimentType, DefaultExperimentDuration)
	if err != nil {
		return nil, err
	}

	return &Experiment{
		Title:        draftTitle(text),
		Hypothesis:   text,
		Type:         c.ExperimentType,
		ICE:          ComputeICE(c.Metrics.Impact, c.Metrics.Confidence, c.Metrics.Ease),
		TokenCost:    cost,
		Status:       ExperimentStatusDraft,
		DurationDays: DefaultExperimentDuration,
	}, nil
}

// draftTitle takes the text up to the first period, falling back to the
// first 50 characters when the text starts with a period or has none
// before that point.
func draftTitle(text string) string {
	if idx := strings.Index(text, "."); idx > 0 {
		return text[:idx]
	}
	runes := []rune(text)
	if len(runes) > 50 {
		return string(runes[:50])
	}
	return text
}
