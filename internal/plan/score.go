package plan

import (
	"math"

	"github.com/hansvb/planboard/internal/errors"
)

// Default pricing assumptions. All three are exposed through config so
// they can be updated without a rebuild when model pricing changes.
const (
	// DefaultTokenUnitRate is the flat per-token dollar rate used for
	// rough monetary estimates on ICE-tracked entities.
	DefaultTokenUnitRate = 0.00002

	// DefaultInputRatePer1K / DefaultOutputRatePer1K price logged token
	// sessions per thousand tokens.
	DefaultInputRatePer1K  = 0.003
	DefaultOutputRatePer1K = 0.015
)

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round4 rounds to four decimal places (dollar amounts).
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// ComputeICE builds an ICEScore from its three inputs. Total is the
// mean rounded to one decimal. Inputs are expected to be in [1,10];
// range validation is the caller's job and values are not clamped here.
func ComputeICE(impact, confidence, ease int) ICEScore {
	return ICEScore{
		Impact:     impact,
		Confidence: confidence,
		Ease:       ease,
		Total:      round1(float64(impact+confidence+ease) / 3),
	}
}

// FeaturePriority computes the weighted feature ranking score:
// 50% ICE total, 30% complexity, 20% urgency, rounded to one decimal.
// Urgency is not collected anywhere in the stored feature shape, so
// callers without one pass 0 and the term contributes nothing.
func FeaturePriority(iceTotal float64, complexity int, urgency float64) float64 {
	return round1(0.5*iceTotal + 0.3*float64(complexity) + 0.2*urgency)
}

// IdeaTokenCost estimates the tokens needed to pursue an idea. The base
// cost per category is scaled by the mean ICE input over 10, i.e.
// (impact+confidence+ease)/30.
func IdeaTokenCost(category IdeaCategory, ice ICEScore) (int, error) {
	var base int
	switch category {
	case IdeaFeatureImprovement:
		base = 2000
	case IdeaNewAdCreative:
		base = 1500
	case IdeaNewStrategy:
		base = 4000
	case IdeaUserExperience:
		base = 2500
	case IdeaTechnicalEnhancement:
		base = 3000
	case IdeaMarketingCampaign:
		base = 2500
	case IdeaProductExtension:
		base = 4000
	case IdeaGrowthInitiative:
		base = 3500
	default:
		return 0, errors.NewUnknownCategory("idea", string(category))
	}

	scale := float64(ice.Impact+ice.Confidence+ice.Ease) / 30
	return int(math.Round(float64(base) * scale)), nil
}

// FeatureTokenCost estimates the tokens needed to build a feature,
// scaled by complexity over a baseline of 5.
func FeatureTokenCost(featureType FeatureType, complexity int) (int, error) {
	var base int
	switch featureType {
	case FeatureCore:
		base = 10000
	case FeatureEnhancement:
		base = 5000
	case FeatureIntegration:
		base = 7500
	case FeaturePerformance:
		base = 6000
	case FeatureSecurity:
		base = 8000
	default:
		return 0, errors.NewUnknownCategory("feature", string(featureType))
	}

	return int(math.Round(float64(base) * float64(complexity) / 5)), nil
}

// ExperimentTokenCost estimates the tokens needed to run an experiment,
// scaled by duration on a weekly basis (durationDays/7).
func ExperimentTokenCost(experimentType ExperimentType, durationDays int) (int, error) {
	var base int
	switch experimentType {
	case ExperimentABTest:
		base = 3000
	case ExperimentMarketingCopy:
		base = 2000
	case ExperimentLandingPage:
		base = 5000
	case ExperimentAdCampaign:
		base = 4000
	case ExperimentPriceTest:
		base = 1500
	default:
		return 0, errors.NewUnknownCategory("experiment", string(experimentType))
	}

	return int(math.Round(float64(base) * float64(durationDays) / 7)), nil
}

// MonetaryEstimate converts a token count into dollars at the given
// per-token rate, rounded to four decimals.
func MonetaryEstimate(tokens int, unitRate float64) float64 {
	return round4(float64(tokens) * unitRate)
}

// SessionCost prices one token session: per-1K input and output rates
// applied separately, rounded to four decimals.
func SessionCost(inputTokens, outputTokens int, inputRatePer1K, outputRatePer1K float64) float64 {
	return round4(float64(inputTokens)/1000*inputRatePer1K + float64(outputTokens)/1000*outputRatePer1K)
}
