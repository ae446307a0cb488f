package pipeline

import "github.com/fraudops/alert-triage/internal/model"

// Risk-rating tier boundaries for the final classification.
const (
	highRiskThreshold   = 7
	mediumRiskThreshold = 4
	defaultRiskRating   = 5
)

// Synthesize reduces the three stage results into the final recommendation.
// It is a pure function: no I/O, deterministic for the same inputs. Stage
// results carrying a parse-error sentinel contribute their defaults only.
func Synthesize(s1 model.Stage1Result, s2 model.Stage2Result, s3 model.Stage3Result) model.FinalRecommendation {
	requiresAnalysis := s1.Classification == model.ClassRequiresAnalysis ||
		s2.Classification == model.ClassRequiresAnalysis

	risk := s3.RiskRating
	if s3.Failed() || risk == 0 {
		risk = defaultRiskRating
	}

	var final string
	switch {
	case requiresAnalysis || risk >= highRiskThreshold:
		final = model.PriorityHigh
	case risk >= mediumRiskThreshold:
		final = model.PriorityMedium
	default:
		final = model.PriorityLow
	}

	return model.FinalRecommendation{
		FinalClassification: final,
		OverallRiskScore:    risk,
		ConfidenceLevel:     confidenceLevel(s1, s2),
		NextActions:         nextActions(final),
	}
}

// confidenceLevel combines stage 1's confidence score with stage 2's anomaly
// rating. Missing or untrusted values default to Medium.
func confidenceLevel(s1 model.Stage1Result, s2 model.Stage2Result) string {
	score := s1.ConfidenceScore
	if s1.Failed() || score == "" {
		score = model.TierMedium
	}
	rating := s2.AnomalyRating
	if s2.Failed() || rating == "" {
		rating = model.TierMedium
	}

	switch {
	case score == model.TierHigh && rating == model.TierLow:
		return model.TierHigh
	case score == model.TierLow || rating == model.TierHigh:
		return model.TierLow
	default:
		return model.TierMedium
	}
}

// nextActions returns the fixed three-item action list for a tier. The text
// does not vary with the numeric risk beyond the tier boundary.
func nextActions(classification string) []string {
	switch classification {
	case model.PriorityHigh:
		return []string{
			"Immediate manual review required",
			"Contact customer for verification if needed",
			"Consider temporary card block if risk score > 8",
		}
	case model.PriorityMedium:
		return []string{
			"Schedule for analyst review within 4 hours",
			"Monitor for additional suspicious activity",
			"Review customer contact preferences",
		}
	default:
		return []string{
			"Mark as reviewed - likely genuine",
			"Continue standard monitoring",
			"Update customer behavior patterns",
		}
	}
}
