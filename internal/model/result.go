package model

import "time"

// Classification values shared by stages 1 and 2.
const (
	ClassLikelyGenuine    = "Likely Genuine"
	ClassRequiresAnalysis = "Requires Further Analysis"
)

// Ordinal tiers used for confidence scores and anomaly ratings.
const (
	TierHigh   = "High"
	TierMedium = "Medium"
	TierLow    = "Low"
)

// Final classification tiers produced by the recommendation synthesizer.
const (
	PriorityHigh   = "High Priority Review"
	PriorityMedium = "Medium Priority Review"
	PriorityLow    = "Low Priority - Likely Genuine"
)

// Stage1Result is the structured output of the genuine-alert correlation
// stage. When the model output cannot be decoded, Error and RawResponse are
// set instead and no other field may be trusted.
type Stage1Result struct {
	Classification  string `json:"classification,omitempty"`
	ConfidenceScore string `json:"confidenceScore,omitempty"`
	Rationale       string `json:"rationale,omitempty"`
	HTMLContent     string `json:"htmlContent,omitempty"`
	Error           string `json:"error,omitempty"`
	RawResponse     string `json:"raw_response,omitempty"`
}

// Failed reports whether this result is a parse-error sentinel.
func (r Stage1Result) Failed() bool { return r.Error != "" }

// Stage2Result is the structured output of the behavioral anomaly stage.
type Stage2Result struct {
	Classification           string   `json:"classification,omitempty"`
	AnomalyRating            string   `json:"anomalyRating,omitempty"`
	KeyAnomalousObservations []string `json:"keyAnomalousObservations,omitempty"`
	BehavioralSummary        string   `json:"behavioralSummary,omitempty"`
	HTMLContent              string   `json:"htmlContent,omitempty"`
	Error                    string   `json:"error,omitempty"`
	RawResponse              string   `json:"raw_response,omitempty"`
}

// Failed reports whether this result is a parse-error sentinel.
func (r Stage2Result) Failed() bool { return r.Error != "" }

// Stage3Result is the structured output of the comprehensive risk assessment.
type Stage3Result struct {
	KeyFindings     []string `json:"keyFindings,omitempty"`
	RiskFactors     []string `json:"riskFactors,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	HTMLContent     string   `json:"htmlContent,omitempty"`
	Error           string   `json:"error,omitempty"`
	RawResponse     string   `json:"raw_response,omitempty"`
	RiskRating      int      `json:"riskRating,omitempty"`
}

// Failed reports whether this result is a parse-error sentinel.
func (r Stage3Result) Failed() bool { return r.Error != "" }

// Analysis bundles the three stage results of one pipeline run.
type Analysis struct {
	Stage1 Stage1Result `json:"stage1_genuine_correlation"`
	Stage2 Stage2Result `json:"stage2_behavioral_analysis"`
	Stage3 Stage3Result `json:"stage3_risk_assessment"`
}

// FinalRecommendation is the deterministic reduction of the three stage
// results. Computed once after all stages finish; never mutated.
type FinalRecommendation struct {
	FinalClassification string   `json:"final_classification"`
	ConfidenceLevel     string   `json:"confidence_level"`
	NextActions         []string `json:"next_actions"`
	OverallRiskScore    int      `json:"overall_risk_score"`
}

// Execution status values for the envelope state machine.
const (
	StatusIdle      = "idle"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ExecutionResult is the envelope returned to external callers. Callers must
// branch on Status before reading Analysis or FinalRecommendation.
type ExecutionResult struct {
	Status              string               `json:"status"`
	Analysis            *Analysis            `json:"analysis,omitempty"`
	FinalRecommendation *FinalRecommendation `json:"final_recommendation,omitempty"`
	Version             string               `json:"version,omitempty"`
	Error               string               `json:"error,omitempty"`
	ExecutionTimeMs     float64              `json:"execution_time_ms,omitempty"`
}

// ExecutionRecord tracks one pipeline run for the in-memory history.
type ExecutionRecord struct {
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	ID          string           `json:"id"`
	Status      string           `json:"status"`
	Error       string           `json:"error,omitempty"`
	Input       Alert            `json:"input_data"`
	Output      *ExecutionResult `json:"output_data,omitempty"`
}
