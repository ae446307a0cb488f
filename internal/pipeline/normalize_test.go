package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudops/alert-triage/internal/model"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\": 1}\n```  \n", `{"a": 1}`},
		{"opening fence only", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.raw))
		})
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	t.Run("stage 1", func(t *testing.T) {
		want := model.Stage1Result{
			Classification:  model.ClassLikelyGenuine,
			ConfidenceScore: model.TierHigh,
			Rationale:       "Matches 3 out of 4 key attributes with genuine transaction from 6 days ago",
			HTMLContent:     "<h4 style='color: green;'>Likely Genuine</h4>",
		}
		encoded, err := json.Marshal(want)
		require.NoError(t, err)
		assert.Equal(t, want, decodeStage1(string(encoded)))
	})

	t.Run("stage 2", func(t *testing.T) {
		want := model.Stage2Result{
			Classification:           model.ClassRequiresAnalysis,
			AnomalyRating:            model.TierHigh,
			KeyAnomalousObservations: []string{"new merchant", "amount spike"},
			BehavioralSummary:        "deviates sharply from the 3-month baseline",
			HTMLContent:              "<ul><li>new merchant</li></ul>",
		}
		encoded, err := json.Marshal(want)
		require.NoError(t, err)
		assert.Equal(t, want, decodeStage2(string(encoded)))
	})

	t.Run("stage 3", func(t *testing.T) {
		want := model.Stage3Result{
			KeyFindings:     []string{"high-value transaction to unknown merchant"},
			RiskFactors:     []string{"card-not-present", "new merchant"},
			Recommendations: []string{"manual review", "contact customer"},
			RiskRating:      7,
			HTMLContent:     "<div>7</div>",
		}
		encoded, err := json.Marshal(want)
		require.NoError(t, err)
		assert.Equal(t, want, decodeStage3(string(encoded)))
	})

	t.Run("fenced encoding parses identically", func(t *testing.T) {
		want := model.Stage1Result{Classification: model.ClassLikelyGenuine, ConfidenceScore: model.TierHigh}
		encoded, err := json.Marshal(want)
		require.NoError(t, err)
		fenced := "```json\n" + string(encoded) + "\n```"
		assert.Equal(t, decodeStage1(string(encoded)), decodeStage1(fenced))
	})
}

func TestDecodeStage1(t *testing.T) {
	t.Run("valid response", func(t *testing.T) {
		raw := "```json\n" + `{
  "classification": "Likely Genuine",
  "confidenceScore": "High",
  "rationale": "Matches 3 out of 4 key attributes",
  "htmlContent": "<h4>ok</h4>"
}` + "\n```"

		r := decodeStage1(raw)
		assert.False(t, r.Failed())
		assert.Equal(t, model.ClassLikelyGenuine, r.Classification)
		assert.Equal(t, model.TierHigh, r.ConfidenceScore)
		assert.Equal(t, "Matches 3 out of 4 key attributes", r.Rationale)
		assert.Empty(t, r.RawResponse)
	})

	t.Run("malformed response becomes sentinel", func(t *testing.T) {
		r := decodeStage1("I am unable to answer in JSON today.")
		assert.True(t, r.Failed())
		assert.Contains(t, r.Error, "failed to parse JSON response")
		assert.Equal(t, "I am unable to answer in JSON today.", r.RawResponse)
		assert.Empty(t, r.Classification)
	})
}

func TestDecodeStage2(t *testing.T) {
	raw := `{
  "classification": "Requires Further Analysis",
  "anomalyRating": "High",
  "keyAnomalousObservations": ["new merchant", "amount spike"],
  "behavioralSummary": "deviates from baseline",
  "htmlContent": "<ul></ul>"
}`

	r := decodeStage2(raw)
	assert.False(t, r.Failed())
	assert.Equal(t, model.ClassRequiresAnalysis, r.Classification)
	assert.Equal(t, model.TierHigh, r.AnomalyRating)
	assert.Equal(t, []string{"new merchant", "amount spike"}, r.KeyAnomalousObservations)

	bad := decodeStage2("nope")
	assert.True(t, bad.Failed())
	assert.Equal(t, "nope", bad.RawResponse)
}

func TestDecodeStage3(t *testing.T) {
	raw := `{
  "keyFindings": ["unknown merchant"],
  "riskFactors": ["card-not-present"],
  "recommendations": ["manual review"],
  "riskRating": 7,
  "htmlContent": "<div>7</div>"
}`

	r := decodeStage3(raw)
	assert.False(t, r.Failed())
	assert.Equal(t, 7, r.RiskRating)
	assert.Equal(t, []string{"unknown merchant"}, r.KeyFindings)

	bad := decodeStage3("{truncated")
	assert.True(t, bad.Failed())
	assert.Contains(t, bad.Error, "failed to parse JSON response")
	assert.Zero(t, bad.RiskRating)
}
