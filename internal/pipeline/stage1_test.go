package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudops/alert-triage/internal/model"
)

func TestFilterCooledOff(t *testing.T) {
	alert := model.Alert{Timestamp: "2024-12-16T14:30:00Z"}

	tests := []struct {
		name    string
		history []model.GenuineAlert
		want    []string
	}{
		{
			name: "entries inside the cooling-off window are excluded",
			history: []model.GenuineAlert{
				{Merchant: "Recent", Timestamp: "2024-12-15T16:00:00Z"},
				{Merchant: "Old", Timestamp: "2024-12-10T14:30:00Z"},
			},
			want: []string{"Old"},
		},
		{
			name: "boundary entry exactly 24h old is excluded",
			history: []model.GenuineAlert{
				{Merchant: "Boundary", Timestamp: "2024-12-15T14:30:00Z"},
				{Merchant: "JustPast", Timestamp: "2024-12-15T14:29:59Z"},
			},
			want: []string{"JustPast"},
		},
		{
			name: "unparseable timestamps are dropped",
			history: []model.GenuineAlert{
				{Merchant: "Bad", Timestamp: "yesterday"},
				{Merchant: "Good", Timestamp: "2024-12-01T10:00:00Z"},
			},
			want: []string{"Good"},
		},
		{
			name:    "empty history yields empty working set",
			history: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			working := FilterCooledOff(alert, tt.history)
			got := make([]string, 0, len(working))
			for _, entry := range working {
				got = append(got, entry.Merchant)
			}
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterCooledOff_UnparseableAlertTimestamp(t *testing.T) {
	alert := model.Alert{Timestamp: "not-a-time"}
	history := []model.GenuineAlert{{Merchant: "Old", Timestamp: "2024-12-01T10:00:00Z"}}
	assert.Empty(t, FilterCooledOff(alert, history))
}

func TestCorrelateGenuine(t *testing.T) {
	alert := model.Alert{
		Timestamp:       "2024-12-16T14:30:00Z",
		Merchant:        "Amazon",
		Amount:          50.00,
		TransactionType: "Card-Not-Present",
	}

	tests := []struct {
		name      string
		history   []model.GenuineAlert
		wantClass string
		wantScore string
	}{
		{
			name: "all four attributes match",
			history: []model.GenuineAlert{{
				Timestamp:       "2024-12-10T14:00:00Z",
				Merchant:        "Amazon",
				Amount:          48.00,
				TransactionType: "Card-Not-Present",
			}},
			wantClass: model.ClassLikelyGenuine,
			wantScore: model.TierHigh,
		},
		{
			name: "three of four match despite amount outside band",
			history: []model.GenuineAlert{{
				Timestamp:       "2024-12-10T14:00:00Z",
				Merchant:        "Amazon",
				Amount:          65.00,
				TransactionType: "Card-Not-Present",
			}},
			wantClass: model.ClassLikelyGenuine,
			wantScore: model.TierHigh,
		},
		{
			name: "only two attributes match",
			history: []model.GenuineAlert{{
				Timestamp:       "2024-12-10T03:00:00Z",
				Merchant:        "Amazon",
				Amount:          200.00,
				TransactionType: "Card-Not-Present",
			}},
			wantClass: model.ClassRequiresAnalysis,
			wantScore: "",
		},
		{
			name: "matching entry inside cooling-off window is ignored",
			history: []model.GenuineAlert{{
				Timestamp:       "2024-12-16T02:00:00Z",
				Merchant:        "Amazon",
				Amount:          50.00,
				TransactionType: "Card-Not-Present",
			}},
			wantClass: model.ClassRequiresAnalysis,
			wantScore: "",
		},
		{
			name: "one strong match among weak entries suffices",
			history: []model.GenuineAlert{
				{
					Timestamp:       "2024-12-01T02:00:00Z",
					Merchant:        "Starbucks",
					Amount:          12.50,
					TransactionType: "Card-Present",
				},
				{
					Timestamp:       "2024-12-10T15:15:00Z",
					Merchant:        "Amazon",
					Amount:          52.00,
					TransactionType: "Card-Not-Present",
				},
			},
			wantClass: model.ClassLikelyGenuine,
			wantScore: model.TierHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corr := CorrelateGenuine(alert, tt.history)
			assert.Equal(t, tt.wantClass, corr.Classification)
			assert.Equal(t, tt.wantScore, corr.ConfidenceScore)
		})
	}
}

func TestAmountWithinBand(t *testing.T) {
	tests := []struct {
		name       string
		current    float64
		historical float64
		want       bool
	}{
		{"exact match", 50.00, 50.00, true},
		{"five percent under", 47.50, 50.00, true},
		{"exactly ten percent over", 55.00, 50.00, true},
		{"fifteen percent over", 57.50, 50.00, false},
		{"zero historical requires zero current", 0.01, 0, false},
		{"both zero", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, amountWithinBand(tt.current, tt.historical))
		})
	}
}

func TestSimilarTimeOfDay(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"same clock time on different days", "2024-12-16T14:30:00Z", "2024-12-10T14:30:00Z", true},
		{"ninety minutes apart", "2024-12-16T14:30:00Z", "2024-12-10T16:00:00Z", true},
		{"three hours apart", "2024-12-16T14:30:00Z", "2024-12-10T17:30:00Z", false},
		{"wraps across midnight", "2024-12-16T23:30:00Z", "2024-12-10T00:30:00Z", true},
		{"unparseable timestamp", "2024-12-16T14:30:00Z", "noon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, similarTimeOfDay(tt.a, tt.b))
		})
	}
}

func TestBuildStage1Prompt(t *testing.T) {
	alert := model.Alert{
		Timestamp:       "2024-12-16T14:30:00Z",
		Merchant:        "Unknown Online Store",
		Amount:          299.99,
		TransactionType: "Card-Not-Present",
	}
	working := []model.GenuineAlert{{
		Timestamp:       "2024-12-10T14:00:00Z",
		Merchant:        "Amazon",
		Amount:          45.99,
		TransactionType: "Card-Not-Present",
	}}

	prompt, err := buildStage1Prompt(alert, working)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Unknown Online Store")
	assert.Contains(t, prompt, "299.99")
	assert.Contains(t, prompt, `"Amazon"`)
	assert.Contains(t, prompt, "+/-10%")
	assert.NotContains(t, prompt, "%%")
	assert.Contains(t, prompt, "at least three of these four attributes")
	assert.True(t, strings.Contains(prompt, "Respond with a JSON object"))
}
