package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/fraudops/alert-triage/internal/model"
)

// Stage-1 correlation constants, fixed by the v1.1 prompt specification.
// Treat as configuration; do not alter the defaults without confirming
// against that document.
const (
	// CoolingOffPeriod excludes very recent genuine alerts from the
	// comparison set to avoid false reinforcement from near-simultaneous
	// activity.
	CoolingOffPeriod = 24 * time.Hour

	// AmountMatchBand is the relative tolerance for an amount match.
	AmountMatchBand = 0.10

	// AttributeMatchThreshold is the minimum number of matching attributes
	// (of four) against a single genuine entry for a Likely Genuine call.
	AttributeMatchThreshold = 3

	// GenuineLookbackDays bounds the genuine-alert history window.
	GenuineLookbackDays = 30

	// timeOfDayWindow is the clock-time tolerance for a timestamp match,
	// wrapping across midnight.
	timeOfDayWindow = 2 * time.Hour
)

// AttributeMatch records which of the four comparison attributes the current
// alert shares with one historical genuine entry.
type AttributeMatch struct {
	Entry     model.GenuineAlert
	Merchant  bool
	Type      bool
	Amount    bool
	Timestamp bool
}

// Count returns the number of matching attributes.
func (m AttributeMatch) Count() int {
	n := 0
	for _, ok := range []bool{m.Merchant, m.Type, m.Amount, m.Timestamp} {
		if ok {
			n++
		}
	}
	return n
}

// Correlation is the deterministic pre-screen of the current alert against
// the cooled-off genuine-alert history.
type Correlation struct {
	Classification  string
	ConfidenceScore string
	Working         []model.GenuineAlert
	Matches         []AttributeMatch
}

// FilterCooledOff applies the cooling-off rule: keep only genuine alerts
// whose timestamp is strictly more than 24 hours before the current alert.
// Entries with unparseable timestamps are excluded from the comparison set.
func FilterCooledOff(alert model.Alert, history []model.GenuineAlert) []model.GenuineAlert {
	alertTime, err := time.Parse(time.RFC3339, alert.Timestamp)
	if err != nil {
		return nil
	}

	var working []model.GenuineAlert
	for _, entry := range history {
		entryTime, err := time.Parse(time.RFC3339, entry.Timestamp)
		if err != nil {
			continue
		}
		if alertTime.Sub(entryTime) > CoolingOffPeriod {
			working = append(working, entry)
		}
	}
	return working
}

// CorrelateGenuine runs the two-step filter-then-compare rule: build the
// cooled-off working dataset, compare the alert against each retained entry
// across merchant, transaction type, amount (±10%) and time-of-day, and
// classify Likely Genuine with High confidence when at least three of the
// four attributes match any single entry.
func CorrelateGenuine(alert model.Alert, history []model.GenuineAlert) Correlation {
	corr := Correlation{
		Classification: model.ClassRequiresAnalysis,
		Working:        FilterCooledOff(alert, history),
	}

	for _, entry := range corr.Working {
		match := AttributeMatch{
			Entry:     entry,
			Merchant:  alert.Merchant == entry.Merchant,
			Type:      alert.TransactionType == entry.TransactionType,
			Amount:    amountWithinBand(alert.Amount, entry.Amount),
			Timestamp: similarTimeOfDay(alert.Timestamp, entry.Timestamp),
		}
		corr.Matches = append(corr.Matches, match)
		if match.Count() >= AttributeMatchThreshold {
			corr.Classification = model.ClassLikelyGenuine
			corr.ConfidenceScore = model.TierHigh
		}
	}
	return corr
}

// amountWithinBand reports whether current is within ±10% of historical.
func amountWithinBand(current, historical float64) bool {
	if historical == 0 {
		return current == 0
	}
	return math.Abs(current-historical) <= AmountMatchBand*math.Abs(historical)
}

// similarTimeOfDay reports whether two timestamps fall within the same
// time-of-day window, wrapping across midnight.
func similarTimeOfDay(a, b string) bool {
	ta, err := time.Parse(time.RFC3339, a)
	if err != nil {
		return false
	}
	tb, err := time.Parse(time.RFC3339, b)
	if err != nil {
		return false
	}

	secA := ta.Hour()*3600 + ta.Minute()*60 + ta.Second()
	secB := tb.Hour()*3600 + tb.Minute()*60 + tb.Second()
	diff := secA - secB
	if diff < 0 {
		diff = -diff
	}
	if diff > 43200 {
		diff = 86400 - diff
	}
	return time.Duration(diff)*time.Second <= timeOfDayWindow
}

// runStage1 executes the genuine-alert correlation stage.
func (p *Pipeline) runStage1(ctx context.Context, alert model.Alert) (model.Stage1Result, error) {
	history, err := p.data.GenuineAlerts(ctx, alert.UserID)
	if err != nil {
		return model.Stage1Result{}, fmt.Errorf("failed to load genuine alerts: %w", err)
	}

	corr := CorrelateGenuine(alert, history)
	p.logger.Debug("stage 1 pre-screen",
		"user_id", alert.UserID,
		"working_set", len(corr.Working),
		"classification", corr.Classification)

	prompt, err := buildStage1Prompt(alert, corr.Working)
	if err != nil {
		return model.Stage1Result{}, err
	}

	raw, err := p.client.Generate(ctx, prompt)
	if err != nil {
		p.logger.Warn("stage 1 generation failed, using fallback", "error", err)
		return fallbackStage1(), nil
	}
	return decodeStage1(raw), nil
}

// buildStage1Prompt renders the v1.1 correlation prompt. The working dataset
// has already been cooled off; the two-step task text is kept so the model
// reasons over the same rule the pre-screen applied.
func buildStage1Prompt(alert model.Alert, working []model.GenuineAlert) (string, error) {
	workingJSON, err := json.MarshalIndent(working, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode genuine alerts: %w", err)
	}

	return fmt.Sprintf(`You are a financial fraud analysis AI assistant specializing in identifying genuine transaction patterns.
Analyze the CURRENT TRANSACTION ALERT:
- Timestamp: %s
- Merchant: %s
- Amount: %v
- Transaction Type: %s

Compare it against the following RECENTLY CONFIRMED GENUINE ALERTS (last %d days) for this user/segment:
%s

TASK:
1.Perform Similarity Analysis (Two-Step Process):
Step 1: Create a Filtered Working Dataset from Genuine Alerts.
Action: From the provided list named "RECENTLY CONFIRMED GENUINE ALERTS", you must create a new, temporary dataset.
Inclusion Criteria: This new dataset should only contain transactions from the original list whose Timestamp is older than 24 hours from the current Timestamp.
Step 2: Compare Against the Filtered Dataset.
Source: Use the filtered working dataset you created in Step 1.
Action: Compare the "CURRENT TRANSACTION ALERT" against each transaction in your working dataset.
Comparison Attributes & Rule: A high degree of similarity is determined by matching the following attributes. If at least three of these four attributes match a single genuine transaction, classify the alert as 'Likely Genuine' with 'High' confidence:
-Merchant
-Transaction Type
-Amount (must be within a +/-10%% range)
-Timestamp
2. Classify the CURRENT TRANSACTION ALERT as either 'Likely Genuine' or 'Requires Further Analysis'.
3. If 'Likely Genuine', provide a confidence score (High, Medium, Low) and a brief rationale (e.g., 'Matches 3 out of 4 key attributes with genuine transaction X from %d days ago').
4. Provide a HTML preview code with
    - Classification heading in it with h4 size and start from left alignment and with respective red and green color
    - Tabular format with check marks of acceptance and rejection with full width used in medium font size and keep background of table as white and border as black and add a comparison column with tick mark icon in it for matched status and use Attribute, Current Transaction, Recent Genuine Transaction, Comparison Status columns
    - Add respective danger and acceptance color and styling in it with either red color or green color
    - Don't provide any note in HTML Preview
Respond with a JSON object:
{
  "classification": "Likely Genuine" | "Requires Further Analysis",
  "confidenceScore": "High" | "Medium" | "Low" | null,
  "rationale": "brief explanation" | null,
  "htmlContent": "HTML Preview of final result"
}`,
		alert.Timestamp, alert.Merchant, alert.Amount, alert.TransactionType,
		GenuineLookbackDays, workingJSON, GenuineLookbackDays), nil
}
