package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fraudops/alert-triage/internal/model"
)

// runStage2 executes the behavioral anomaly detection stage.
func (p *Pipeline) runStage2(ctx context.Context, alert model.Alert) (model.Stage2Result, error) {
	history, err := p.data.TransactionHistory(ctx, alert.UserID)
	if err != nil {
		return model.Stage2Result{}, fmt.Errorf("failed to load transaction history: %w", err)
	}

	prompt, err := buildStage2Prompt(alert, history)
	if err != nil {
		return model.Stage2Result{}, err
	}

	raw, err := p.client.Generate(ctx, prompt)
	if err != nil {
		p.logger.Warn("stage 2 generation failed, using fallback", "error", err)
		return fallbackStage2(), nil
	}
	return decodeStage2(raw), nil
}

// buildStage2Prompt renders the v1.1 behavioral analysis prompt covering the
// four check dimensions: merchant, amount, time/frequency, transaction type.
func buildStage2Prompt(alert model.Alert, history []model.HistoryTransaction) (string, error) {
	historyJSON, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode transaction history: %w", err)
	}

	return fmt.Sprintf(`You are an AI assistant specializing in detecting behavioral anomalies in financial transactions.
Analyze the CURRENT TRANSACTION ALERT by comparing it against the USER'S TRANSACTION HISTORY from the past 3 months.

CURRENT TRANSACTION ALERT:
- Timestamp: %s
- Merchant: %s
- Transaction Amount: %v
- Transaction Type: %s

USER'S TRANSACTION HISTORY (Past 3 Months):
%s

TASK:
Based on the provided data, perform the following behavioral checks and provide your assessment:
1.  **Merchant Analysis:**
    * Is the current merchant new for the user compared to the 3-month history?
    * Is the current MCC unusual or a first-time MCC for the user in the last 3 months?
    * If the merchant is not new, is the transaction frequency or amount for this merchant significantly different from past patterns with this merchant?
2.  **Transaction Amount Analysis:**
    * Is the current transaction amount significantly higher or lower than the user's average transaction amount in the last 3 months?
    * Is the amount unusual for this specific MCC based on the user's history with this MCC?
3.  **Time & Frequency Analysis:**
    * Does the time of day/day of week of the current transaction deviate significantly from the user's established patterns in the last 3 months?
    * Is the overall transaction frequency (e.g., multiple transactions today if unusual) notably different from the user's norm?
4.  **Transaction Type Analysis:**
    * Is the current transaction type (e.g., Card-Not-Present vs. Card-Present) a deviation from the user's typical transaction types in the last 3 months?

Based on your analysis of the above points, provide:
- An overall 'anomalyRating' (Low, Medium, High).
- A list of 'keyAnomalousObservations' (bullet points of specific deviations found).
- A 'behavioralSummary' (a brief narrative summarizing how the current transaction compares to the user's 3-month historical behavior).
- Classify the CURRENT TRANSACTION ALERT as either 'Likely Genuine' or 'Requires Further Analysis'.
- Provide a HTML preview code with
    - Heading of Anomaly Rating with h4 size and black color with bold style and provide text color to rating word with green or yellow or red based on
      the rating
    - Provide all key observations in bullet points one by one in small text size
    - Provide the behavioral summary at the end with italic style and small text size

Respond with a JSON object:
{
  "classification": "Likely Genuine" | "Requires Further Analysis",
  "anomalyRating": "Low" | "Medium" | "High",
  "keyAnomalousObservations": ["string observation 1", "string observation 2", ...],
  "behavioralSummary": "A brief summary.",
  "htmlContent": "HTML Preview of final result"
}`,
		alert.Timestamp, alert.Merchant, alert.Amount, alert.TransactionType,
		historyJSON), nil
}
