package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fraudops/alert-triage/internal/model"
)

// runStage3 executes the comprehensive risk assessment stage. Its prompt has
// a hard data dependency on stage 2's structured output; stage 1 is a
// deliberately independent signal consumed only by the synthesizer.
func (p *Pipeline) runStage3(ctx context.Context, alert model.Alert, stage2 model.Stage2Result) (model.Stage3Result, error) {
	profile, err := p.data.UserProfile(ctx, alert.UserID)
	if err != nil {
		return model.Stage3Result{}, fmt.Errorf("failed to load user profile: %w", err)
	}
	risk, err := p.data.RiskIntelligence(ctx)
	if err != nil {
		return model.Stage3Result{}, fmt.Errorf("failed to load risk intelligence: %w", err)
	}
	checklist, err := p.data.SOPChecklist(ctx)
	if err != nil {
		return model.Stage3Result{}, fmt.Errorf("failed to load SOP checklist: %w", err)
	}

	prompt, err := buildStage3Prompt(alert, stage2, profile, risk, checklist)
	if err != nil {
		return model.Stage3Result{}, err
	}

	raw, err := p.client.Generate(ctx, prompt)
	if err != nil {
		p.logger.Warn("stage 3 generation failed, using fallback", "error", err)
		return fallbackStage3(), nil
	}
	return decodeStage3(raw), nil
}

// buildStage3Prompt renders the v1.1 risk assessment prompt: alert details,
// the preceding behavioral assessment, user profile, risk intelligence, and
// the SOP checklist applied strictly by the model.
func buildStage3Prompt(alert model.Alert, stage2 model.Stage2Result, profile model.UserProfile, risk model.RiskIntelligence, checklist []string) (string, error) {
	checklistJSON, err := json.MarshalIndent(checklist, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode SOP checklist: %w", err)
	}

	return fmt.Sprintf(`You are a financial fraud analysis AI assistant. Analyze the following alert details and associated data to provide a structured risk assessment.
Consider the preceding Behavioral Anomaly Assessment.

ALERT DETAILS:
- Merchant: %s
- Transaction Amount: %v
- Transaction Type: %s
- Timestamp: %s

BEHAVIORAL ANOMALY ASSESSMENT (from previous analysis step - Rule 2):
- Anomaly Rating: %s
- Key Anomalous Observations: %v
- Behavioral Summary: %s

USER PROFILE & HISTORY:
- Credit Limit: %v
- Outstanding Balance: %v
- User Status: %s

RISK INTELLIGENCE DATA:
- High-Risk Merchants: %v
- High-Risk Countries: %v
- Risky Currencies For User: %v
- MCC Risk Data: %v

STANDARD OPERATING PROCEDURE (SOP) - CHECKLIST FOR ANALYSIS (Rules 3, 4, 5):
Please perform the following checks and use your findings, along with the behavioral anomaly assessment, to inform your overall assessment:
%s

TASK:
1. Analyze this alert and associated data based *strictly* on the SOP checklist provided above, considering the prior behavioral anomaly assessment.
2. Determine the risk level on a scale of 1-10 (1=Very Low, 10=Very High).
3. Provide your analysis in a structured format.

Format your response as a JSON object with these fields:
- 'keyFindings' (array of strings, 3-4 main issues or concerns based on SOP checks and behavioral context)
- 'riskFactors' (array of strings, specific risk factors identified from SOP checks and behavioral context)
- 'recommendations' (array of strings, 2-3 recommended actions for the analyst)
- 'riskRating' (number from 1-10)
- 'htmlContent' (HTML Preview of final result in below structured format)
    - display numeric circular icon with rating number in it with background as per the rating number and align it horizontally centered
    - list all key findings with bullet points - keep heading with h4 size black and bold and bullet points in small text size
    - list all recommendations with bullet points - keep heading with h4 size black and bold and bullet points in small text size
    - list all riskFactors with bullet points - keep heading with h4 size black and bold and bullet points in small text size
    - don't add any extra heading and all except above mentioned points

{
  "keyFindings": ["finding1", "finding2", ...],
  "riskFactors": ["factor1", "factor2", ...],
  "recommendations": ["rec1", "rec2", ...],
  "riskRating": 1-10,
  "htmlContent": "HTML Preview of final result"
}`,
		alert.Merchant, alert.Amount, alert.TransactionType, alert.Timestamp,
		stage2.AnomalyRating, stage2.KeyAnomalousObservations, stage2.BehavioralSummary,
		profile.CreditLimit, profile.OutstandingBalance, profile.UserStatus,
		risk.HighRiskMerchants, risk.HighRiskCountries, risk.RiskyCurrencies, risk.MCCRiskData,
		checklistJSON), nil
}
