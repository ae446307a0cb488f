package data

import (
	"context"

	"github.com/fraudops/alert-triage/internal/model"
)

// MockProvider serves the documented sample datasets. It stands in for the
// database collaborator, which is out of scope for the core pipeline.
type MockProvider struct{}

// NewMockProvider creates a provider backed by fixed sample data.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// GenuineAlerts returns recent confirmed-genuine alerts for the user. The
// cooling-off filter is applied later by the correlation stage, not here.
func (p *MockProvider) GenuineAlerts(_ context.Context, _ string) ([]model.GenuineAlert, error) {
	return []model.GenuineAlert{
		{
			Timestamp:       "2024-12-14T10:30:00Z",
			Merchant:        "Amazon",
			Amount:          45.99,
			TransactionType: "Card-Not-Present",
			Status:          "genuine",
		},
		{
			Timestamp:       "2024-12-13T15:45:00Z",
			Merchant:        "Starbucks",
			Amount:          12.50,
			TransactionType: "Card-Present",
			Status:          "genuine",
		},
	}, nil
}

// TransactionHistory returns the user's 3-month transaction history.
func (p *MockProvider) TransactionHistory(_ context.Context, _ string) ([]model.HistoryTransaction, error) {
	return []model.HistoryTransaction{
		{
			Timestamp:       "2024-12-10T09:15:00Z",
			Merchant:        "Amazon",
			Amount:          67.89,
			TransactionType: "Card-Not-Present",
			MCC:             "5399",
		},
		{
			Timestamp:       "2024-12-09T12:30:00Z",
			Merchant:        "Starbucks",
			Amount:          8.75,
			TransactionType: "Card-Present",
			MCC:             "5814",
		},
	}, nil
}

// UserProfile returns the user's account attributes.
func (p *MockProvider) UserProfile(_ context.Context, _ string) (model.UserProfile, error) {
	return model.UserProfile{
		CreditLimit:         5000.00,
		OutstandingBalance:  1250.00,
		UserStatus:          "Active",
		AccountAgeMonths:    24,
		AverageMonthlySpend: 800.00,
	}, nil
}

// RiskIntelligence returns the static risk lookup lists.
func (p *MockProvider) RiskIntelligence(_ context.Context) (model.RiskIntelligence, error) {
	return model.RiskIntelligence{
		HighRiskMerchants: []string{"SuspiciousMerchant1", "FraudulentStore2"},
		HighRiskCountries: []string{"Country1", "Country2"},
		RiskyCurrencies:   []string{"Currency1"},
		MCCRiskData: map[string]string{
			"5399": "Medium Risk",
			"5814": "Low Risk",
		},
	}, nil
}

// SOPChecklist returns the fixed ordered audit rules applied during risk
// assessment. The 30-day cumulative utilization figure is pre-computed
// context embedded in the checklist text.
func (p *MockProvider) SOPChecklist(_ context.Context) ([]string, error) {
	return []string{
		"Calculate Transaction-Level Credit Utilization: (Current Transaction Amount / Total Credit Limit) * 100. Is this > 70.0%? If so, note as 'High Transaction Credit Utilization'.",
		"Analyze 30 days Total Cumulative Utilization: 30.0%",
		"Analyze Repayment History: Are there frequent late payments, payments of only minimum amount due, or history of defaults/collections? Note any negative patterns.",
		"Consider User Status Classification (Transactor): How does this transaction align with the typical behavior of a Transactor (e.g., a large purchase by an 'Infrequent User' might be more notable)?",
		"Is the transaction merchant present in the provided High-Risk Merchant List?",
		"Analyze Merchant Attributes for Risk:",
		"  - Merchant Location/Country: Is the merchant in a known high-risk country?",
		"  - Transaction Currency: Is the transaction currency unusual for the user or commonly associated with fraud?",
		"  - MCC Risk: Is the MCC inherently high-risk (e.g., money transfers, gambling) or recently associated with fraud trends?",
	}, nil
}
