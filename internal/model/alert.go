// Package model defines the core domain models used throughout the application.
package model

// Alert represents a single transaction event flagged for fraud triage.
// It is created by the caller and read-only for all analysis stages.
type Alert struct {
	Timestamp       string  `json:"timestamp"`
	Merchant        string  `json:"merchant"`
	TransactionType string  `json:"transaction_type"`
	UserID          string  `json:"user_id"`
	AlertID         string  `json:"alert_id,omitempty"`
	Amount          float64 `json:"amount"`
}

// GenuineAlert is a historical alert confirmed genuine by a prior review.
type GenuineAlert struct {
	Timestamp       string  `json:"timestamp"`
	Merchant        string  `json:"merchant"`
	TransactionType string  `json:"transaction_type"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
}

// HistoryTransaction is one entry from the user's 3-month transaction history.
type HistoryTransaction struct {
	Timestamp       string  `json:"timestamp"`
	Merchant        string  `json:"merchant"`
	TransactionType string  `json:"transaction_type"`
	MCC             string  `json:"mcc"`
	Amount          float64 `json:"amount"`
}

// UserProfile holds the account attributes consulted during risk assessment.
type UserProfile struct {
	UserStatus          string  `json:"user_status"`
	CreditLimit         float64 `json:"credit_limit"`
	OutstandingBalance  float64 `json:"outstanding_balance"`
	AccountAgeMonths    int     `json:"account_age_months"`
	AverageMonthlySpend float64 `json:"average_monthly_spend"`
}

// RiskIntelligence holds the static risk lookup lists for stage 3.
type RiskIntelligence struct {
	MCCRiskData       map[string]string `json:"mcc_risk_data"`
	HighRiskMerchants []string          `json:"high_risk_merchants"`
	HighRiskCountries []string          `json:"high_risk_countries"`
	RiskyCurrencies   []string          `json:"risky_currencies"`
}
