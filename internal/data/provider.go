// Package data defines the read-only lookups that supply historical context
// to the analysis stages. The shipped implementation serves fixed datasets;
// a production deployment would back these with database queries.
package data

import (
	"context"

	"github.com/fraudops/alert-triage/internal/model"
)

// Provider supplies the per-stage auxiliary inputs: genuine-alert history for
// stage 1, transaction history for stage 2, and profile plus risk
// intelligence plus the SOP checklist for stage 3.
type Provider interface {
	GenuineAlerts(ctx context.Context, userID string) ([]model.GenuineAlert, error)
	TransactionHistory(ctx context.Context, userID string) ([]model.HistoryTransaction, error)
	UserProfile(ctx context.Context, userID string) (model.UserProfile, error)
	RiskIntelligence(ctx context.Context) (model.RiskIntelligence, error)
	SOPChecklist(ctx context.Context) ([]string, error)
}
