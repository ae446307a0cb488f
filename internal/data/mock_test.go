package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider(t *testing.T) {
	provider := NewMockProvider()
	ctx := context.Background()

	t.Run("genuine alerts", func(t *testing.T) {
		alerts, err := provider.GenuineAlerts(ctx, "user_12345")
		require.NoError(t, err)
		require.Len(t, alerts, 2)
		assert.Equal(t, "Amazon", alerts[0].Merchant)
		assert.InDelta(t, 45.99, alerts[0].Amount, 0.001)
	})

	t.Run("transaction history carries MCC", func(t *testing.T) {
		history, err := provider.TransactionHistory(ctx, "user_12345")
		require.NoError(t, err)
		require.Len(t, history, 2)
		for _, tx := range history {
			assert.NotEmpty(t, tx.MCC)
		}
	})

	t.Run("user profile", func(t *testing.T) {
		profile, err := provider.UserProfile(ctx, "user_12345")
		require.NoError(t, err)
		assert.InDelta(t, 5000.00, profile.CreditLimit, 0.001)
		assert.NotEmpty(t, profile.UserStatus)
	})

	t.Run("risk intelligence", func(t *testing.T) {
		risk, err := provider.RiskIntelligence(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, risk.HighRiskMerchants)
		assert.NotEmpty(t, risk.MCCRiskData)
	})

	t.Run("sop checklist", func(t *testing.T) {
		checklist, err := provider.SOPChecklist(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, checklist)
	})
}
