package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fraudops/alert-triage/internal/agent"
	"github.com/fraudops/alert-triage/internal/common"
	"github.com/fraudops/alert-triage/internal/data"
	"github.com/fraudops/alert-triage/internal/model"
	"github.com/fraudops/alert-triage/internal/pipeline"
)

// smokeAlert is the fixed sample alert used for smoke-testing the pipeline
// end to end without crafting inputs.
var smokeAlert = model.Alert{
	Timestamp:       "2024-12-16T14:30:00Z",
	Merchant:        "Unknown Online Store",
	Amount:          299.99,
	TransactionType: "Card-Not-Present",
	UserID:          "user_12345",
	AlertID:         "alert_67890",
}

func smokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the pipeline against a built-in sample alert",
		Long: `Run the full triage pipeline against a fixed sample alert.

Useful for verifying backend connectivity and prompt handling; with no
backend configured the run completes on per-stage fallbacks.`,
		RunE: runSmoke,
	}
	cmd.Flags().Bool("json", false, "print the raw execution result as JSON")
	return cmd
}

func runSmoke(cmd *cobra.Command, _ []string) error {
	client, err := createLLMClient()
	if err != nil {
		return common.NewUserError("failed to configure inference backend", err)
	}

	a := agent.New(pipeline.New(client, data.NewMockProvider(), slog.Default()), slog.Default())
	result := a.Execute(cmd.Context(), smokeAlert)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(result)
	}

	printResult(smokeAlert, result)
	if result.Status == model.StatusFailed {
		return fmt.Errorf("smoke run failed: %s", result.Error)
	}
	return nil
}
