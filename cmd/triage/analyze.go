package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fraudops/alert-triage/internal/agent"
	"github.com/fraudops/alert-triage/internal/cli"
	"github.com/fraudops/alert-triage/internal/common"
	"github.com/fraudops/alert-triage/internal/data"
	"github.com/fraudops/alert-triage/internal/model"
	"github.com/fraudops/alert-triage/internal/pipeline"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Triage a single transaction alert",
		Long: `Run the three-stage triage pipeline for one transaction alert.

The alert can be supplied either as a JSON file or with individual flags.

Examples:
  # Alert from a file
  triage analyze --file alert.json

  # Alert from flags
  triage analyze --merchant "Unknown Online Store" --amount 299.99 \
    --type Card-Not-Present --user user_12345 --timestamp 2024-12-16T14:30:00Z

  # Raw JSON output
  triage analyze --file alert.json --json`,
		RunE: runAnalyze,
	}

	cmd.Flags().String("file", "", "JSON file containing the alert")
	cmd.Flags().String("timestamp", "", "alert timestamp (RFC 3339)")
	cmd.Flags().String("merchant", "", "merchant name")
	cmd.Flags().Float64("amount", 0, "transaction amount")
	cmd.Flags().String("type", "", "transaction type (Card-Present, Card-Not-Present)")
	cmd.Flags().String("user", "", "user id")
	cmd.Flags().String("alert-id", "", "optional alert id")
	cmd.Flags().Bool("json", false, "print the raw execution result as JSON")

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	alert, err := alertFromFlags(cmd)
	if err != nil {
		return err
	}

	if err := agent.ValidateAlert(alert); err != nil {
		return common.NewUserError("alert is incomplete", err)
	}

	client, err := createLLMClient()
	if err != nil {
		return common.NewUserError("failed to configure inference backend", err)
	}

	a := agent.New(pipeline.New(client, data.NewMockProvider(), slog.Default()), slog.Default())
	result := a.Execute(cmd.Context(), alert)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(result)
	}

	printResult(alert, result)
	if result.Status == model.StatusFailed {
		return fmt.Errorf("triage failed: %s", result.Error)
	}
	return nil
}

// alertFromFlags builds the alert from --file or the individual flags.
func alertFromFlags(cmd *cobra.Command) (model.Alert, error) {
	var alert model.Alert

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		raw, err := os.ReadFile(file) // #nosec G304 -- user-supplied path is the point
		if err != nil {
			return alert, fmt.Errorf("failed to read alert file: %w", err)
		}
		if err := json.Unmarshal(raw, &alert); err != nil {
			return alert, fmt.Errorf("failed to parse alert file: %w", err)
		}
		return alert, nil
	}

	alert.Timestamp, _ = cmd.Flags().GetString("timestamp")
	alert.Merchant, _ = cmd.Flags().GetString("merchant")
	alert.Amount, _ = cmd.Flags().GetFloat64("amount")
	alert.TransactionType, _ = cmd.Flags().GetString("type")
	alert.UserID, _ = cmd.Flags().GetString("user")
	alert.AlertID, _ = cmd.Flags().GetString("alert-id")
	return alert, nil
}

func printJSON(result model.ExecutionResult) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printResult renders a styled triage report.
func printResult(alert model.Alert, result model.ExecutionResult) {
	fmt.Println(cli.TitleStyle.Render("Fraud Alert Triage"))
	fmt.Printf("%s %s · %.2f · %s\n\n",
		cli.BoldStyle.Render(alert.Merchant),
		cli.SubtleStyle.Render(alert.Timestamp),
		alert.Amount,
		alert.TransactionType)

	if result.Status == model.StatusFailed {
		fmt.Println(cli.ErrorStyle.Render("✗ " + result.Error))
		return
	}

	rec := result.FinalRecommendation
	var b strings.Builder
	b.WriteString(cli.PriorityStyle(rec.FinalClassification).Render(rec.FinalClassification))
	b.WriteString(fmt.Sprintf("\nRisk score: %d/10 · Confidence: %s\n", rec.OverallRiskScore, rec.ConfidenceLevel))

	b.WriteString("\nNext actions:\n")
	for i, action := range rec.NextActions {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, action))
	}

	analysis := result.Analysis
	b.WriteString("\nStage summaries:\n")
	b.WriteString(stageLine("1. Correlation", analysis.Stage1.Classification, analysis.Stage1.Error))
	b.WriteString(stageLine("2. Behavior", analysis.Stage2.AnomalyRating+" anomaly", analysis.Stage2.Error))
	b.WriteString(stageLine("3. Risk", fmt.Sprintf("rating %d", analysis.Stage3.RiskRating), analysis.Stage3.Error))

	fmt.Println(cli.BoxStyle.Render(b.String()))
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("completed in %.1fms", result.ExecutionTimeMs)))
}

func stageLine(label, summary, errMsg string) string {
	if errMsg != "" {
		return fmt.Sprintf("  %s: %s\n", label, cli.WarningStyle.Render("unparseable model output"))
	}
	return fmt.Sprintf("  %s: %s\n", label, summary)
}
