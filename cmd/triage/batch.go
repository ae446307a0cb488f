package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/fraudops/alert-triage/internal/agent"
	"github.com/fraudops/alert-triage/internal/cli"
	"github.com/fraudops/alert-triage/internal/common"
	"github.com/fraudops/alert-triage/internal/data"
	"github.com/fraudops/alert-triage/internal/model"
	"github.com/fraudops/alert-triage/internal/pipeline"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <alerts.json>",
		Short: "Triage a file of alerts and summarize by priority",
		Long: `Run the triage pipeline over a JSON array of alerts.

Each alert is processed sequentially through all three stages. Individual
backend failures degrade to fallback analyses rather than aborting the
batch; only invalid alerts are counted as errors.`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}
	cmd.Flags().String("output", "", "write per-alert execution results to a JSON file")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("cannot read alerts file %s", args[0]), err)
	}

	var alerts []model.Alert
	if err := json.Unmarshal(raw, &alerts); err != nil {
		return common.NewUserError("alerts file must contain a JSON array of alerts", err)
	}
	if len(alerts) == 0 {
		return common.NewUserError("alerts file contains no alerts", nil)
	}

	client, err := createLLMClient()
	if err != nil {
		return common.NewUserError("failed to configure inference backend", err)
	}

	a := agent.New(pipeline.New(client, data.NewMockProvider(), slog.Default()), slog.Default())

	bar := progressbar.NewOptions(len(alerts),
		progressbar.OptionSetDescription("Triaging alerts"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)

	results := make([]model.ExecutionResult, 0, len(alerts))
	tiers := make(map[string]int)
	var failed int

	for _, alert := range alerts {
		result := a.Execute(cmd.Context(), alert)
		results = append(results, result)

		if result.Status == model.StatusFailed {
			failed++
		} else if result.FinalRecommendation != nil {
			tiers[result.FinalRecommendation.FinalClassification]++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		encoded, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode batch results: %w", err)
		}
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			return common.NewUserError(fmt.Sprintf("cannot write results to %s", outPath), err)
		}
	}

	printBatchSummary(len(alerts), failed, tiers)
	return nil
}

func printBatchSummary(total, failed int, tiers map[string]int) {
	fmt.Println()
	fmt.Println(cli.TitleStyle.Render("Batch Triage Summary"))
	fmt.Printf("  Alerts processed: %d\n", total)
	for _, priority := range []string{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		if count := tiers[priority]; count > 0 {
			fmt.Printf("  %s: %d\n", cli.PriorityStyle(priority).Render(priority), count)
		}
	}
	if failed > 0 {
		fmt.Printf("  %s: %d\n", cli.ErrorStyle.Render("Failed"), failed)
	}
}
