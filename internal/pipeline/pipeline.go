// Package pipeline implements the three-stage fraud triage analysis: genuine
// alert correlation, behavioral anomaly detection, and comprehensive risk
// assessment, followed by deterministic recommendation synthesis.
//
// Stages run strictly sequentially; stage 3's prompt embeds stage 2's
// structured output. A failed gateway call degrades that stage to its fixed
// fallback result and the run still completes.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/fraudops/alert-triage/internal/data"
	"github.com/fraudops/alert-triage/internal/llm"
	"github.com/fraudops/alert-triage/internal/model"
)

// Pipeline runs the three analysis stages for one alert. It holds no mutable
// state between invocations; independent pipelines may run concurrently.
type Pipeline struct {
	client llm.Client
	data   data.Provider
	logger *slog.Logger
}

// New creates a pipeline with explicit dependencies.
func New(client llm.Client, provider data.Provider, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		client: client,
		data:   provider,
		logger: logger,
	}
}

// Run executes the three stages in order and returns their results. A
// returned error means an internal defect (e.g. a data lookup failed), not a
// backend or parse failure; those are absorbed into the stage results.
func (p *Pipeline) Run(ctx context.Context, alert model.Alert) (model.Analysis, error) {
	stage1, err := p.runStage1(ctx, alert)
	if err != nil {
		return model.Analysis{}, err
	}

	stage2, err := p.runStage2(ctx, alert)
	if err != nil {
		return model.Analysis{}, err
	}

	stage3, err := p.runStage3(ctx, alert, stage2)
	if err != nil {
		return model.Analysis{}, err
	}

	return model.Analysis{
		Stage1: stage1,
		Stage2: stage2,
		Stage3: stage3,
	}, nil
}
