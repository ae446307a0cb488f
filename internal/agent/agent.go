// Package agent wraps the analysis pipeline with lifecycle bookkeeping:
// input validation, execution status, and an in-memory execution history.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fraudops/alert-triage/internal/common"
	"github.com/fraudops/alert-triage/internal/model"
	"github.com/fraudops/alert-triage/internal/pipeline"
)

// Version identifies the prompt specification the pipeline implements.
const Version = "v1.1"

// defaultHistoryLimit bounds the in-memory execution history.
const defaultHistoryLimit = 100

// Runner is the pipeline contract the agent drives. Satisfied by
// *pipeline.Pipeline; tests inject fakes.
type Runner interface {
	Run(ctx context.Context, alert model.Alert) (model.Analysis, error)
}

// Agent executes triage runs and records their lifecycle. An agent is safe
// for concurrent use; each invocation builds its stage results locally and
// only the history list is shared.
type Agent struct {
	createdAt time.Time
	pipeline  Runner
	logger    *slog.Logger
	lastRun   *model.ExecutionRecord
	id        string
	name      string
	status    string
	history   []model.ExecutionRecord
	limit     int
	mu        sync.Mutex
}

// New creates a triage agent driving the given pipeline.
func New(p Runner, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		id:        uuid.NewString(),
		name:      "fraud-triage",
		status:    model.StatusIdle,
		createdAt: time.Now().UTC(),
		pipeline:  p,
		logger:    logger,
		limit:     defaultHistoryLimit,
	}
}

// ValidateAlert checks that the alert carries every required field. A
// validation failure is a distinct outcome from a pipeline failure: no stage
// runs and no execution is recorded.
//
// A zero amount is rejected as missing: after JSON decoding an absent amount
// field and an explicit zero are indistinguishable, and no real transaction
// alert carries a zero amount.
func ValidateAlert(alert model.Alert) error {
	switch {
	case alert.Timestamp == "":
		return fmt.Errorf("%w: timestamp", common.ErrMissingField)
	case alert.Merchant == "":
		return fmt.Errorf("%w: merchant", common.ErrMissingField)
	case alert.Amount == 0:
		return fmt.Errorf("%w: amount", common.ErrMissingField)
	case alert.TransactionType == "":
		return fmt.Errorf("%w: transaction_type", common.ErrMissingField)
	case alert.UserID == "":
		return fmt.Errorf("%w: user_id", common.ErrMissingField)
	}
	return nil
}

// Execute validates the alert, runs the pipeline, synthesizes the final
// recommendation, and records the run. Callers always receive a well-formed
// ExecutionResult; any pipeline error is converted to a failed result here
// rather than propagated.
func (a *Agent) Execute(ctx context.Context, alert model.Alert) model.ExecutionResult {
	result, _ := a.ExecuteRecorded(ctx, alert)
	return result
}

// ExecuteRecorded runs Execute and additionally returns this run's finalized
// execution record, or nil when validation rejected the alert before an
// execution started. Each caller gets its own record, so concurrent runs can
// be persisted independently without consulting the shared history.
func (a *Agent) ExecuteRecorded(ctx context.Context, alert model.Alert) (model.ExecutionResult, *model.ExecutionRecord) {
	if err := ValidateAlert(alert); err != nil {
		return model.ExecutionResult{
			Status: model.StatusFailed,
			Error:  err.Error(),
		}, nil
	}

	record := a.startExecution(alert)
	started := time.Now()

	analysis, err := a.pipeline.Run(ctx, alert)
	if err != nil {
		errMsg := fmt.Sprintf("triage analysis failed: %v", err)
		a.logger.Error("execution failed", "execution_id", record.ID, "error", err)
		record = a.failExecution(record, errMsg)
		return model.ExecutionResult{Status: model.StatusFailed, Error: errMsg}, &record
	}

	recommendation := pipeline.Synthesize(analysis.Stage1, analysis.Stage2, analysis.Stage3)
	result := model.ExecutionResult{
		Status:              model.StatusCompleted,
		Analysis:            &analysis,
		FinalRecommendation: &recommendation,
		Version:             Version,
		ExecutionTimeMs:     float64(time.Since(started).Microseconds()) / 1000.0,
	}

	record = a.completeExecution(record, result)
	a.logger.Info("execution completed",
		"execution_id", record.ID,
		"classification", recommendation.FinalClassification,
		"risk_score", recommendation.OverallRiskScore)
	return result, &record
}

// startExecution transitions the agent to running and snapshots the input.
func (a *Agent) startExecution(alert model.Alert) model.ExecutionRecord {
	record := model.ExecutionRecord{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Status:    model.StatusRunning,
		Input:     alert,
	}

	a.mu.Lock()
	a.status = model.StatusRunning
	a.lastRun = &record
	a.mu.Unlock()
	return record
}

// completeExecution finalizes a successful run, appends it to history, and
// returns the finalized record.
func (a *Agent) completeExecution(record model.ExecutionRecord, result model.ExecutionResult) model.ExecutionRecord {
	now := time.Now().UTC()
	record.CompletedAt = &now
	record.Status = model.StatusCompleted
	record.Output = &result

	a.mu.Lock()
	a.status = model.StatusCompleted
	a.lastRun = &record
	a.appendLocked(record)
	a.mu.Unlock()
	return record
}

// failExecution finalizes a failed run, appends it to history, and returns
// the finalized record.
func (a *Agent) failExecution(record model.ExecutionRecord, errMsg string) model.ExecutionRecord {
	now := time.Now().UTC()
	record.CompletedAt = &now
	record.Status = model.StatusFailed
	record.Error = errMsg

	a.mu.Lock()
	a.status = model.StatusFailed
	a.lastRun = &record
	a.appendLocked(record)
	a.mu.Unlock()
	return record
}

func (a *Agent) appendLocked(record model.ExecutionRecord) {
	a.history = append(a.history, record)
	if len(a.history) > a.limit {
		a.history = a.history[len(a.history)-a.limit:]
	}
}

// Status describes the agent for the status endpoint.
type Status struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Status         string                 `json:"status"`
	Version        string                 `json:"version"`
	CreatedAt      time.Time              `json:"created_at"`
	LastExecution  *model.ExecutionRecord `json:"last_execution,omitempty"`
	ExecutionCount int                    `json:"execution_count"`
}

// Status returns a snapshot of the agent's identity and lifecycle state.
func (a *Agent) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{
		ID:             a.id,
		Name:           a.name,
		Status:         a.status,
		Version:        Version,
		CreatedAt:      a.createdAt,
		LastExecution:  a.lastRun,
		ExecutionCount: len(a.history),
	}
}

// History returns up to n most recent execution records, newest last.
func (a *Agent) History(n int) []model.ExecutionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n <= 0 || n > len(a.history) {
		n = len(a.history)
	}
	out := make([]model.ExecutionRecord, n)
	copy(out, a.history[len(a.history)-n:])
	return out
}
