// Package storage persists execution records to SQLite. It is the database
// collaborator behind the in-memory execution history: the serve path records
// every run so history survives process restarts.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fraudops/alert-triage/internal/common"
	"github.com/fraudops/alert-triage/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ExecutionStore implements execution-record persistence using SQLite.
type ExecutionStore struct {
	db     *sql.DB
	dbPath string
}

// NewExecutionStore creates a new SQLite-backed execution store.
func NewExecutionStore(dbPath string) (*ExecutionStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: dbPath", common.ErrMissingConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &ExecutionStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *ExecutionStore) Close() error {
	return s.db.Close()
}

// SaveExecution persists one finalized execution record.
func (s *ExecutionStore) SaveExecution(ctx context.Context, record model.ExecutionRecord) error {
	input, err := json.Marshal(record.Input)
	if err != nil {
		return fmt.Errorf("failed to encode input snapshot: %w", err)
	}

	var output []byte
	if record.Output != nil {
		output, err = json.Marshal(record.Output)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	}

	var completedAt *time.Time
	if record.CompletedAt != nil {
		completedAt = record.CompletedAt
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO executions (id, status, started_at, completed_at, input_data, output_data, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Status, record.StartedAt, completedAt, string(input), string(output), record.Error)
	if err != nil {
		return fmt.Errorf("failed to save execution: %w", err)
	}
	return nil
}

// GetExecution retrieves one execution record by id.
func (s *ExecutionStore) GetExecution(ctx context.Context, id string) (*model.ExecutionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, started_at, completed_at, input_data, output_data, error
		FROM executions WHERE id = ?`, id)

	record, err := scanExecution(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("execution %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return record, nil
}

// ListExecutions returns up to limit most recent execution records, newest first.
func (s *ExecutionStore) ListExecutions(ctx context.Context, limit int) ([]model.ExecutionRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, started_at, completed_at, input_data, output_data, error
		FROM executions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ExecutionRecord
	for rows.Next() {
		record, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate executions: %w", err)
	}
	return records, nil
}

// CountExecutions returns the total number of persisted executions.
func (s *ExecutionStore) CountExecutions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM executions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count executions: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanExecution.
type scanner interface {
	Scan(dest ...any) error
}

func scanExecution(row scanner) (*model.ExecutionRecord, error) {
	var (
		record      model.ExecutionRecord
		completedAt sql.NullTime
		input       string
		output      sql.NullString
		errMsg      sql.NullString
	)

	if err := row.Scan(&record.ID, &record.Status, &record.StartedAt, &completedAt, &input, &output, &errMsg); err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		record.CompletedAt = &t
	}
	if errMsg.Valid {
		record.Error = errMsg.String
	}
	if err := json.Unmarshal([]byte(input), &record.Input); err != nil {
		return nil, fmt.Errorf("corrupt input snapshot: %w", err)
	}
	if output.Valid && output.String != "" {
		var result model.ExecutionResult
		if err := json.Unmarshal([]byte(output.String), &result); err != nil {
			return nil, fmt.Errorf("corrupt output payload: %w", err)
		}
		record.Output = &result
	}
	return &record, nil
}
