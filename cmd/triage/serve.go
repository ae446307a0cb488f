package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fraudops/alert-triage/internal/agent"
	"github.com/fraudops/alert-triage/internal/common"
	"github.com/fraudops/alert-triage/internal/data"
	"github.com/fraudops/alert-triage/internal/pipeline"
	"github.com/fraudops/alert-triage/internal/server"
	"github.com/fraudops/alert-triage/internal/storage"
)

const shutdownGracePeriod = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the triage HTTP API",
		Long: `Start an HTTP server exposing the triage pipeline.

Endpoints are served under /api/v1: POST /analyze triages a submitted
alert, POST /test runs the built-in sample, and GET /agent/status,
/agent/history, /executions and /health expose operational state.`,
		RunE: runServe,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("db", "", "path to a SQLite database for execution persistence")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.db", cmd.Flags().Lookup("db"))
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Local .env files hold backend credentials in development.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env")
	}

	client, err := createLLMClient()
	if err != nil {
		return common.NewUserError("failed to configure inference backend", err)
	}

	a := agent.New(pipeline.New(client, data.NewMockProvider(), slog.Default()), slog.Default())

	var store server.ExecutionStore
	if dbPath := viper.GetString("server.db"); dbPath != "" {
		s, err := storage.NewExecutionStore(dbPath)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("failed to open database %s", dbPath), err)
		}
		defer func() {
			if err := s.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}()
		if err := s.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
		store = s
		slog.Info("execution persistence enabled", "db", dbPath)
	}

	handler := server.NewHandler(a, store, slog.Default())
	srv := &http.Server{
		Addr:              viper.GetString("server.addr"),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("triage API listening", "addr", srv.Addr, "version", agent.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
