// budget-alert-worker consumes the ledger event feed and logs an alert
// whenever a mutation pushes a budget over its amount. It reads budgets and
// transactions but never writes: the alert is recomputed from current state
// on every event.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting budget-alert-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	eventClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer eventClient.Close()

	budgets := services.NewBudgetService(repo, core.Session{UserID: cfg.UserID})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := eventClient.ConsumeLedgerEvents(ctx, func(e *events.LedgerEvent) error {
			return handleEvent(ctx, budgets, e)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Event consumption failed", "error", err)
		}
		cancel()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Worker shutdown complete")
}

func handleEvent(ctx context.Context, budgets *services.BudgetService, e *events.LedgerEvent) error {
	if e.BudgetID == nil {
		return nil
	}

	status, err := budgets.StatusByID(ctx, *e.BudgetID)
	if err != nil {
		// The budget may have been deleted after the event was published.
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return err
	}

	if status.Overspent {
		slog.WarnContext(ctx, "Budget overspent",
			"correlation_id", e.CorrelationID,
			"budget_id", status.Budget.ID,
			"budget_name", status.Budget.Name,
			"spent_cents", status.Spent.Cents,
			"budget_amount_cents", status.Budget.Amount.Cents,
			"overspend_cents", status.Remaining.Neg().Cents)
	} else {
		slog.InfoContext(ctx, "Budget within limits",
			"correlation_id", e.CorrelationID,
			"budget_id", status.Budget.ID,
			"progress_pct", status.Progress)
	}
	return nil
}
