// Package backend wires a record store, the optional event feed, and the
// ledger services into one ready-to-use bundle.
package backend

import (
	"fmt"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

// Type selects the record-store implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Result bundles the store, the services built on it, and a cleanup hook.
type Result struct {
	Store        storage.RecordStore
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Savings      *services.SavingsService
	Events       *events.Client
	Cleanup      func() error
}

// Build constructs the service graph described by cfg. The AMQP client is
// optional: when the broker is unreachable the ledger still works, it just
// publishes no events.
func Build(cfg *config.Config) (*Result, error) {
	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	var (
		store   storage.RecordStore
		cleanup func() error
	)
	switch backendType {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		store = repo
		cleanup = repo.Close
		slog.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	case MemoryBackend:
		store = memory.New()
		slog.Info("Initialized memory backend")
	}

	var eventClient *events.Client
	if cfg.AMQPURL != "" {
		var err error
		eventClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Warn("Failed to initialize AMQP client, continuing without event feed", "error", err)
		} else {
			slog.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	session := core.Session{UserID: cfg.UserID}
	ledger := services.NewBalanceLedger()

	result := &Result{
		Store:        store,
		Transactions: services.NewTransactionService(store, ledger, eventClient, session),
		Budgets:      services.NewBudgetService(store, session),
		Savings:      services.NewSavingsService(store, ledger, session),
		Events:       eventClient,
	}
	result.Cleanup = func() error {
		if eventClient != nil {
			if err := eventClient.Close(); err != nil {
				slog.Warn("Failed to close AMQP client", "error", err)
			}
		}
		if cleanup != nil {
			return cleanup()
		}
		return nil
	}
	return result, nil
}
