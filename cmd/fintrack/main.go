package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	result, err := backend.Build(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Cleanup failed", "error", err)
		}
	}()

	ctx := context.Background()

	accounts, err := result.Store.ListAccounts(ctx, cfg.UserID)
	if err != nil {
		logger.Error("Failed to list accounts", "error", err)
		os.Exit(1)
	}

	fmt.Println("Accounts")
	if len(accounts) == 0 {
		fmt.Println("  (none)")
	}
	for _, a := range accounts {
		fmt.Printf("  %-20s %-12s %10s %s\n", a.Name, a.Type, a.Balance, a.Currency)
	}

	statuses, err := result.Budgets.StatusReport(ctx)
	if err != nil {
		logger.Error("Failed to compute budget report", "error", err)
		os.Exit(1)
	}

	fmt.Println("\nBudgets")
	if len(statuses) == 0 {
		fmt.Println("  (none)")
	}
	for _, st := range statuses {
		marker := ""
		if st.Overspent {
			marker = "  OVERSPENT"
		}
		fmt.Printf("  %-20s spent %s of %s (%.1f%%), remaining %s%s\n",
			st.Budget.Name, st.Spent, st.Budget.Amount, st.Progress, st.Remaining, marker)
	}

	goals, err := result.Savings.Goals(ctx)
	if err != nil {
		logger.Error("Failed to list savings goals", "error", err)
		os.Exit(1)
	}

	fmt.Println("\nSavings goals")
	if len(goals) == 0 {
		fmt.Println("  (none)")
	}
	for _, g := range goals {
		fmt.Printf("  %-20s %s of %s\n", g.Name, g.CurrentAmount, g.TargetAmount)
	}
}
