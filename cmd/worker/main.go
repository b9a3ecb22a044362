// Package main is the entry point for the warehouse background worker.
// It runs daily balance reconciliation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Skalersaas/warehouse/internal/domain/balance"
	"github.com/Skalersaas/warehouse/internal/domain/execution"
	"github.com/Skalersaas/warehouse/internal/domain/reconcile"
	"github.com/Skalersaas/warehouse/internal/infrastructure/storage/postgres"
	"github.com/Skalersaas/warehouse/internal/infrastructure/storage/postgres/document_repo"
	"github.com/Skalersaas/warehouse/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log = log.WithComponent("worker")

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting warehouse reconciliation worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	balanceService := balance.NewService(postgres.NewBalanceRepo(txManager), txManager)
	executionService := execution.NewService(postgres.NewExecutionRepo(txManager))

	reconciler := reconcile.NewService(
		document_repo.NewReceiptRepo(txManager),
		document_repo.NewShipmentRepo(txManager),
		balanceService,
		executionService,
	)
	worker := reconcile.NewWorker(reconciler)

	// Optional catch-up pass for today before the midnight schedule kicks in.
	if getEnv("RECONCILE_ON_START", "false") == "true" {
		if err := worker.RunOnce(ctx, time.Now(), false); err != nil {
			log.Errorw("startup reconciliation failed", "error", err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
