// Package main runs the dynamic pricing HTTP service:
// - POST /calculate-price computes and logs a recommended price
// - POST /competitor-prices/update stores competitor observations
// - GET /analytics/pricing-performance aggregates recent decisions
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dynamic-pricing/internal/analytics"
	"dynamic-pricing/internal/api"
	"dynamic-pricing/internal/pricing"
	"dynamic-pricing/internal/service"
	"dynamic-pricing/internal/storage"
	chstore "dynamic-pricing/internal/storage/clickhouse"
	"dynamic-pricing/internal/storage/memory"
	"dynamic-pricing/internal/storage/migrations"
	pgstore "dynamic-pricing/internal/storage/postgres"
)

// pricingStores holds the storage implementations the service runs on.
type pricingStores struct {
	historyStore    storage.PriceHistoryStore
	competitorStore storage.CompetitorPriceStore
}

func main() {
	// Load .env file if it exists; system env vars take precedence.
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("ADDR", ":8000"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional, moves the price history log to ClickHouse)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	shutdownTimeout := flag.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	engine := pricing.NewEngine(pricing.DefaultConfig())
	pricingService := service.NewPricingService(engine, stores.historyStore, stores.competitorStore, logger)
	aggregator := analytics.NewAggregator(stores.historyStore, stores.competitorStore, analytics.DefaultConfig())

	apiServer := api.NewServer(pricingService, aggregator, logger)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           apiServer.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("Received signal %v, shutting down", sig)
	case err := <-errCh:
		logger.Printf("Server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Shutdown error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates the storage implementations and runs migrations.
// With a ClickHouse DSN the price history log lives in ClickHouse and
// PostgreSQL keeps the competitor prices; otherwise PostgreSQL holds both.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool, logger *log.Logger) (*pricingStores, func(), error) {
	if useMemory {
		logger.Println("Using in-memory storage")
		stores := &pricingStores{
			historyStore:    memory.NewPriceHistoryStore(),
			competitorStore: memory.NewCompetitorPriceStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, err
	}

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	stores := &pricingStores{
		historyStore:    pgstore.NewPriceHistoryStore(pool),
		competitorStore: pgstore.NewCompetitorPriceStore(pool),
	}
	cleanup := func() { pool.Close() }

	if clickhouseDSN != "" {
		chConn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := migrations.RunClickhouseMigrations(ctx, chConn); err != nil {
			chConn.Close()
			pool.Close()
			return nil, nil, err
		}

		logger.Println("Price history log backed by ClickHouse")
		stores.historyStore = chstore.NewPriceHistoryStore(chConn)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
	}

	return stores, cleanup, nil
}

// envOr returns the environment value or a fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
