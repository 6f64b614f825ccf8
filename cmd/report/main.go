// Package main generates an offline pricing performance report from stored
// pricing decisions: a Markdown summary and a CSV of the price trend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"dynamic-pricing/internal/analytics"
	"dynamic-pricing/internal/reporting"
	"dynamic-pricing/internal/storage"
	chstore "dynamic-pricing/internal/storage/clickhouse"
	pgstore "dynamic-pricing/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional, reads the price history log from ClickHouse)")
	productID := flag.String("product-id", "", "Restrict the report to one product (empty for all)")
	windowDays := flag.Int("window-days", 7, "Analytics window in days")
	flag.Parse()

	ctx := context.Background()

	if *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required")
		os.Exit(1)
	}

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var historyStore storage.PriceHistoryStore = pgstore.NewPriceHistoryStore(pool)
	competitorStore := pgstore.NewCompetitorPriceStore(pool)

	if *clickhouseDSN != "" {
		chConn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer chConn.Close()
		historyStore = chstore.NewPriceHistoryStore(chConn)
	}

	generator := reporting.NewGenerator(historyStore, competitorStore, analytics.DefaultConfig())

	report, err := generator.Generate(ctx, *productID, *windowDays)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outputDir, "PRICING_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", mdPath, err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*outputDir, "price_trend.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.PriceTrend)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", csvPath, err)
		os.Exit(1)
	}

	fmt.Println("Pricing report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}
