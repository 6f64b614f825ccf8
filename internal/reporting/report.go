package reporting

import (
	"time"

	"dynamic-pricing/internal/domain"
)

// Report represents the pricing performance report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	ProductID   string // empty means all products
	WindowDays  int

	// Aggregated metrics over the window
	Metrics domain.PricingMetrics

	// Per-day price trend (sorted by date ASC)
	PriceTrend []domain.PriceTrendPoint

	// Strategy usage breakdown (sorted by strategy)
	StrategyUsage []StrategyUsageRow

	// RecordCount is the number of pricing decisions in the window.
	RecordCount int
}

// StrategyUsageRow summarizes the decisions taken under one strategy.
type StrategyUsageRow struct {
	Strategy     domain.Strategy
	Decisions    int
	AveragePrice float64
	MinPrice     float64
	MaxPrice     float64
}
