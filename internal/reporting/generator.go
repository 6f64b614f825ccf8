// Package reporting turns stored pricing decisions into offline reports.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dynamic-pricing/internal/analytics"
	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	historyStore    storage.PriceHistoryStore
	competitorStore storage.CompetitorPriceStore
	cfg             analytics.Config
	now             func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(historyStore storage.PriceHistoryStore, competitorStore storage.CompetitorPriceStore, cfg analytics.Config) *Generator {
	return &Generator{
		historyStore:    historyStore,
		competitorStore: competitorStore,
		cfg:             cfg,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete pricing performance report for the window.
// An empty productID covers all products.
func (g *Generator) Generate(ctx context.Context, productID string, windowDays int) (*Report, error) {
	now := g.now()
	since := now.AddDate(0, 0, -windowDays)

	records, err := g.historyStore.GetSince(ctx, productID, since)
	if err != nil {
		return nil, fmt.Errorf("load price history: %w", err)
	}

	competitorAvg, err := g.competitorStore.GetActiveAverage(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load competitor average: %w", err)
	}

	result, err := analytics.Aggregate(records, competitorAvg, windowDays, now, g.cfg)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt:   now,
		ProductID:     productID,
		WindowDays:    windowDays,
		Metrics:       result.Metrics,
		PriceTrend:    result.PriceTrend,
		StrategyUsage: buildStrategyUsage(records),
		RecordCount:   len(records),
	}, nil
}

// buildStrategyUsage groups decisions by strategy and summarizes prices.
func buildStrategyUsage(records []*domain.PriceHistoryRecord) []StrategyUsageRow {
	type bucket struct {
		count    int
		sum      float64
		min, max float64
	}
	buckets := make(map[domain.Strategy]*bucket)
	for _, r := range records {
		b, ok := buckets[r.StrategyUsed]
		if !ok {
			b = &bucket{min: r.DynamicPrice, max: r.DynamicPrice}
			buckets[r.StrategyUsed] = b
		}
		b.count++
		b.sum += r.DynamicPrice
		if r.DynamicPrice < b.min {
			b.min = r.DynamicPrice
		}
		if r.DynamicPrice > b.max {
			b.max = r.DynamicPrice
		}
	}

	rows := make([]StrategyUsageRow, 0, len(buckets))
	for strategy, b := range buckets {
		rows = append(rows, StrategyUsageRow{
			Strategy:     strategy,
			Decisions:    b.count,
			AveragePrice: b.sum / float64(b.count),
			MinPrice:     b.min,
			MaxPrice:     b.max,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Strategy < rows[j].Strategy
	})

	return rows
}
