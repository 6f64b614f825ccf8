package analytics

import (
	"context"
	"fmt"
	"time"

	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/storage"
)

// Aggregator computes pricing performance from the price history log and the
// active competitor prices. It only reads; the stores own their records.
type Aggregator struct {
	historyStore    storage.PriceHistoryStore
	competitorStore storage.CompetitorPriceStore
	cfg             Config

	now func() time.Time // injectable for tests
}

// NewAggregator creates an analytics aggregator over the given stores.
func NewAggregator(historyStore storage.PriceHistoryStore, competitorStore storage.CompetitorPriceStore, cfg Config) *Aggregator {
	return &Aggregator{
		historyStore:    historyStore,
		competitorStore: competitorStore,
		cfg:             cfg,
		now:             time.Now,
	}
}

// PricingPerformance aggregates the last windowDays of pricing decisions,
// optionally filtered by product. An empty productID means all products.
func (a *Aggregator) PricingPerformance(ctx context.Context, productID string, windowDays int) (*domain.AnalyticsResult, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("%w: window_days must be positive, got %d", ErrInvalidWindow, windowDays)
	}

	now := a.now()
	since := now.AddDate(0, 0, -windowDays)

	records, err := a.historyStore.GetSince(ctx, productID, since)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}

	competitorAvg, err := a.competitorStore.GetActiveAverage(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("query competitor average: %w", err)
	}

	return Aggregate(records, competitorAvg, windowDays, now, a.cfg)
}
