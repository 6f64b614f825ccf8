// Package analytics aggregates the price history log into dashboard metrics.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"dynamic-pricing/internal/domain"
)

// ErrInvalidWindow is returned when the requested window is not positive.
var ErrInvalidWindow = errors.New("invalid analytics window")

// Config holds aggregation tunables.
type Config struct {
	// ConversionTolerance is the fractional headroom over the competitor
	// price within which a record still counts as likely to convert.
	ConversionTolerance float64
}

// DefaultConfig returns the production aggregation settings.
func DefaultConfig() Config {
	return Config{ConversionTolerance: 0.05}
}

// Aggregate computes pricing performance over the records falling within
// [now - windowDays, now]. Pure and deterministic: the same records and
// window always yield the same result. An empty window yields zeroed metrics
// and an empty trend, not an error.
func Aggregate(records []*domain.PriceHistoryRecord, competitorAvg float64, windowDays int, now time.Time, cfg Config) (*domain.AnalyticsResult, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("%w: window_days must be positive, got %d", ErrInvalidWindow, windowDays)
	}

	windowStart := now.AddDate(0, 0, -windowDays)
	windowed := filterWindow(records, windowStart, now)

	result := &domain.AnalyticsResult{
		Metrics:    domain.PricingMetrics{CompetitorPriceAvg: competitorAvg},
		PriceTrend: []domain.PriceTrendPoint{},
	}
	if len(windowed) == 0 {
		return result, nil
	}

	// Sort deterministically by timestamp ASC, ID ASC before the
	// order-dependent price-change count.
	sort.Slice(windowed, func(i, j int) bool {
		if !windowed[i].Timestamp.Equal(windowed[j].Timestamp) {
			return windowed[i].Timestamp.Before(windowed[j].Timestamp)
		}
		return windowed[i].ID < windowed[j].ID
	})

	var revenueImpact, priceSum float64
	converted := 0
	for _, r := range windowed {
		revenueImpact += r.DynamicPrice - r.OriginalPrice
		priceSum += r.DynamicPrice
		if convertsAt(r, cfg.ConversionTolerance) {
			converted++
		}
	}

	result.Metrics.RevenueImpact = revenueImpact
	result.Metrics.AveragePrice = priceSum / float64(len(windowed))
	result.Metrics.ConversionRate = float64(converted) / float64(len(windowed))
	result.Metrics.PriceChanges = countPriceChanges(windowed)
	result.PriceTrend = buildPriceTrend(windowed)

	return result, nil
}

// filterWindow returns the records with timestamps inside [start, end],
// bounds inclusive.
func filterWindow(records []*domain.PriceHistoryRecord, start, end time.Time) []*domain.PriceHistoryRecord {
	var out []*domain.PriceHistoryRecord
	for _, r := range records {
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// convertsAt reports whether a record was priced at or below the competitor
// price observed at computation time, within tolerance. Records with no
// recorded competitor price never convert.
func convertsAt(r *domain.PriceHistoryRecord, tolerance float64) bool {
	if r.CompetitorPrice <= 0 {
		return false
	}
	return r.DynamicPrice <= r.CompetitorPrice*(1+tolerance)
}

// countPriceChanges counts how many times the recommended price actually
// moved: consecutive records for the same product with differing dynamic
// prices. Records must already be in timestamp order.
func countPriceChanges(records []*domain.PriceHistoryRecord) int {
	last := make(map[string]float64)
	changes := 0
	for _, r := range records {
		prev, seen := last[r.ProductID]
		if seen && math.Abs(r.DynamicPrice-prev) > 1e-9 {
			changes++
		}
		last[r.ProductID] = r.DynamicPrice
	}
	return changes
}

// buildPriceTrend buckets records by UTC day and emits one point per
// non-empty day: the day's mean dynamic price and its record count.
func buildPriceTrend(records []*domain.PriceHistoryRecord) []domain.PriceTrendPoint {
	type bucket struct {
		sum   float64
		count int
	}
	days := make(map[string]*bucket)
	for _, r := range records {
		day := r.Timestamp.UTC().Format("2006-01-02")
		b, ok := days[day]
		if !ok {
			b = &bucket{}
			days[day] = b
		}
		b.sum += r.DynamicPrice
		b.count++
	}

	dates := make([]string, 0, len(days))
	for day := range days {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	trend := make([]domain.PriceTrendPoint, 0, len(dates))
	for _, day := range dates {
		b := days[day]
		trend = append(trend, domain.PriceTrendPoint{
			Date:  day,
			Price: b.sum / float64(b.count),
			Sales: b.count,
		})
	}
	return trend
}
