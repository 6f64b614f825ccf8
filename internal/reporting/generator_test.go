package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynamic-pricing/internal/analytics"
	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/storage/memory"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func seedStores(t *testing.T) (*memory.PriceHistoryStore, *memory.CompetitorPriceStore) {
	t.Helper()
	ctx := context.Background()

	historyStore := memory.NewPriceHistoryStore()
	competitorStore := memory.NewCompetitorPriceStore()

	records := []*domain.PriceHistoryRecord{
		{ID: "h1", ProductID: "prod-1", Timestamp: testNow.Add(-48 * time.Hour), OriginalPrice: 20, DynamicPrice: 24, CompetitorPrice: 30, StrategyUsed: domain.StrategyDefault},
		{ID: "h2", ProductID: "prod-1", Timestamp: testNow.Add(-24 * time.Hour), OriginalPrice: 20, DynamicPrice: 26, CompetitorPrice: 30, StrategyUsed: domain.StrategyAggressive},
		{ID: "h3", ProductID: "prod-2", Timestamp: testNow.Add(-24 * time.Hour), OriginalPrice: 50, DynamicPrice: 45, CompetitorPrice: 0, StrategyUsed: domain.StrategyDefault},
	}
	for _, r := range records {
		require.NoError(t, historyStore.Insert(ctx, r))
	}

	require.NoError(t, competitorStore.Insert(ctx, &domain.CompetitorPriceRecord{
		ID: "c1", ProductID: "prod-1", CompetitorName: "acme", Price: 30,
		Timestamp: testNow.Add(-time.Hour), IsActive: true,
	}))

	return historyStore, competitorStore
}

func TestGeneratorGenerate(t *testing.T) {
	historyStore, competitorStore := seedStores(t)

	gen := NewGenerator(historyStore, competitorStore, analytics.DefaultConfig()).
		WithClock(func() time.Time { return testNow })

	report, err := gen.Generate(context.Background(), "", 7)
	require.NoError(t, err)

	assert.Equal(t, testNow, report.GeneratedAt)
	assert.Equal(t, 7, report.WindowDays)
	assert.Equal(t, 3, report.RecordCount)
	assert.InDelta(t, 5.0, report.Metrics.RevenueImpact, 1e-9)
	assert.Len(t, report.PriceTrend, 2)

	require.Len(t, report.StrategyUsage, 2)
	// Sorted by strategy name: aggressive before default.
	assert.Equal(t, domain.StrategyAggressive, report.StrategyUsage[0].Strategy)
	assert.Equal(t, 1, report.StrategyUsage[0].Decisions)
	assert.Equal(t, domain.StrategyDefault, report.StrategyUsage[1].Strategy)
	assert.Equal(t, 2, report.StrategyUsage[1].Decisions)
	assert.InDelta(t, 34.5, report.StrategyUsage[1].AveragePrice, 1e-9)
	assert.Equal(t, 24.0, report.StrategyUsage[1].MinPrice)
	assert.Equal(t, 45.0, report.StrategyUsage[1].MaxPrice)
}

func TestGeneratorGenerateSingleProduct(t *testing.T) {
	historyStore, competitorStore := seedStores(t)

	gen := NewGenerator(historyStore, competitorStore, analytics.DefaultConfig()).
		WithClock(func() time.Time { return testNow })

	report, err := gen.Generate(context.Background(), "prod-1", 7)
	require.NoError(t, err)

	assert.Equal(t, "prod-1", report.ProductID)
	assert.Equal(t, 2, report.RecordCount)
	assert.InDelta(t, 25.0, report.Metrics.AveragePrice, 1e-9)
	assert.InDelta(t, 30.0, report.Metrics.CompetitorPriceAvg, 1e-9)
}

func TestGeneratorRejectsBadWindow(t *testing.T) {
	historyStore, competitorStore := seedStores(t)

	gen := NewGenerator(historyStore, competitorStore, analytics.DefaultConfig())

	_, err := gen.Generate(context.Background(), "", 0)
	assert.ErrorIs(t, err, analytics.ErrInvalidWindow)
}

func TestRenderMarkdown(t *testing.T) {
	historyStore, competitorStore := seedStores(t)

	gen := NewGenerator(historyStore, competitorStore, analytics.DefaultConfig()).
		WithClock(func() time.Time { return testNow })

	report, err := gen.Generate(context.Background(), "", 7)
	require.NoError(t, err)

	md := RenderMarkdown(report)

	assert.Contains(t, md, "# Pricing Performance Report")
	assert.Contains(t, md, "Scope: all products | Window: 7 days | Decisions: 3")
	assert.Contains(t, md, "| Revenue Impact | 5.00 |")
	assert.Contains(t, md, "| aggressive | 1 |")
	assert.Contains(t, md, "| 2024-06-13 |")
	assert.Contains(t, md, "| 2024-06-14 |")
}

func TestRenderMarkdownEmptyReport(t *testing.T) {
	report := &Report{
		GeneratedAt: testNow,
		WindowDays:  7,
		PriceTrend:  []domain.PriceTrendPoint{},
	}

	md := RenderMarkdown(report)
	assert.Contains(t, md, "No pricing decisions in the window.")
	assert.Contains(t, md, "No price trend data available.")
}

func TestRenderCSV(t *testing.T) {
	trend := []domain.PriceTrendPoint{
		{Date: "2024-06-13", Price: 24, Sales: 1},
		{Date: "2024-06-14", Price: 35.5, Sales: 2},
	}

	csv := RenderCSV(trend)
	lines := strings.Split(strings.TrimSpace(csv), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "date,price,sales", lines[0])
	assert.Equal(t, "2024-06-13,24.000000,1", lines[1])
	assert.Equal(t, "2024-06-14,35.500000,2", lines[2])
}
