package service

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/pricing"
	"dynamic-pricing/internal/storage/memory"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService() (*PricingService, *memory.PriceHistoryStore, *memory.CompetitorPriceStore) {
	historyStore := memory.NewPriceHistoryStore()
	competitorStore := memory.NewCompetitorPriceStore()
	logger := log.New(io.Discard, "", 0)

	svc := NewPricingService(pricing.NewEngine(pricing.DefaultConfig()), historyStore, competitorStore, logger)
	svc.now = func() time.Time { return testNow }
	return svc, historyStore, competitorStore
}

func validRequest() *domain.PricingRequest {
	return &domain.PricingRequest{
		ProductID:         "prod-1",
		CostPrice:         25.0,
		DemandScore:       7,
		Inventory:         50,
		CompetitorPrice:   45.0,
		CustomerSegment:   domain.SegmentPremium,
		SeasonalityFactor: 1.2,
		Strategy:          domain.StrategyDefault,
	}
}

func TestCalculatePriceAppendsHistory(t *testing.T) {
	ctx := context.Background()
	svc, historyStore, _ := newTestService()

	result, err := svc.CalculatePrice(ctx, validRequest())
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}
	if result.DynamicPrice != 36.00 {
		t.Errorf("DynamicPrice = %v, want 36.00", result.DynamicPrice)
	}

	records, err := historyStore.GetSince(ctx, "prod-1", testNow.Add(-time.Minute))
	if err != nil {
		t.Fatalf("GetSince: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	r := records[0]
	if r.ID == "" {
		t.Error("record ID is empty")
	}
	if r.Timestamp != testNow {
		t.Errorf("Timestamp = %v, want %v", r.Timestamp, testNow)
	}
	if r.OriginalPrice != result.BasePrice || r.DynamicPrice != result.DynamicPrice {
		t.Errorf("record prices {%v, %v} do not match result {%v, %v}",
			r.OriginalPrice, r.DynamicPrice, result.BasePrice, result.DynamicPrice)
	}
	if r.CompetitorPrice != 45.0 {
		t.Errorf("CompetitorPrice = %v, want 45.0", r.CompetitorPrice)
	}
	if r.StrategyUsed != domain.StrategyDefault {
		t.Errorf("StrategyUsed = %q, want %q", r.StrategyUsed, domain.StrategyDefault)
	}
}

func TestCalculatePriceStoredCompetitorSupersedes(t *testing.T) {
	ctx := context.Background()
	svc, _, competitorStore := newTestService()

	stored := &domain.CompetitorPriceRecord{
		ID:             "c1",
		ProductID:      "prod-1",
		CompetitorName: "acme",
		Price:          75.0,
		Timestamp:      testNow.Add(-time.Hour),
		IsActive:       true,
	}
	if err := competitorStore.Insert(ctx, stored); err != nil {
		t.Fatalf("seed competitor: %v", err)
	}

	// Request carries 45; the store has 75 and wins: ceiling 75*0.80 = 60.
	result, err := svc.CalculatePrice(ctx, validRequest())
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}
	if result.DynamicPrice != 60.00 {
		t.Errorf("DynamicPrice = %v, want 60.00 from stored competitor", result.DynamicPrice)
	}
	if result.EffectiveCompetitorPrice == nil || *result.EffectiveCompetitorPrice != 75.0 {
		t.Errorf("EffectiveCompetitorPrice = %v, want 75.0", result.EffectiveCompetitorPrice)
	}
}

func TestCalculatePriceNoCompetitorAnywhere(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	req := validRequest()
	req.CompetitorPrice = 0

	// No stored competitor either: the lookup misses and pricing degrades to
	// the cost floor only.
	result, err := svc.CalculatePrice(ctx, req)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}
	if result.EffectiveCompetitorPrice != nil {
		t.Errorf("EffectiveCompetitorPrice = %v, want nil", *result.EffectiveCompetitorPrice)
	}
	if result.DynamicPrice != 37.08 {
		t.Errorf("DynamicPrice = %v, want 37.08 unclamped", result.DynamicPrice)
	}
}

func TestCalculatePriceInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, historyStore, _ := newTestService()

	req := validRequest()
	req.CustomerSegment = "vip"

	_, err := svc.CalculatePrice(ctx, req)
	if !errors.Is(err, pricing.ErrInvalidSegment) {
		t.Fatalf("err = %v, want ErrInvalidSegment", err)
	}

	// Failed computations must not leave history behind.
	records, err := historyStore.GetSince(ctx, "", testNow.Add(-time.Hour))
	if err != nil {
		t.Fatalf("GetSince: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0 after failed computation", len(records))
	}
}

func TestCalculatePriceDuplicateDecisionTolerated(t *testing.T) {
	ctx := context.Background()
	svc, historyStore, _ := newTestService()

	// Same request at the same frozen clock hashes to the same record ID.
	if _, err := svc.CalculatePrice(ctx, validRequest()); err != nil {
		t.Fatalf("first CalculatePrice: %v", err)
	}
	if _, err := svc.CalculatePrice(ctx, validRequest()); err != nil {
		t.Fatalf("second CalculatePrice: %v", err)
	}

	records, err := historyStore.GetSince(ctx, "prod-1", testNow.Add(-time.Minute))
	if err != nil {
		t.Fatalf("GetSince: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1 (duplicate append skipped)", len(records))
	}
}

func TestUpdateCompetitorPrices(t *testing.T) {
	ctx := context.Background()
	svc, _, competitorStore := newTestService()

	updates := []CompetitorPriceUpdate{
		{ProductID: "prod-1", CompetitorName: "acme", Price: 30},
		{ProductID: "prod-1", CompetitorName: "globex", Price: 34},
		{ProductID: "prod-2", CompetitorName: "acme", Price: 50},
	}

	stored, err := svc.UpdateCompetitorPrices(ctx, updates)
	if err != nil {
		t.Fatalf("UpdateCompetitorPrices: %v", err)
	}
	if stored != 3 {
		t.Errorf("stored = %d, want 3", stored)
	}

	avg, err := competitorStore.GetActiveAverage(ctx, "prod-1")
	if err != nil {
		t.Fatalf("GetActiveAverage: %v", err)
	}
	if avg != 32 {
		t.Errorf("average = %v, want 32", avg)
	}

	// Resubmitting the same batch at the same clock is a no-op.
	stored, err = svc.UpdateCompetitorPrices(ctx, updates)
	if err != nil {
		t.Fatalf("resubmit UpdateCompetitorPrices: %v", err)
	}
	if stored != 0 {
		t.Errorf("stored = %d, want 0 on duplicate batch", stored)
	}
}

func TestUpdateCompetitorPricesValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	tests := []struct {
		name    string
		updates []CompetitorPriceUpdate
	}{
		{"empty batch", nil},
		{"missing product", []CompetitorPriceUpdate{{CompetitorName: "acme", Price: 10}}},
		{"missing competitor", []CompetitorPriceUpdate{{ProductID: "p1", Price: 10}}},
		{"zero price", []CompetitorPriceUpdate{{ProductID: "p1", CompetitorName: "acme", Price: 0}}},
		{"negative price", []CompetitorPriceUpdate{{ProductID: "p1", CompetitorName: "acme", Price: -5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpdateCompetitorPrices(ctx, tt.updates); !errors.Is(err, ErrInvalidUpdate) {
				t.Errorf("err = %v, want ErrInvalidUpdate", err)
			}
		})
	}
}
