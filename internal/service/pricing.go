// Package service coordinates the pure pricing engine with the stores:
// competitor lookup before computation, durable history append after.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/idhash"
	"dynamic-pricing/internal/observability"
	"dynamic-pricing/internal/pricing"
	"dynamic-pricing/internal/storage"
)

// ErrInvalidUpdate is returned for malformed competitor price updates.
var ErrInvalidUpdate = errors.New("invalid competitor price update")

// CompetitorPriceUpdate is one observed competitor price submitted by a
// monitoring client.
type CompetitorPriceUpdate struct {
	ProductID      string  `json:"product_id"`
	CompetitorName string  `json:"competitor_name"`
	Price          float64 `json:"price"`
}

// PricingService wires the engine to the stores. The engine stays pure; the
// service owns the side effects around it.
type PricingService struct {
	engine          *pricing.Engine
	historyStore    storage.PriceHistoryStore
	competitorStore storage.CompetitorPriceStore
	logger          *log.Logger

	now func() time.Time // injectable for tests
}

// NewPricingService creates a pricing service over the given stores.
func NewPricingService(engine *pricing.Engine, historyStore storage.PriceHistoryStore, competitorStore storage.CompetitorPriceStore, logger *log.Logger) *PricingService {
	return &PricingService{
		engine:          engine,
		historyStore:    historyStore,
		competitorStore: competitorStore,
		logger:          logger,
		now:             time.Now,
	}
}

// CalculatePrice computes a recommended price and appends the decision to the
// price history log. The latest active competitor price supersedes the
// request value; its absence is not fatal.
func (s *PricingService) CalculatePrice(ctx context.Context, req *domain.PricingRequest) (*domain.PriceResult, error) {
	var current *float64
	if req != nil && req.ProductID != "" {
		latest, err := s.competitorStore.GetLatestActive(ctx, req.ProductID)
		switch {
		case err == nil:
			current = &latest.Price
		case errors.Is(err, storage.ErrNotFound):
			// degrade to the request value / cost-floor clamp
		default:
			return nil, fmt.Errorf("lookup competitor price: %w", err)
		}
	}

	result, err := s.engine.ComputePrice(req, current)
	if err != nil {
		observability.RecordPriceComputeError(errorReason(err))
		return nil, err
	}

	record := &domain.PriceHistoryRecord{
		ProductID:       req.ProductID,
		Timestamp:       s.now().UTC(),
		OriginalPrice:   result.BasePrice,
		DynamicPrice:    result.DynamicPrice,
		DemandScore:     req.DemandScore,
		Inventory:       req.Inventory,
		CompetitorPrice: competitorValue(result.EffectiveCompetitorPrice),
		StrategyUsed:    result.Strategy,
	}
	record.ID = idhash.ComputeHistoryID(record.ProductID, record.Timestamp, record.StrategyUsed, record.OriginalPrice, record.DynamicPrice)

	if err := s.historyStore.Insert(ctx, record); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// Identical decision in the same millisecond: already logged.
			s.logger.Printf("price history record %s already exists, skipping append", record.ID)
		} else {
			return nil, fmt.Errorf("append price history: %w", err)
		}
	} else {
		observability.RecordHistoryStored()
	}

	observability.RecordPriceComputed(string(result.Strategy))
	return result, nil
}

// UpdateCompetitorPrices stores a batch of competitor price observations as
// active records. Duplicate observations are skipped. Returns the number of
// records stored.
func (s *PricingService) UpdateCompetitorPrices(ctx context.Context, updates []CompetitorPriceUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, fmt.Errorf("%w: empty batch", ErrInvalidUpdate)
	}

	now := s.now().UTC()
	stored := 0
	for i, u := range updates {
		if u.ProductID == "" || u.CompetitorName == "" {
			return stored, fmt.Errorf("%w: entry %d is missing product_id or competitor_name", ErrInvalidUpdate, i)
		}
		if math.IsNaN(u.Price) || math.IsInf(u.Price, 0) || u.Price <= 0 {
			return stored, fmt.Errorf("%w: entry %d has non-positive price %v", ErrInvalidUpdate, i, u.Price)
		}

		record := &domain.CompetitorPriceRecord{
			ID:             idhash.ComputeCompetitorID(u.ProductID, u.CompetitorName, now, u.Price),
			ProductID:      u.ProductID,
			CompetitorName: u.CompetitorName,
			Price:          u.Price,
			Timestamp:      now,
			IsActive:       true,
		}

		if err := s.competitorStore.Insert(ctx, record); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			return stored, fmt.Errorf("store competitor price: %w", err)
		}
		stored++
		observability.RecordCompetitorStored()
	}

	return stored, nil
}

// errorReason classifies an engine error for metrics labels.
func errorReason(err error) string {
	switch {
	case errors.Is(err, pricing.ErrInvalidSegment):
		return "invalid_segment"
	case errors.Is(err, pricing.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}

func competitorValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
