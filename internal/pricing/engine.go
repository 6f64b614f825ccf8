// Package pricing implements the dynamic price computation engine.
// The engine is a pure function over a validated request and the current
// competitor price; persistence of the resulting decision belongs to the
// caller.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"dynamic-pricing/internal/domain"
)

// Engine errors.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidSegment = errors.New("invalid customer segment")
)

// Config holds the factor tables and safety bounds for price computation.
type Config struct {
	// Demand curve: factor = 1 + DemandSlope * (score - DemandMidpoint).
	DemandSlope    float64
	DemandMidpoint float64

	// Inventory tiers.
	LowInventoryThreshold  int
	HighInventoryThreshold int
	ScarcityFactor         float64
	ClearanceFactor        float64

	// Safety clamp: never below cost * MinMarginFactor, never above
	// competitor * CompetitorCeilingFactor when a competitor price is known.
	MinMarginFactor         float64
	CompetitorCeilingFactor float64
}

// DefaultConfig returns the production factor tables.
func DefaultConfig() Config {
	return Config{
		DemandSlope:             0.02,
		DemandMidpoint:          5.5,
		LowInventoryThreshold:   10,
		HighInventoryThreshold:  100,
		ScarcityFactor:          1.15,
		ClearanceFactor:         0.90,
		MinMarginFactor:         1.10,
		CompetitorCeilingFactor: 0.80,
	}
}

// Engine computes bounded recommended prices. Stateless and safe for
// concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given factor configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// ComputePrice turns a pricing request and the current competitor price into
// a bounded recommended price. competitorPrice supersedes the request's own
// competitor_price field; nil falls back to the request value, and a request
// value of zero means no competitor price is known. A missing competitor
// price is not fatal: the clamp degrades to the cost floor only.
func (e *Engine) ComputePrice(req *domain.PricingRequest, competitorPrice *float64) (*domain.PriceResult, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	strategy, segment, seasonality, err := e.validate(req)
	if err != nil {
		return nil, err
	}

	effective := resolveCompetitorPrice(req, competitorPrice)

	base := req.CostPrice * strategyMarkups[strategy]

	price := base
	price *= demandFactor(e.cfg, req.DemandScore)
	price *= inventoryFactor(e.cfg, req.Inventory)
	price *= segmentMultipliers[segment]
	price *= seasonality

	price = e.clamp(price, req.CostPrice, effective)

	return &domain.PriceResult{
		ProductID:                req.ProductID,
		BasePrice:                roundHalfUp(base),
		DynamicPrice:             roundHalfUp(price),
		Strategy:                 strategy,
		EffectiveCompetitorPrice: effective,
	}, nil
}

// validate checks the request invariants and resolves optional fields to
// their defaults. Returns the effective strategy, segment and seasonality.
func (e *Engine) validate(req *domain.PricingRequest) (domain.Strategy, domain.Segment, float64, error) {
	if req.ProductID == "" {
		return "", "", 0, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}
	if !isFinite(req.CostPrice) || req.CostPrice <= 0 {
		return "", "", 0, fmt.Errorf("%w: cost_price must be a positive finite number, got %v", ErrInvalidInput, req.CostPrice)
	}
	if req.DemandScore < 1 || req.DemandScore > 10 {
		return "", "", 0, fmt.Errorf("%w: demand_score must be in [1, 10], got %d", ErrInvalidInput, req.DemandScore)
	}
	if req.Inventory < 0 {
		return "", "", 0, fmt.Errorf("%w: inventory must be non-negative, got %d", ErrInvalidInput, req.Inventory)
	}
	if !isFinite(req.CompetitorPrice) || req.CompetitorPrice < 0 {
		return "", "", 0, fmt.Errorf("%w: competitor_price must be a non-negative finite number, got %v", ErrInvalidInput, req.CompetitorPrice)
	}

	seasonality := req.SeasonalityFactor
	if seasonality == 0 {
		seasonality = 1.0
	}
	if !isFinite(seasonality) || seasonality < 0.5 || seasonality > 2.0 {
		return "", "", 0, fmt.Errorf("%w: seasonality_factor must be in [0.5, 2.0], got %v", ErrInvalidInput, req.SeasonalityFactor)
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = domain.StrategyDefault
	}
	if _, ok := strategyMarkups[strategy]; !ok {
		return "", "", 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, req.Strategy)
	}

	segment := req.CustomerSegment
	if segment == "" {
		segment = domain.SegmentStandard
	}
	if _, ok := segmentMultipliers[segment]; !ok {
		return "", "", 0, fmt.Errorf("%w: %q", ErrInvalidSegment, req.CustomerSegment)
	}

	return strategy, segment, seasonality, nil
}

// clamp applies the safety bounds. The floor always holds; the competitor
// ceiling applies only when a competitor price is known and the bounds are
// not inverted.
func (e *Engine) clamp(price, costPrice float64, competitorPrice *float64) float64 {
	floor := costPrice * e.cfg.MinMarginFactor

	if competitorPrice != nil {
		ceiling := *competitorPrice * e.cfg.CompetitorCeilingFactor
		if floor <= ceiling && price > ceiling {
			price = ceiling
		}
	}
	if price < floor {
		price = floor
	}
	return price
}

// resolveCompetitorPrice picks the price used for the clamp: the store value
// when present, otherwise the request value, otherwise absent.
func resolveCompetitorPrice(req *domain.PricingRequest, current *float64) *float64 {
	if current != nil && *current > 0 {
		v := *current
		return &v
	}
	if req.CompetitorPrice > 0 {
		v := req.CompetitorPrice
		return &v
	}
	return nil
}

// roundHalfUp rounds to the currency minor unit (2 decimals), half up.
func roundHalfUp(v float64) float64 {
	return math.Round(v*100) / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
