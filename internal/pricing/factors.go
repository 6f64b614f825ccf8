package pricing

import "dynamic-pricing/internal/domain"

// Strategy markup factors applied to cost price before further adjustments.
var strategyMarkups = map[domain.Strategy]float64{
	domain.StrategyDefault:      1.00,
	domain.StrategyAggressive:   1.10,
	domain.StrategyConservative: 0.95,
}

// Segment multipliers, applied last among the factor adjustments.
// Ordering invariant: premium > standard > loyalty > budget.
var segmentMultipliers = map[domain.Segment]float64{
	domain.SegmentPremium:  1.20,
	domain.SegmentStandard: 1.00,
	domain.SegmentBudget:   0.85,
	domain.SegmentLoyalty:  0.90,
}

// demandFactor maps a demand score in [1, 10] to a multiplier.
// Linear and monotonically increasing, neutral at the midpoint; the slope
// bounds the factor to roughly ±9% across the full range so demand alone
// cannot push the price past the safety clamp.
func demandFactor(cfg Config, score int) float64 {
	return 1.0 + cfg.DemandSlope*(float64(score)-cfg.DemandMidpoint)
}

// inventoryFactor maps an inventory level to a multiplier.
// Low inventory raises the price (scarcity), high inventory lowers it
// (clearance), mid-range is neutral. Monotonic non-increasing in inventory.
func inventoryFactor(cfg Config, inventory int) float64 {
	switch {
	case inventory <= cfg.LowInventoryThreshold:
		return cfg.ScarcityFactor
	case inventory <= cfg.HighInventoryThreshold:
		return 1.0
	default:
		return cfg.ClearanceFactor
	}
}
