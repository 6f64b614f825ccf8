package domain

// Strategy is a named markup policy applied as a base multiplier on cost.
type Strategy string

// Strategy constants. The set is closed: unknown values are rejected at
// validation, never defaulted.
const (
	StrategyDefault      Strategy = "default"
	StrategyAggressive   Strategy = "aggressive"
	StrategyConservative Strategy = "conservative"
)

// Segment is a customer category applied as a price multiplier.
type Segment string

// Segment constants.
const (
	SegmentPremium  Segment = "premium"
	SegmentStandard Segment = "standard"
	SegmentBudget   Segment = "budget"
	SegmentLoyalty  Segment = "loyalty"
)

// PricingRequest carries the live business signals for one price computation.
type PricingRequest struct {
	ProductID         string   `json:"product_id"`
	CostPrice         float64  `json:"cost_price"`         // must be > 0
	DemandScore       int      `json:"demand_score"`       // [1, 10]
	Inventory         int      `json:"inventory"`          // >= 0
	CompetitorPrice   float64  `json:"competitor_price"`   // > 0 when set; 0 means absent
	CustomerSegment   Segment  `json:"customer_segment"`   // defaults to standard when empty
	SeasonalityFactor float64  `json:"seasonality_factor"` // [0.5, 2.0]; defaults to 1.0 when zero
	Strategy          Strategy `json:"strategy,omitempty"` // defaults to default when empty
}

// PriceResult is the outcome of one pricing computation.
// EffectiveCompetitorPrice is the competitor price actually used for the
// safety clamp (store value superseding the request value), nil when absent.
type PriceResult struct {
	ProductID                string   `json:"product_id"`
	BasePrice                float64  `json:"base_price"`
	DynamicPrice             float64  `json:"dynamic_price"`
	Strategy                 Strategy `json:"strategy"`
	EffectiveCompetitorPrice *float64 `json:"effective_competitor_price,omitempty"`
}
