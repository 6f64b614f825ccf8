package domain

import "time"

// PriceHistoryRecord is one entry in the append-only pricing decision log.
// Created exactly once per successful computation, never mutated or deleted;
// the log is the source of truth for analytics.
// Corresponds to the price_history table.
type PriceHistoryRecord struct {
	ID              string    `json:"id"` // deterministic hash, see idhash
	ProductID       string    `json:"product_id"`
	Timestamp       time.Time `json:"timestamp"` // creation time, immutable
	OriginalPrice   float64   `json:"original_price"`
	DynamicPrice    float64   `json:"dynamic_price"`
	DemandScore     int       `json:"demand_score"`
	Inventory       int       `json:"inventory"`
	CompetitorPrice float64   `json:"competitor_price"` // value used at computation time, 0 when absent
	StrategyUsed    Strategy  `json:"strategy_used"`
}
