package domain

import "time"

// CompetitorPriceRecord is one observed competitor price for a product.
// Multiple records may exist per product; only active records contribute to
// current-price lookups, most recent active record wins.
// Corresponds to the competitor_prices table.
type CompetitorPriceRecord struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	CompetitorName string    `json:"competitor_name"`
	Price          float64   `json:"price"`
	Timestamp      time.Time `json:"timestamp"`
	IsActive       bool      `json:"is_active"`
}
