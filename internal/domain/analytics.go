package domain

// PricingMetrics summarizes pricing decisions over an analytics window.
type PricingMetrics struct {
	// AveragePrice is the arithmetic mean of dynamic prices in the window.
	AveragePrice float64 `json:"average_price"`

	// PriceChanges counts consecutive per-product dynamic price moves,
	// not the total record count.
	PriceChanges int `json:"price_changes"`

	// ConversionRate is the fraction of records priced at or below the
	// competitor price (within tolerance) at computation time, in [0, 1].
	ConversionRate float64 `json:"conversion_rate"`

	// RevenueImpact is the sum of (dynamic - original) across the window.
	// Negative contributions count.
	RevenueImpact float64 `json:"revenue_impact"`

	// CompetitorPriceAvg is the mean active competitor price; callers derive
	// the competitor gap as CompetitorPriceAvg - AveragePrice.
	CompetitorPriceAvg float64 `json:"competitor_price_avg"`
}

// PriceTrendPoint is one per-day point of the price trend series.
// Sales is the record count that day, a proxy for transaction volume.
type PriceTrendPoint struct {
	Date  string  `json:"date"` // UTC day, YYYY-MM-DD
	Price float64 `json:"price"`
	Sales int     `json:"sales"`
}

// AnalyticsResult is the aggregated pricing performance for a window.
type AnalyticsResult struct {
	Metrics    PricingMetrics    `json:"metrics"`
	PriceTrend []PriceTrendPoint `json:"price_trend"`
}
