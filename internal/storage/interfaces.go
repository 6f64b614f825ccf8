package storage

import (
	"context"
	"time"

	"dynamic-pricing/internal/domain"
)

// PriceHistoryStore provides access to the append-only pricing decision log.
// Insert must be durable before it returns; subsequent reads see the record.
type PriceHistoryStore interface {
	// Insert appends a new record. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, r *domain.PriceHistoryRecord) error

	// GetSince retrieves records with timestamps at or after since, ordered
	// by timestamp ASC. An empty productID matches all products.
	GetSince(ctx context.Context, productID string, since time.Time) ([]*domain.PriceHistoryRecord, error)
}

// CompetitorPriceStore provides access to observed competitor prices.
type CompetitorPriceStore interface {
	// Insert adds a new observation. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, r *domain.CompetitorPriceRecord) error

	// GetLatestActive retrieves the most recent active record for a product.
	// Returns ErrNotFound when no active record exists.
	GetLatestActive(ctx context.Context, productID string) (*domain.CompetitorPriceRecord, error)

	// GetActiveAverage returns the mean price over active records, 0 when
	// there are none. An empty productID averages across all products.
	GetActiveAverage(ctx context.Context, productID string) (float64, error)
}
