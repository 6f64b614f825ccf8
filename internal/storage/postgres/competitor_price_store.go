package postgres

import (
	"context"
	"fmt"

	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/storage"
)

// CompetitorPriceStore implements storage.CompetitorPriceStore using PostgreSQL.
type CompetitorPriceStore struct {
	pool *Pool
}

// NewCompetitorPriceStore creates a new CompetitorPriceStore.
func NewCompetitorPriceStore(pool *Pool) *CompetitorPriceStore {
	return &CompetitorPriceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CompetitorPriceStore = (*CompetitorPriceStore)(nil)

// Insert adds a new observation. Returns ErrDuplicateKey if the ID exists.
func (s *CompetitorPriceStore) Insert(ctx context.Context, r *domain.CompetitorPriceRecord) error {
	if r == nil || r.ID == "" || r.ProductID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO competitor_prices (
			id, product_id, competitor_name, price, timestamp, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.ID, r.ProductID, r.CompetitorName, r.Price, r.Timestamp, r.IsActive,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert competitor price record: %w", err)
	}
	return nil
}

// GetLatestActive retrieves the most recent active record for a product.
// Returns ErrNotFound when no active record exists.
func (s *CompetitorPriceStore) GetLatestActive(ctx context.Context, productID string) (*domain.CompetitorPriceRecord, error) {
	query := `
		SELECT id, product_id, competitor_name, price, timestamp, is_active
		FROM competitor_prices
		WHERE product_id = $1 AND is_active
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`

	var r domain.CompetitorPriceRecord
	err := s.pool.QueryRow(ctx, query, productID).Scan(
		&r.ID, &r.ProductID, &r.CompetitorName, &r.Price, &r.Timestamp, &r.IsActive,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest active competitor price: %w", err)
	}
	return &r, nil
}

// GetActiveAverage returns the mean price over active records, 0 when there
// are none. An empty productID averages across all products.
func (s *CompetitorPriceStore) GetActiveAverage(ctx context.Context, productID string) (float64, error) {
	query := `
		SELECT COALESCE(AVG(price), 0)
		FROM competitor_prices
		WHERE is_active
		  AND ($1 = '' OR product_id = $1)
	`

	var avg float64
	if err := s.pool.QueryRow(ctx, query, productID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("get active competitor average: %w", err)
	}
	return avg, nil
}
