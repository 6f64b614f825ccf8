package postgres

import (
	"context"
	"fmt"
	"time"

	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using PostgreSQL.
type PriceHistoryStore struct {
	pool *Pool
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(pool *Pool) *PriceHistoryStore {
	return &PriceHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// Insert appends a new record. Returns ErrDuplicateKey if the ID exists.
func (s *PriceHistoryStore) Insert(ctx context.Context, r *domain.PriceHistoryRecord) error {
	if r == nil || r.ID == "" || r.ProductID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO price_history (
			id, product_id, timestamp, original_price, dynamic_price,
			demand_score, inventory, competitor_price, strategy_used
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.ID, r.ProductID, r.Timestamp, r.OriginalPrice, r.DynamicPrice,
		r.DemandScore, r.Inventory, r.CompetitorPrice, string(r.StrategyUsed),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert price history record: %w", err)
	}
	return nil
}

// GetSince retrieves records with timestamps at or after since, ordered by
// timestamp ASC, ID ASC. An empty productID matches all products.
func (s *PriceHistoryStore) GetSince(ctx context.Context, productID string, since time.Time) ([]*domain.PriceHistoryRecord, error) {
	query := `
		SELECT
			id, product_id, timestamp, original_price, dynamic_price,
			demand_score, inventory, competitor_price, strategy_used
		FROM price_history
		WHERE timestamp >= $1
		  AND ($2 = '' OR product_id = $2)
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, since, productID)
	if err != nil {
		return nil, fmt.Errorf("get price history since: %w", err)
	}
	defer rows.Close()

	var records []*domain.PriceHistoryRecord
	for rows.Next() {
		var r domain.PriceHistoryRecord
		var strategy string

		err := rows.Scan(
			&r.ID, &r.ProductID, &r.Timestamp, &r.OriginalPrice, &r.DynamicPrice,
			&r.DemandScore, &r.Inventory, &r.CompetitorPrice, &strategy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price history row: %w", err)
		}
		r.StrategyUsed = domain.Strategy(strategy)

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history rows: %w", err)
	}

	return records, nil
}
