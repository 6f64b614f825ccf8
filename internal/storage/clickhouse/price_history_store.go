package clickhouse

import (
	"context"
	"fmt"
	"time"

	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
// Suited for analytics-heavy deployments where the decision log grows large.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// Insert appends a new record. MergeTree has no unique constraint, so
// duplicates are detected with an existence check before the insert.
func (s *PriceHistoryStore) Insert(ctx context.Context, r *domain.PriceHistoryRecord) error {
	if r == nil || r.ID == "" || r.ProductID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (
			id, product_id, timestamp, original_price, dynamic_price,
			demand_score, inventory, competitor_price, strategy_used
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		r.ID, r.ProductID, r.Timestamp, r.OriginalPrice, r.DynamicPrice,
		int32(r.DemandScore), int32(r.Inventory), r.CompetitorPrice, string(r.StrategyUsed),
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetSince retrieves records with timestamps at or after since, ordered by
// timestamp ASC, id ASC. An empty productID matches all products.
func (s *PriceHistoryStore) GetSince(ctx context.Context, productID string, since time.Time) ([]*domain.PriceHistoryRecord, error) {
	query := `
		SELECT
			id, product_id, timestamp, original_price, dynamic_price,
			demand_score, inventory, competitor_price, strategy_used
		FROM price_history
		WHERE timestamp >= ?
		  AND (? = '' OR product_id = ?)
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.conn.Query(ctx, query, since, productID, productID)
	if err != nil {
		return nil, fmt.Errorf("get price history since: %w", err)
	}
	defer rows.Close()

	var records []*domain.PriceHistoryRecord
	for rows.Next() {
		var (
			r           domain.PriceHistoryRecord
			demandScore int32
			inventory   int32
			strategy    string
		)

		err := rows.Scan(
			&r.ID, &r.ProductID, &r.Timestamp, &r.OriginalPrice, &r.DynamicPrice,
			&demandScore, &inventory, &r.CompetitorPrice, &strategy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price history row: %w", err)
		}
		r.DemandScore = int(demandScore)
		r.Inventory = int(inventory)
		r.StrategyUsed = domain.Strategy(strategy)

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history rows: %w", err)
	}

	return records, nil
}

// exists checks whether a record ID is already present.
func (s *PriceHistoryStore) exists(ctx context.Context, id string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, "SELECT count() FROM price_history WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
