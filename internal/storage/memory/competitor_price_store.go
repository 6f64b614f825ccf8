package memory

import (
	"context"
	"sync"

	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/storage"
)

// CompetitorPriceStore is an in-memory implementation of storage.CompetitorPriceStore.
type CompetitorPriceStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CompetitorPriceRecord // keyed by record ID
}

// NewCompetitorPriceStore creates a new in-memory competitor price store.
func NewCompetitorPriceStore() *CompetitorPriceStore {
	return &CompetitorPriceStore{
		data: make(map[string]*domain.CompetitorPriceRecord),
	}
}

// Insert adds a new observation. Returns ErrDuplicateKey if the ID exists.
func (s *CompetitorPriceStore) Insert(_ context.Context, r *domain.CompetitorPriceRecord) error {
	if r == nil || r.ID == "" || r.ProductID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.ID] = &copy
	return nil
}

// GetLatestActive retrieves the most recent active record for a product.
// Ties on timestamp break by ID for determinism.
func (s *CompetitorPriceStore) GetLatestActive(_ context.Context, productID string) (*domain.CompetitorPriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.CompetitorPriceRecord
	for _, r := range s.data {
		if !r.IsActive || r.ProductID != productID {
			continue
		}
		if latest == nil ||
			r.Timestamp.After(latest.Timestamp) ||
			(r.Timestamp.Equal(latest.Timestamp) && r.ID > latest.ID) {
			latest = r
		}
	}

	if latest == nil {
		return nil, storage.ErrNotFound
	}

	copy := *latest
	return &copy, nil
}

// GetActiveAverage returns the mean price over active records, 0 when there
// are none. An empty productID averages across all products.
func (s *CompetitorPriceStore) GetActiveAverage(_ context.Context, productID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	count := 0
	for _, r := range s.data {
		if !r.IsActive {
			continue
		}
		if productID != "" && r.ProductID != productID {
			continue
		}
		sum += r.Price
		count++
	}

	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

var _ storage.CompetitorPriceStore = (*CompetitorPriceStore)(nil)
