package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/storage"
)

// PriceHistoryStore is an in-memory implementation of storage.PriceHistoryStore.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PriceHistoryRecord // keyed by record ID
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{
		data: make(map[string]*domain.PriceHistoryRecord),
	}
}

// Insert appends a new record. Returns ErrDuplicateKey if the ID exists.
func (s *PriceHistoryStore) Insert(_ context.Context, r *domain.PriceHistoryRecord) error {
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

// GetSince retrieves records with timestamps at or after since, ordered by
// timestamp ASC, ID ASC. An empty productID matches all products.
func (s *PriceHistoryStore) GetSince(_ context.Context, productID string, since time.Time) ([]*domain.PriceHistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PriceHistoryRecord
	for _, r := range s.data {
		if productID != "" && r.ProductID != productID {
			continue
		}
		if r.Timestamp.Before(since) {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Timestamp.Before(result[j].Timestamp)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)
