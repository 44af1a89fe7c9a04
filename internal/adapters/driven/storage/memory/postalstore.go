package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure PostalCodeStore implements the interface.
var _ driven.PostalCodeStore = (*PostalCodeStore)(nil)

// PostalCodeStore is an in-memory implementation of driven.PostalCodeStore.
type PostalCodeStore struct {
	mu      sync.RWMutex
	entries map[string]domain.PostalCode
}

// NewPostalCodeStore creates a new in-memory postal code store.
func NewPostalCodeStore() *PostalCodeStore {
	return &PostalCodeStore{entries: make(map[string]domain.PostalCode)}
}

// SaveBatch stores entries keyed by code and colonia.
func (s *PostalCodeStore) SaveBatch(_ context.Context, entries []domain.PostalCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.Code+"|"+e.Colonia] = e
	}
	return nil
}

// ListByCode returns the colonias of a postal code.
func (s *PostalCodeStore) ListByCode(_ context.Context, code string) ([]domain.PostalCode, error) {
	return s.collect(func(e *domain.PostalCode) bool { return e.Code == code }, 0), nil
}

// Search returns entries whose search key contains key.
func (s *PostalCodeStore) Search(_ context.Context, key string, limit int) ([]domain.PostalCode, error) {
	return s.collect(func(e *domain.PostalCode) bool { return strings.Contains(e.SearchKey, key) }, limit), nil
}

// Count returns the number of stored entries.
func (s *PostalCodeStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *PostalCodeStore) collect(match func(*domain.PostalCode) bool, limit int) []domain.PostalCode {
	s.mu.RLock()
	result := make([]domain.PostalCode, 0)
	for _, e := range s.entries {
		if match(&e) {
			result = append(result, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Code != result[j].Code {
			return result[i].Code < result[j].Code
		}
		return result[i].Colonia < result[j].Colonia
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
