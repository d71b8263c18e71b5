package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
)

// Ensure ExtractionStore implements the interface.
var _ driven.ExtractionStore = (*ExtractionStore)(nil)

// ExtractionStore is an in-memory implementation of driven.ExtractionStore.
// Records are copied on the way in and out so callers cannot mutate stored state.
type ExtractionStore struct {
	mu          sync.RWMutex
	extractions map[string]domain.Extraction
}

// NewExtractionStore creates a new in-memory extraction store.
func NewExtractionStore() *ExtractionStore {
	return &ExtractionStore{
		extractions: make(map[string]domain.Extraction),
	}
}

// Save stores or updates an extraction.
func (s *ExtractionStore) Save(_ context.Context, extraction *domain.Extraction) error {
	if extraction == nil {
		return fmt.Errorf("saving extraction: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.extractions[extraction.ID] = cloneExtraction(*extraction)
	return nil
}

// Get retrieves an extraction by ID.
func (s *ExtractionStore) Get(_ context.Context, id string) (*domain.Extraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	extraction, ok := s.extractions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := cloneExtraction(extraction)
	return &clone, nil
}

// List returns all extractions, newest first.
func (s *ExtractionStore) List(_ context.Context) ([]domain.Extraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Extraction, 0, len(s.extractions))
	for _, extraction := range s.extractions {
		result = append(result, cloneExtraction(extraction))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes an extraction.
func (s *ExtractionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.extractions, id)
	return nil
}

func cloneExtraction(e domain.Extraction) domain.Extraction {
	e.Tables = slices.Clone(e.Tables)
	for i := range e.Tables {
		table := &e.Tables[i]
		table.Header = slices.Clone(table.Header)
		table.Files = maps.Clone(table.Files)
		table.Preview = slices.Clone(table.Preview)
		for j := range table.Preview {
			table.Preview[j] = slices.Clone(table.Preview[j])
		}
	}

	if e.Metadata != nil {
		metadata := *e.Metadata
		e.Metadata = &metadata
	}
	return e
}
