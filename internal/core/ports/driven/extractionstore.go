package driven

import (
	"context"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// ExtractionStore persists extraction records.
type ExtractionStore interface {
	// Save stores or updates an extraction.
	Save(ctx context.Context, extraction *domain.Extraction) error

	// Get retrieves an extraction by ID.
	// Returns domain.ErrNotFound when it does not exist.
	Get(ctx context.Context, id string) (*domain.Extraction, error)

	// List returns all extractions, newest first.
	List(ctx context.Context) ([]domain.Extraction, error)

	// Delete removes an extraction record.
	Delete(ctx context.Context, id string) error
}
