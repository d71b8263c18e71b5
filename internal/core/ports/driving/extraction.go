package driving

import (
	"context"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// ExtractionService runs the full pipeline over documents on disk
// and manages the resulting history.
type ExtractionService interface {
	// Extract processes the document at path and records the run.
	Extract(ctx context.Context, path string) (*domain.Extraction, error)

	// Get retrieves a recorded extraction.
	Get(ctx context.Context, id string) (*domain.Extraction, error)

	// List returns recorded extractions, newest first.
	List(ctx context.Context) ([]domain.Extraction, error)

	// Delete removes a recorded extraction and its output files.
	Delete(ctx context.Context, id string) error
}
