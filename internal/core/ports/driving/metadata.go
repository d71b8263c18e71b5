package driving

import (
	"context"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// MetadataService inspects document-level properties.
type MetadataService interface {
	// Inspect reads metadata and assesses forensic risk for the document at path.
	Inspect(ctx context.Context, path string) (*domain.DocumentMetadata, error)
}
