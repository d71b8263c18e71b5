package driven

import (
	"context"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// MetadataInspector reads document-level properties and forensic indicators.
type MetadataInspector interface {
	// Supports reports whether the inspector understands the given format.
	Supports(format domain.InputFormat) bool

	// Inspect reads the document at path.
	Inspect(ctx context.Context, path string) (*domain.DocumentMetadata, error)
}
