package driven

import (
	"context"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// OCRService converts a source document into page markdown.
// Implementations may call a remote API or read pre-processed text.
type OCRService interface {
	// Name identifies the implementation for logging.
	Name() string

	// Supports reports whether the service can process the given format.
	Supports(format domain.InputFormat) bool

	// Process returns the document's pages in order.
	Process(ctx context.Context, doc domain.SourceDocument) ([]domain.Page, error)
}
