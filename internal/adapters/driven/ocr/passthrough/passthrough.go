// Package passthrough provides an OCR service for documents that are
// already markdown, such as saved OCR output.
package passthrough

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
)

// Ensure OCRService implements the interface.
var _ driven.OCRService = (*OCRService)(nil)

// PageBreak separates pages in a markdown input.
const PageBreak = "\f"

// OCRService splits markdown input into pages without calling any API.
type OCRService struct{}

// New creates a passthrough OCR service.
func New() *OCRService {
	return &OCRService{}
}

// Name identifies the service for logging.
func (s *OCRService) Name() string {
	return "passthrough"
}

// Supports reports whether the service can process the given format.
func (s *OCRService) Supports(format domain.InputFormat) bool {
	return format == domain.FormatMarkdown
}

// Process splits the content on form feeds. Blank trailing pages are dropped.
func (s *OCRService) Process(ctx context.Context, doc domain.SourceDocument) ([]domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts := strings.Split(norm.NFC.String(string(doc.Content)), PageBreak)
	for len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	pages := make([]domain.Page, len(parts))
	for i, part := range parts {
		pages[i] = domain.Page{Number: i + 1, Markdown: part}
	}
	return pages, nil
}
