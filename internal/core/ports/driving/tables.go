package driving

import (
	"context"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// TableService runs the markdown table core over in-memory text.
type TableService interface {
	// Parse returns the non-empty tables found in one page of markdown.
	Parse(ctx context.Context, markdown string) ([]domain.Table, error)

	// ParsePages processes pages concurrently and returns per-page results
	// in page order. Empty tables are kept for numbering.
	ParsePages(ctx context.Context, pages []domain.Page) ([]domain.PageTables, error)
}
