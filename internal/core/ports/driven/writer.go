package driven

import (
	"context"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// TableWriter serialises a rectangular table to a file.
type TableWriter interface {
	// Format returns the output format this writer produces.
	Format() domain.OutputFormat

	// Write stores the table at basePath plus the format's extension
	// and returns the path written.
	Write(ctx context.Context, table domain.Table, basePath string) (string, error)
}
