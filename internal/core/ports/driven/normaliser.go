package driven

import (
	"context"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// Normaliser transforms one page of OCR markdown into tables.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise segments the page and normalises every candidate block.
	// Malformed input never fails; it degrades to fewer or emptier tables.
	Normalise(ctx context.Context, page domain.Page) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation for one page.
type NormaliseResult struct {
	// Tables holds one table per candidate block, in order of appearance.
	// Empty tables are kept so callers can number tables consistently;
	// they must be discarded before persistence.
	Tables []domain.Table
}

// NonEmpty returns only the tables that carry data rows.
func (r *NormaliseResult) NonEmpty() []domain.Table {
	out := make([]domain.Table, 0, len(r.Tables))
	for _, t := range r.Tables {
		if !t.IsEmpty() {
			out = append(out, t)
		}
	}
	return out
}
