package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driving"
	"github.com/custodia-labs/ocrtables/internal/logger"
)

// Ensure TableService implements the interface.
var _ driving.TableService = (*TableService)(nil)

// TableService runs a page normaliser over markdown.
type TableService struct {
	normaliser driven.Normaliser
	workers    int
}

// NewTableService creates a table service.
// workers bounds concurrent page parsing; values below 1 mean one page at a time.
func NewTableService(normaliser driven.Normaliser, workers int) *TableService {
	if workers < 1 {
		workers = 1
	}
	return &TableService{
		normaliser: normaliser,
		workers:    workers,
	}
}

// Parse returns the non-empty tables in one page of markdown.
func (s *TableService) Parse(ctx context.Context, markdown string) ([]domain.Table, error) {
	if s.normaliser == nil {
		return nil, domain.ErrNotImplemented
	}

	result, err := s.normaliser.Normalise(ctx, domain.Page{Number: 1, Markdown: markdown})
	if err != nil {
		return nil, fmt.Errorf("normalise markdown: %w", err)
	}
	return result.NonEmpty(), nil
}

// ParsePages normalises pages concurrently. Results are returned in the
// order the pages were given, regardless of completion order.
func (s *TableService) ParsePages(ctx context.Context, pages []domain.Page) ([]domain.PageTables, error) {
	if s.normaliser == nil {
		return nil, domain.ErrNotImplemented
	}

	results := make([]domain.PageTables, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, page := range pages {
		g.Go(func() error {
			result, err := s.normaliser.Normalise(gctx, page)
			if err != nil {
				return fmt.Errorf("normalise page %d: %w", page.Number, err)
			}
			logger.Debug("page %d: %d candidate tables", page.Number, len(result.Tables))
			results[i] = domain.PageTables{Page: page.Number, Tables: result.Tables}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
