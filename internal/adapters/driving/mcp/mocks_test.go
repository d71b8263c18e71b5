package mcp

import (
	"context"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// mockTableService is a mock implementation of driving.TableService.
type mockTableService struct {
	results []domain.PageTables
	pages   []domain.Page
	err     error
}

func (m *mockTableService) Parse(_ context.Context, _ string) ([]domain.Table, error) {
	var tables []domain.Table
	for _, r := range m.results {
		tables = append(tables, r.Tables...)
	}
	return tables, m.err
}

func (m *mockTableService) ParsePages(_ context.Context, pages []domain.Page) ([]domain.PageTables, error) {
	m.pages = pages
	return m.results, m.err
}

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	extractions []domain.Extraction
	extraction  *domain.Extraction
	path        string
	err         error
}

func (m *mockExtractionService) Extract(_ context.Context, path string) (*domain.Extraction, error) {
	m.path = path
	return m.extraction, m.err
}

func (m *mockExtractionService) Get(_ context.Context, id string) (*domain.Extraction, error) {
	if m.extraction == nil || m.extraction.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.extraction, m.err
}

func (m *mockExtractionService) List(_ context.Context) ([]domain.Extraction, error) {
	return m.extractions, m.err
}

func (m *mockExtractionService) Delete(_ context.Context, _ string) error {
	return m.err
}

func sampleExtraction() *domain.Extraction {
	return &domain.Extraction{
		ID:           "ext-1",
		DocumentName: "statement.pdf",
		Format:       domain.FormatPDF,
		OutputDir:    "/out/statement",
		PageCount:    2,
		Status:       domain.ExtractionCompleted,
		Tables: []domain.ExtractedTable{{
			Index:    1,
			Page:     1,
			Title:    "Transactions",
			Header:   []string{"Date", "Amount"},
			RowCount: 3,
			Files:    map[string]string{"csv": "/out/statement/table_1.csv"},
		}},
		Metadata: &domain.DocumentMetadata{
			PageCount: 2,
			Risk:      domain.RiskAssessment{Level: domain.RiskMedium},
		},
	}
}
