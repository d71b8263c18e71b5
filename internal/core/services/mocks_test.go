package services

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
)

// mockOCR returns fixed pages for the formats it supports.
type mockOCR struct {
	name    string
	formats []domain.InputFormat
	pages   []domain.Page
	err     error
	calls   int
}

var _ driven.OCRService = (*mockOCR)(nil)

func (m *mockOCR) Name() string { return m.name }

func (m *mockOCR) Supports(format domain.InputFormat) bool {
	for _, f := range m.formats {
		if f == format {
			return true
		}
	}
	return false
}

func (m *mockOCR) Process(_ context.Context, _ domain.SourceDocument) ([]domain.Page, error) {
	m.calls++
	return m.pages, m.err
}

// mockWriter writes the header and rows as pipe-joined lines.
type mockWriter struct {
	format domain.OutputFormat
	err    error
}

var _ driven.TableWriter = (*mockWriter)(nil)

func (m *mockWriter) Format() domain.OutputFormat { return m.format }

func (m *mockWriter) Write(_ context.Context, table domain.Table, basePath string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	lines := []string{strings.Join(table.Header, "|")}
	for _, row := range table.Rows {
		lines = append(lines, strings.Join(row, "|"))
	}
	path := basePath + "." + m.format.String()
	return path, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644)
}

// mockInspector returns a canned report for PDFs.
type mockInspector struct {
	metadata *domain.DocumentMetadata
	err      error
}

var _ driven.MetadataInspector = (*mockInspector)(nil)

func (m *mockInspector) Supports(format domain.InputFormat) bool { return format == domain.FormatPDF }

func (m *mockInspector) Inspect(_ context.Context, _ string) (*domain.DocumentMetadata, error) {
	if m.err != nil {
		return nil, m.err
	}
	clone := *m.metadata
	return &clone, nil
}
