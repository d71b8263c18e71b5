package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ocrtables/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
	"github.com/custodia-labs/ocrtables/internal/normalisers/markdown"
)

const statementPage1 = `# Transactions

| Date | Description | Amount |
|------|-------------|--------|
| Jan 3 | Coffee | $-4.50$ |
| Jan 4 | Refund (\$2.00) | 2.00 |
`

const statementPage2 = `| Empty |
|---|

## Summary

| Total | Count |
|---|---|
| $-2.50$ | 2 |
`

type extractionFixture struct {
	service *ExtractionService
	store   *memory.ExtractionStore
	ocr     *mockOCR
	outDir  string
	pdfPath string
}

func newExtractionFixture(t *testing.T, formats ...domain.OutputFormat) *extractionFixture {
	t.Helper()

	inDir := t.TempDir()
	pdfPath := filepath.Join(inDir, "statement.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.7"), 0644))

	if len(formats) == 0 {
		formats = []domain.OutputFormat{domain.OutputCSV}
	}

	ocr := &mockOCR{
		name:    "mock-ocr",
		formats: []domain.InputFormat{domain.FormatPDF},
		pages: []domain.Page{
			{Number: 1, Markdown: statementPage1},
			{Number: 2, Markdown: statementPage2},
		},
	}
	store := memory.NewExtractionStore()
	outDir := t.TempDir()

	service := NewExtractionService(
		[]driven.OCRService{ocr},
		NewMetadataService(&mockInspector{metadata: &domain.DocumentMetadata{PageCount: 2, EOFMarkers: 1}}),
		NewTableService(markdown.New(), 2),
		[]driven.TableWriter{&mockWriter{format: domain.OutputCSV}, &mockWriter{format: domain.OutputXLSX}},
		store,
		ExtractionConfig{OutputDir: outDir, Formats: formats, PreviewRows: 1},
	)

	return &extractionFixture{service: service, store: store, ocr: ocr, outDir: outDir, pdfPath: pdfPath}
}

func TestExtractionService_Extract(t *testing.T) {
	f := newExtractionFixture(t, domain.OutputCSV, domain.OutputXLSX)

	extraction, err := f.service.Extract(context.Background(), f.pdfPath)

	require.NoError(t, err)
	assert.NotEmpty(t, extraction.ID)
	assert.Equal(t, "statement.pdf", extraction.DocumentName)
	assert.Equal(t, domain.FormatPDF, extraction.Format)
	assert.Equal(t, domain.ExtractionCompleted, extraction.Status)
	assert.Equal(t, 2, extraction.PageCount)
	assert.Equal(t, filepath.Join(f.outDir, "statement-"+extraction.ID[:8]), extraction.OutputDir)
	assert.False(t, extraction.CompletedAt.IsZero())

	require.NotNil(t, extraction.Metadata)
	assert.Equal(t, domain.RiskLow, extraction.Metadata.Risk.Level)

	// Table 2 is the empty one on page 2: it consumes an index but is not written.
	require.Len(t, extraction.Tables, 2)

	first := extraction.Tables[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, "Transactions", first.Title)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, first.Header)
	assert.Equal(t, 2, first.RowCount)
	assert.Equal(t, [][]string{{"Jan 3", "Coffee", "$-4.50"}}, first.Preview)
	assert.Equal(t, filepath.Join(extraction.OutputDir, "table_1.csv"), first.Files["csv"])
	assert.Equal(t, filepath.Join(extraction.OutputDir, "table_1.xlsx"), first.Files["xlsx"])

	second := extraction.Tables[1]
	assert.Equal(t, 3, second.Index)
	assert.Equal(t, 2, second.Page)
	assert.Equal(t, "Summary", second.Title)

	content, err := os.ReadFile(first.Files["csv"])
	require.NoError(t, err)
	assert.Equal(t, "Date|Description|Amount\nJan 3|Coffee|$-4.50\nJan 4|Refund ($2.00)|2.00", string(content))

	assert.NoFileExists(t, filepath.Join(extraction.OutputDir, "table_2.csv"))

	text, err := os.ReadFile(extraction.TextPath)
	require.NoError(t, err)
	assert.Equal(t, statementPage1+"\n\n"+statementPage2, string(text))

	stored, err := f.store.Get(context.Background(), extraction.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExtractionCompleted, stored.Status)
	assert.Len(t, stored.Tables, 2)
}

func TestExtractionService_Extract_MarkdownWithoutMetadata(t *testing.T) {
	f := newExtractionFixture(t)
	f.ocr.formats = append(f.ocr.formats, domain.FormatMarkdown)

	mdPath := filepath.Join(t.TempDir(), "scan.md")
	require.NoError(t, os.WriteFile(mdPath, []byte(statementPage1), 0644))

	extraction, err := f.service.Extract(context.Background(), mdPath)

	require.NoError(t, err)
	assert.Equal(t, domain.FormatMarkdown, extraction.Format)
	assert.Nil(t, extraction.Metadata)
	assert.Equal(t, filepath.Join(f.outDir, "scan-"+extraction.ID[:8]), extraction.OutputDir)
}

func TestExtractionService_Extract_UnsupportedType(t *testing.T) {
	f := newExtractionFixture(t)

	_, err := f.service.Extract(context.Background(), "/tmp/photo.png")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Zero(t, f.ocr.calls)
}

func TestExtractionService_Extract_MissingFile(t *testing.T) {
	f := newExtractionFixture(t)

	_, err := f.service.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractionService_Extract_NoOCRForFormat(t *testing.T) {
	f := newExtractionFixture(t)
	f.ocr.formats = nil

	extraction, err := f.service.Extract(context.Background(), f.pdfPath)

	assert.ErrorIs(t, err, domain.ErrOCRUnavailable)
	require.NotNil(t, extraction)
	assert.Equal(t, domain.ExtractionFailed, extraction.Status)
}

func TestExtractionService_Extract_OCRFailureWritesErrorLog(t *testing.T) {
	f := newExtractionFixture(t)
	f.ocr.err = domain.ErrRateLimited

	extraction, err := f.service.Extract(context.Background(), f.pdfPath)

	require.ErrorIs(t, err, domain.ErrRateLimited)
	require.NotNil(t, extraction)
	assert.Equal(t, domain.ExtractionFailed, extraction.Status)
	assert.Contains(t, extraction.Error, "rate limited")
	assert.Equal(t, filepath.Join(extraction.OutputDir, ErrorLogFile), extraction.TextPath)

	log, readErr := os.ReadFile(extraction.TextPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(log), "Error processing document: mock-ocr: rate limited")

	stored, getErr := f.store.Get(context.Background(), extraction.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.ExtractionFailed, stored.Status)
}

func TestExtractionService_Extract_EmptyDocument(t *testing.T) {
	f := newExtractionFixture(t)
	f.ocr.pages = nil

	_, err := f.service.Extract(context.Background(), f.pdfPath)

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestExtractionService_Extract_WriterFailure(t *testing.T) {
	f := newExtractionFixture(t)
	f.service.writers[domain.OutputCSV] = &mockWriter{format: domain.OutputCSV, err: errors.New("disk full")}

	extraction, err := f.service.Extract(context.Background(), f.pdfPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "write table 1 as csv")
	assert.Equal(t, domain.ExtractionFailed, extraction.Status)
}

func TestExtractionService_Extract_MetadataFailureIsNotFatal(t *testing.T) {
	f := newExtractionFixture(t)
	f.service.metadata = NewMetadataService(&mockInspector{err: errors.New("bad trailer")})

	extraction, err := f.service.Extract(context.Background(), f.pdfPath)

	require.NoError(t, err)
	assert.Nil(t, extraction.Metadata)
	assert.Equal(t, domain.ExtractionCompleted, extraction.Status)
}

func TestExtractionService_Extract_CancelledContextStillRecorded(t *testing.T) {
	f := newExtractionFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	// The mock ignores ctx; cancellation is observed by the normaliser.
	cancel()
	extraction, err := f.service.Extract(ctx, f.pdfPath)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, extraction)

	stored, getErr := f.store.Get(context.Background(), extraction.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.ExtractionFailed, stored.Status)
}

func TestExtractionService_ListAndGet(t *testing.T) {
	f := newExtractionFixture(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	f.service.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	first, err := f.service.Extract(context.Background(), f.pdfPath)
	require.NoError(t, err)
	second, err := f.service.Extract(context.Background(), f.pdfPath)
	require.NoError(t, err)

	list, err := f.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	got, err := f.service.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = f.service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractionService_Delete(t *testing.T) {
	f := newExtractionFixture(t)

	extraction, err := f.service.Extract(context.Background(), f.pdfPath)
	require.NoError(t, err)
	require.DirExists(t, extraction.OutputDir)

	require.NoError(t, f.service.Delete(context.Background(), extraction.ID))

	assert.NoDirExists(t, extraction.OutputDir)
	_, err = f.service.Get(context.Background(), extraction.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractionService_Extract_RerunUsesOwnDirectory(t *testing.T) {
	f := newExtractionFixture(t)

	first, err := f.service.Extract(context.Background(), f.pdfPath)
	require.NoError(t, err)
	require.Len(t, first.Tables, 2)
	firstCSV, err := os.ReadFile(first.Tables[0].Files["csv"])
	require.NoError(t, err)

	// The document now holds a single table.
	f.ocr.pages = []domain.Page{{Number: 1, Markdown: "| Z |\n|---|\n| 9 |"}}
	second, err := f.service.Extract(context.Background(), f.pdfPath)
	require.NoError(t, err)
	require.Len(t, second.Tables, 1)

	assert.NotEqual(t, first.OutputDir, second.OutputDir)
	assert.NoFileExists(t, filepath.Join(second.OutputDir, "table_3.csv"))
	assert.FileExists(t, filepath.Join(first.OutputDir, "table_3.csv"))

	unchanged, err := os.ReadFile(first.Tables[0].Files["csv"])
	require.NoError(t, err)
	assert.Equal(t, string(firstCSV), string(unchanged))

	require.NoError(t, f.service.Delete(context.Background(), first.ID))
	assert.NoDirExists(t, first.OutputDir)
	assert.DirExists(t, second.OutputDir)
}

func TestExtractionService_Delete_NotFound(t *testing.T) {
	f := newExtractionFixture(t)

	err := f.service.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractionService_NilStore(t *testing.T) {
	service := NewExtractionService(nil, nil, nil, nil, nil, ExtractionConfig{})

	_, err := service.Extract(context.Background(), "a.pdf")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = service.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = service.Get(context.Background(), "id")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Delete(context.Background(), "id"), domain.ErrNotImplemented)
}
