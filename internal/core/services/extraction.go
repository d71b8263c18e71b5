package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driving"
	"github.com/custodia-labs/ocrtables/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// Files written next to the tables of every extraction.
const (
	FullTextFile = "full_text.txt"
	ErrorLogFile = "error_log.txt"
)

// runIDPrefix is how much of the extraction ID is kept in directory names.
const runIDPrefix = 8

// ExtractionConfig controls where and how an extraction is written.
type ExtractionConfig struct {
	// OutputDir is the root directory; each run gets <OutputDir>/<stem>-<id prefix>.
	OutputDir string

	// Formats lists the serialisations written for every table.
	Formats []domain.OutputFormat

	// PreviewRows is how many rows are kept on the extraction record.
	PreviewRows int
}

// ExtractionService runs the full pipeline: OCR, table parsing, writing and history.
type ExtractionService struct {
	ocr      []driven.OCRService
	metadata driving.MetadataService
	tables   driving.TableService
	writers  map[domain.OutputFormat]driven.TableWriter
	store    driven.ExtractionStore
	config   ExtractionConfig
	now      func() time.Time
}

// NewExtractionService creates a new extraction service.
// ocr services are tried in order; the first that supports the input wins.
// metadata may be nil, in which case no document metadata is recorded.
func NewExtractionService(
	ocr []driven.OCRService,
	metadata driving.MetadataService,
	tables driving.TableService,
	writers []driven.TableWriter,
	store driven.ExtractionStore,
	config ExtractionConfig,
) *ExtractionService {
	byFormat := make(map[domain.OutputFormat]driven.TableWriter, len(writers))
	for _, w := range writers {
		byFormat[w.Format()] = w
	}

	return &ExtractionService{
		ocr:      ocr,
		metadata: metadata,
		tables:   tables,
		writers:  byFormat,
		store:    store,
		config:   config,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Extract processes the document at path and records the run.
// When a run fails after it has started, the failed record is returned
// together with the error.
func (s *ExtractionService) Extract(ctx context.Context, path string) (*domain.Extraction, error) {
	if s.store == nil || s.tables == nil {
		return nil, domain.ErrNotImplemented
	}

	format := domain.FormatFromPath(path)
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc := domain.SourceDocument{
		Path:    path,
		Name:    filepath.Base(path),
		Format:  format,
		Content: content,
	}

	id := uuid.New().String()
	extraction := &domain.Extraction{
		ID:           id,
		DocumentName: doc.Name,
		Format:       format,
		OutputDir:    filepath.Join(s.config.OutputDir, runDirName(doc.Stem(), id)),
		Status:       domain.ExtractionRunning,
		CreatedAt:    s.now(),
	}

	logger.Section("Extract " + doc.Name)
	logger.Info("extraction %s: %s (%s)", extraction.ID, doc.Name, format)

	if err := s.store.Save(ctx, extraction); err != nil {
		return nil, fmt.Errorf("save extraction: %w", err)
	}

	extraction.Metadata = s.inspect(ctx, doc)

	pages, err := s.recognise(ctx, doc)
	if err != nil {
		return s.fail(ctx, extraction, err)
	}
	extraction.PageCount = len(pages)
	logger.Info("%d pages recognised", len(pages))

	results, err := s.tables.ParsePages(ctx, pages)
	if err != nil {
		return s.fail(ctx, extraction, err)
	}

	if err := os.MkdirAll(extraction.OutputDir, 0755); err != nil {
		return s.fail(ctx, extraction, fmt.Errorf("create output directory: %w", err))
	}

	tables, err := s.writeTables(ctx, extraction.OutputDir, results)
	if err != nil {
		return s.fail(ctx, extraction, err)
	}
	extraction.Tables = tables

	textPath := filepath.Join(extraction.OutputDir, FullTextFile)
	if err := os.WriteFile(textPath, []byte(joinPages(pages)), 0644); err != nil {
		return s.fail(ctx, extraction, fmt.Errorf("write full text: %w", err))
	}
	extraction.TextPath = textPath

	extraction.Status = domain.ExtractionCompleted
	extraction.CompletedAt = s.now()
	if err := s.store.Save(ctx, extraction); err != nil {
		return extraction, fmt.Errorf("save extraction: %w", err)
	}

	logger.Info("extraction %s completed: %d tables in %s",
		extraction.ID, len(extraction.Tables), extraction.Duration())
	return extraction, nil
}

// Get retrieves a recorded extraction.
func (s *ExtractionService) Get(ctx context.Context, id string) (*domain.Extraction, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Get(ctx, id)
}

// List returns recorded extractions, newest first.
func (s *ExtractionService) List(ctx context.Context) ([]domain.Extraction, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// Delete removes a recorded extraction and its output files.
func (s *ExtractionService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}

	extraction, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete extraction: %w", err)
	}

	if extraction.OutputDir == "" {
		return nil
	}
	if err := os.RemoveAll(extraction.OutputDir); err != nil {
		return fmt.Errorf("remove output directory: %w", err)
	}
	return nil
}

// inspect reads document metadata. Failures are logged, never fatal.
func (s *ExtractionService) inspect(ctx context.Context, doc domain.SourceDocument) *domain.DocumentMetadata {
	if s.metadata == nil {
		return nil
	}

	metadata, err := s.metadata.Inspect(ctx, doc.Path)
	switch {
	case errors.Is(err, domain.ErrUnsupportedType):
		return nil
	case err != nil:
		logger.Warn("metadata for %s: %v", doc.Name, err)
		return nil
	}
	return metadata
}

// recognise picks the first OCR service supporting the document and runs it.
func (s *ExtractionService) recognise(ctx context.Context, doc domain.SourceDocument) ([]domain.Page, error) {
	for _, ocr := range s.ocr {
		if !ocr.Supports(doc.Format) {
			continue
		}

		logger.Debug("using %s for %s", ocr.Name(), doc.Name)
		pages, err := ocr.Process(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ocr.Name(), err)
		}
		if len(pages) == 0 {
			return nil, domain.ErrEmptyDocument
		}
		return pages, nil
	}
	return nil, fmt.Errorf("%w for %s input", domain.ErrOCRUnavailable, doc.Format)
}

// writeTables numbers tables across the whole document, skips empty ones
// and writes every configured format for the rest.
func (s *ExtractionService) writeTables(
	ctx context.Context,
	dir string,
	results []domain.PageTables,
) ([]domain.ExtractedTable, error) {
	var written []domain.ExtractedTable
	index := 0

	for _, page := range results {
		for _, table := range page.Tables {
			index++
			if table.IsEmpty() {
				logger.Debug("table %d on page %d is empty, skipped", index, page.Page)
				continue
			}

			files := make(map[string]string, len(s.config.Formats))
			basePath := filepath.Join(dir, fmt.Sprintf("table_%d", index))
			for _, format := range s.config.Formats {
				writer, ok := s.writers[format]
				if !ok {
					logger.Warn("no writer for output format %s", format)
					continue
				}
				path, err := writer.Write(ctx, table, basePath)
				if err != nil {
					return nil, fmt.Errorf("write table %d as %s: %w", index, format, err)
				}
				files[format.String()] = path
			}

			logger.Info("table %d (page %d): %d columns, %d rows", index, page.Page, table.Width(), len(table.Rows))
			written = append(written, domain.ExtractedTable{
				Index:    index,
				Page:     page.Page,
				Title:    table.Title,
				Header:   table.Header,
				RowCount: len(table.Rows),
				Files:    files,
				Preview:  table.Preview(s.config.PreviewRows),
			})
		}
	}

	return written, nil
}

// fail records a failed run and writes the error log next to the outputs.
func (s *ExtractionService) fail(ctx context.Context, extraction *domain.Extraction, cause error) (*domain.Extraction, error) {
	logger.Error("extraction %s failed: %v", extraction.ID, cause)

	extraction.Status = domain.ExtractionFailed
	extraction.Error = cause.Error()
	extraction.CompletedAt = s.now()

	if err := os.MkdirAll(extraction.OutputDir, 0755); err == nil {
		logPath := filepath.Join(extraction.OutputDir, ErrorLogFile)
		if err := os.WriteFile(logPath, []byte("Error processing document: "+cause.Error()+"\n"), 0644); err == nil {
			extraction.TextPath = logPath
		}
	}

	// Use a fresh context so a cancelled run is still recorded.
	saveCtx := context.WithoutCancel(ctx)
	if err := s.store.Save(saveCtx, extraction); err != nil {
		return extraction, errors.Join(cause, fmt.Errorf("save extraction: %w", err))
	}
	return extraction, cause
}

// runDirName names the output directory of one run, so re-runs of the same
// document never share files.
func runDirName(stem, id string) string {
	if len(id) > runIDPrefix {
		id = id[:runIDPrefix]
	}
	return stem + "-" + id
}

func joinPages(pages []domain.Page) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = p.Markdown
	}
	return strings.Join(parts, "\n\n")
}
