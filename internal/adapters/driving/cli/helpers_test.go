package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/ocrtables/internal/adapters/driven/ocr/passthrough"
	"github.com/custodia-labs/ocrtables/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ocrtables/internal/adapters/driven/writer/csvwriter"
	"github.com/custodia-labs/ocrtables/internal/adapters/driving/watcher"
	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
	"github.com/custodia-labs/ocrtables/internal/core/services"
	"github.com/custodia-labs/ocrtables/internal/normalisers/markdown"
)

const statementMarkdown = `# Account Statement

| Date | Description | Amount |
|------|-------------|--------|
| 01/02 | Coffee | $-5.00$ |
| 01/03 | Salary | 1,200.00 |
`

// stubMetadataService returns a fixed report for any path.
type stubMetadataService struct {
	metadata *domain.DocumentMetadata
	err      error
}

func (s *stubMetadataService) Inspect(_ context.Context, _ string) (*domain.DocumentMetadata, error) {
	return s.metadata, s.err
}

// testOutputDir is where extractions made through setupTestServices are written.
var testOutputDir string

// setupTestServices wires real services over in-memory stores and returns
// a cleanup function that restores the previous state.
func setupTestServices() func() {
	origTables := tableService
	origExtraction := extractionService
	origMetadata := metadataService
	origSettings := settingsService

	dir, err := os.MkdirTemp("", "ocrtables-cli-*")
	if err != nil {
		panic(err)
	}
	testOutputDir = filepath.Join(dir, "output")

	settings := services.NewSettingsService(memory.NewConfigStore())
	if err := settings.SetOutput(testOutputDir, []domain.OutputFormat{domain.OutputCSV}); err != nil {
		panic(err)
	}

	tables := services.NewTableService(markdown.New(), 2)
	extraction := services.NewExtractionService(
		[]driven.OCRService{passthrough.New()},
		nil,
		tables,
		[]driven.TableWriter{csvwriter.New()},
		memory.NewExtractionStore(),
		services.ExtractionConfig{
			OutputDir:   testOutputDir,
			Formats:     []domain.OutputFormat{domain.OutputCSV},
			PreviewRows: domain.DefaultPreviewRows,
		},
	)

	tableService = tables
	extractionService = extraction
	settingsService = settings
	metadataService = &stubMetadataService{metadata: sampleMetadata()}

	return func() {
		tableService = origTables
		extractionService = origExtraction
		metadataService = origMetadata
		settingsService = origSettings
		resetFlags()
		_ = os.RemoveAll(dir)
	}
}

// resetFlags restores command flag variables, which persist across executions.
func resetFlags() {
	parseFormat = parseFormatPreview
	parseRows = 0
	metadataJSON = false
	serveAddr = ""
	ocrAPIKey = ""
	ocrModel = domain.DefaultOCRModel
	ocrBaseURL = domain.DefaultOCRBaseURL
	outputDir = ""
	outputFormats = nil
	watchDebounce = watcher.DefaultDebounce
}

// execute runs the root command with args and returns its combined output.
func execute(stdin string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTestFile writes content to name inside a fresh directory.
func writeTestFile(name, content string) (string, func()) {
	dir, err := os.MkdirTemp("", "ocrtables-input-*")
	if err != nil {
		panic(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		panic(err)
	}
	return path, func() { _ = os.RemoveAll(dir) }
}

func sampleMetadata() *domain.DocumentMetadata {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := &domain.DocumentMetadata{
		Info: domain.DocumentInfo{
			Title:        "Monthly Statement",
			Creator:      "Microsoft Word",
			Producer:     "Adobe PDF Library",
			CreationDate: "D:20240101120000Z",
			ModDate:      "D:20240305090000Z",
			Created:      &created,
			Extra:        map[string]string{"Department": "Retail"},
		},
		PageCount:  1,
		EOFMarkers: 2,
		HasXMP:     true,
	}
	m.Assess()
	return m
}
