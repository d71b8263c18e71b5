package domain

import "time"

// ExtractionStatus tracks the lifecycle of an extraction run.
type ExtractionStatus string

// Extraction statuses.
const (
	// ExtractionRunning is set while pages are being processed.
	ExtractionRunning ExtractionStatus = "running"

	// ExtractionCompleted means every page was processed.
	ExtractionCompleted ExtractionStatus = "completed"

	// ExtractionFailed means the run stopped early; Error holds the reason.
	ExtractionFailed ExtractionStatus = "failed"
)

// IsTerminal returns true once the extraction can no longer change.
func (s ExtractionStatus) IsTerminal() bool {
	return s == ExtractionCompleted || s == ExtractionFailed
}

// ExtractedTable is a persisted table produced by an extraction.
type ExtractedTable struct {
	// Index is the 1-based position of the table across the whole document.
	Index int

	// Page is the 1-based page the table was found on.
	Page int

	// Title is the caption of the table, if any.
	Title string

	// Header is the table header.
	Header []string

	// RowCount is the number of data rows written.
	RowCount int

	// Files maps output format (e.g. "csv") to the written file path.
	Files map[string]string

	// Preview holds the first few rows for display.
	Preview [][]string
}

// Extraction records one run of the pipeline over a source document.
type Extraction struct {
	// ID is the unique identifier of the run.
	ID string

	// DocumentName is the base name of the input file.
	DocumentName string

	// Format is the input format.
	Format InputFormat

	// OutputDir is where tables and text were written.
	OutputDir string

	// PageCount is the number of pages returned by OCR.
	PageCount int

	// Tables are the non-empty tables written, in document order.
	Tables []ExtractedTable

	// TextPath is the full-text (or error log) file written alongside the tables.
	TextPath string

	// Metadata holds document-level properties when they could be read.
	Metadata *DocumentMetadata

	// Status is the lifecycle state.
	Status ExtractionStatus

	// Error holds the failure reason for failed runs.
	Error string

	// CreatedAt is when the run started.
	CreatedAt time.Time

	// CompletedAt is when the run reached a terminal status.
	CompletedAt time.Time
}

// Duration returns how long the run took, or zero while running.
func (e Extraction) Duration() time.Duration {
	if e.CompletedAt.IsZero() {
		return 0
	}
	return e.CompletedAt.Sub(e.CreatedAt)
}
