package domain

import (
	"errors"
	"fmt"
)

const unknownDescription = "Unknown"

// OutputFormat identifies a table serialisation written by the pipeline.
type OutputFormat string

// Available output formats.
const (
	// OutputCSV writes comma-separated values.
	OutputCSV OutputFormat = "csv"

	// OutputXLSX writes an unformatted spreadsheet.
	OutputXLSX OutputFormat = "xlsx"
)

// IsValid returns true if the output format is recognised.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputCSV, OutputXLSX:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f OutputFormat) String() string {
	return string(f)
}

// Description returns a human-readable description of the format.
func (f OutputFormat) Description() string {
	switch f {
	case OutputCSV:
		return "CSV (comma-separated values)"
	case OutputXLSX:
		return "Excel workbook (unformatted)"
	default:
		return unknownDescription
	}
}

// AllOutputFormats returns every supported output format.
func AllOutputFormats() []OutputFormat {
	return []OutputFormat{OutputCSV, OutputXLSX}
}

// Default configuration values.
const (
	DefaultOCRBaseURL        = "https://api.mistral.ai/v1"
	DefaultOCRModel          = "mistral-ocr-latest"
	DefaultRequestsPerSecond = 1.0
	DefaultPreviewRows       = 5
	DefaultServerAddr        = ":8000"
	DefaultWorkers           = 4
)

// OCRSettings holds OCR provider configuration.
type OCRSettings struct {
	// APIKey is the provider API key.
	APIKey string

	// BaseURL is the API endpoint.
	BaseURL string

	// Model is the OCR model name.
	Model string

	// RequestsPerSecond throttles calls to the provider.
	RequestsPerSecond float64

	// IncludeImages asks the provider to return embedded page images.
	IncludeImages bool
}

// IsConfigured returns true if OCR calls can be made.
func (o OCRSettings) IsConfigured() bool {
	return o.APIKey != ""
}

// OutputSettings controls where and how tables are written.
type OutputSettings struct {
	// Dir is the root output directory; each document gets a subdirectory.
	Dir string

	// Formats lists the serialisations written for every table.
	Formats []OutputFormat

	// PreviewRows is how many rows are kept on extraction records.
	PreviewRows int
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string
}

// PipelineSettings tunes page processing.
type PipelineSettings struct {
	// Workers bounds how many pages are parsed concurrently.
	Workers int
}

// Settings holds all application settings.
type Settings struct {
	OCR      OCRSettings
	Output   OutputSettings
	Server   ServerSettings
	Pipeline PipelineSettings
}

// DefaultSettings returns settings with sensible defaults.
// OCR is left unconfigured; markdown inputs work without it.
func DefaultSettings() Settings {
	return Settings{
		OCR: OCRSettings{
			BaseURL:           DefaultOCRBaseURL,
			Model:             DefaultOCRModel,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Output: OutputSettings{
			Dir:         "output",
			Formats:     AllOutputFormats(),
			PreviewRows: DefaultPreviewRows,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
		Pipeline: PipelineSettings{
			Workers: DefaultWorkers,
		},
	}
}

// Validate checks the settings for values the pipeline cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.Output.Dir == "" {
		errs = append(errs, errors.New("output directory is empty"))
	}
	if len(s.Output.Formats) == 0 {
		errs = append(errs, errors.New("no output formats configured"))
	}
	for _, f := range s.Output.Formats {
		if !f.IsValid() {
			errs = append(errs, fmt.Errorf("unknown output format %q", f))
		}
	}
	if s.OCR.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("ocr requests per second must not be negative"))
	}
	if s.Pipeline.Workers < 1 {
		errs = append(errs, errors.New("pipeline workers must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
