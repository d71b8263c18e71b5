package domain

import (
	"path/filepath"
	"strings"
)

// InputFormat identifies how a source document reaches the table core.
type InputFormat string

// Supported input formats.
const (
	// FormatPDF documents are sent to the OCR service.
	FormatPDF InputFormat = "pdf"

	// FormatMarkdown documents are already OCR output and pass straight through.
	FormatMarkdown InputFormat = "markdown"

	// FormatUnknown is any other extension.
	FormatUnknown InputFormat = ""
)

// FormatFromPath infers the input format from a file extension.
func FormatFromPath(path string) InputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF
	case ".md", ".markdown", ".txt":
		return FormatMarkdown
	default:
		return FormatUnknown
	}
}

// IsValid returns true if the format is supported.
func (f InputFormat) IsValid() bool {
	return f == FormatPDF || f == FormatMarkdown
}

// MIMEType returns the content type used when uploading the document.
func (f InputFormat) MIMEType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatMarkdown:
		return "text/markdown"
	default:
		return "application/octet-stream"
	}
}

// SourceDocument is an input file handed to the extraction pipeline.
type SourceDocument struct {
	// Path is the location on disk.
	Path string

	// Name is the base file name, used for output naming.
	Name string

	// Format is the detected input format.
	Format InputFormat

	// Content is the raw file bytes.
	Content []byte
}

// Stem returns the file name without its extension.
func (d SourceDocument) Stem() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}
