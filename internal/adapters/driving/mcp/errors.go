// Package mcp provides an MCP (Model Context Protocol) server adapter for ocrtables.
// It lets AI assistants parse OCR markdown tables and run document extractions.
package mcp

import "errors"

// ErrMissingTableService is returned when the table service is not provided.
var ErrMissingTableService = errors.New("mcp: table service is required")

// ErrExtractionUnavailable is returned by extraction tools when no
// extraction service is wired.
var ErrExtractionUnavailable = errors.New("mcp: extraction service not configured")
