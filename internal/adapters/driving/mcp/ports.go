package mcp

import (
	"github.com/custodia-labs/ocrtables/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tables parses markdown into tables.
	Tables driving.TableService

	// Extraction runs the document pipeline and manages history.
	Extraction driving.ExtractionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Tables == nil {
		return ErrMissingTableService
	}
	// Extraction is optional: without it only markdown parsing is offered.
	return nil
}
