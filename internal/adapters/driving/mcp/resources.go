package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for ocrtables resources.
	uriScheme = "ocrtables://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing extractions.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "extractions",
		Name:        "extractions",
		Description: "History of document extractions, newest first",
		MIMEType:    "application/json",
	}, s.handleExtractionsResource)

	// Template for a single extraction.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "extractions/{extractionId}",
		Name:        "extraction",
		Description: "Tables, files and metadata of one extraction",
		MIMEType:    "application/json",
	}, s.handleExtractionResource)
}

// handleExtractionsResource returns the extraction history.
func (s *Server) handleExtractionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Extraction == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	extractions, err := s.ports.Extraction.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing extractions: %w", err)
	}

	infos := make([]ExtractionOutput, len(extractions))
	for i := range extractions {
		infos[i] = toExtractionOutput(&extractions[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling extractions: %w", err)
	}

	return jsonResult(req.Params.URI, string(data)), nil
}

// handleExtractionResource returns one extraction including document metadata.
func (s *Server) handleExtractionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Extraction == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract extractionId from URI: ocrtables://extractions/{extractionId}
	id := extractExtractionID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	extraction, err := s.ports.Extraction.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting extraction: %w", err)
	}

	type extractionDetail struct {
		ExtractionOutput
		Metadata *domain.DocumentMetadata `json:"metadata,omitempty"`
	}

	data, err := json.MarshalIndent(extractionDetail{
		ExtractionOutput: toExtractionOutput(extraction),
		Metadata:         extraction.Metadata,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling extraction: %w", err)
	}

	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractExtractionID extracts the ID from a URI like ocrtables://extractions/{extractionId}.
func extractExtractionID(uri string) string {
	const prefix = uriScheme + "extractions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
