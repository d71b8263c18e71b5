package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ocrtables/internal/adapters/driven/ocr/passthrough"
	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// ParseInput is the input schema for the parse_markdown_tables tool.
type ParseInput struct {
	Markdown string `json:"markdown" jsonschema:"OCR markdown for one page; form feeds separate pages"`
}

// ParseOutput is the output schema for the parse_markdown_tables tool.
type ParseOutput struct {
	Tables []TableOutput `json:"tables"`
	Count  int           `json:"count"`
}

// TableOutput is one parsed table.
// Index counts every table in the input, empty ones included.
type TableOutput struct {
	Index  int        `json:"index"`
	Page   int        `json:"page"`
	Title  string     `json:"title,omitempty"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ExtractInput is the input schema for the extract_document tool.
type ExtractInput struct {
	Path string `json:"path" jsonschema:"absolute path of a PDF or markdown file to extract tables from"`
}

// ExtractionOutput summarises one extraction run.
type ExtractionOutput struct {
	ID        string                 `json:"id"`
	Document  string                 `json:"document"`
	Status    string                 `json:"status"`
	OutputDir string                 `json:"output_dir"`
	PageCount int                    `json:"page_count"`
	Tables    []ExtractedTableOutput `json:"tables,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Risk      string                 `json:"risk,omitempty"`
}

// ExtractedTableOutput describes a written table.
type ExtractedTableOutput struct {
	Index    int               `json:"index"`
	Page     int               `json:"page"`
	Title    string            `json:"title,omitempty"`
	Header   []string          `json:"header"`
	RowCount int               `json:"row_count"`
	Files    map[string]string `json:"files"`
}

// ListInput is the (empty) input schema for the list_extractions tool.
type ListInput struct{}

// ListOutput is the output schema for the list_extractions tool.
type ListOutput struct {
	Extractions []ExtractionOutput `json:"extractions"`
	Count       int                `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_markdown_tables",
		Description: "Recover clean rectangular tables from OCR markdown text",
	}, s.handleParse)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_document",
		Description: "Run OCR and table extraction on a PDF or markdown file and write CSV/XLSX outputs",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_extractions",
		Description: "List previous extraction runs, newest first",
	}, s.handleList)
}

// handleParse handles the parse_markdown_tables tool invocation.
// Input is paged like a markdown document, so numbering matches extractions.
func (s *Server) handleParse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseInput,
) (*mcp.CallToolResult, ParseOutput, error) {
	pages, err := passthrough.New().Process(ctx, domain.SourceDocument{
		Name:    "input",
		Format:  domain.FormatMarkdown,
		Content: []byte(input.Markdown),
	})
	if err != nil {
		return nil, ParseOutput{}, err
	}

	results, err := s.ports.Tables.ParsePages(ctx, pages)
	if err != nil {
		return nil, ParseOutput{}, err
	}

	output := ParseOutput{Tables: []TableOutput{}}
	index := 0
	for _, page := range results {
		for _, table := range page.Tables {
			index++
			if table.IsEmpty() {
				continue
			}
			output.Tables = append(output.Tables, TableOutput{
				Index:  index,
				Page:   page.Page,
				Title:  table.Title,
				Header: table.Header,
				Rows:   table.Rows,
			})
		}
	}
	output.Count = len(output.Tables)

	return nil, output, nil
}

// handleExtract handles the extract_document tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractionOutput, error) {
	if s.ports.Extraction == nil {
		return nil, ExtractionOutput{}, ErrExtractionUnavailable
	}
	if strings.TrimSpace(input.Path) == "" {
		return nil, ExtractionOutput{}, errors.New("path is required")
	}

	// A failed run still returns its record; report it rather than erroring.
	extraction, err := s.ports.Extraction.Extract(ctx, input.Path)
	if err != nil && extraction == nil {
		return nil, ExtractionOutput{}, err
	}

	return nil, toExtractionOutput(extraction), nil
}

// handleList handles the list_extractions tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	if s.ports.Extraction == nil {
		return nil, ListOutput{}, ErrExtractionUnavailable
	}

	extractions, err := s.ports.Extraction.List(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Extractions: make([]ExtractionOutput, len(extractions)),
		Count:       len(extractions),
	}
	for i := range extractions {
		output.Extractions[i] = toExtractionOutput(&extractions[i])
	}

	return nil, output, nil
}

func toExtractionOutput(e *domain.Extraction) ExtractionOutput {
	out := ExtractionOutput{
		ID:        e.ID,
		Document:  e.DocumentName,
		Status:    string(e.Status),
		OutputDir: e.OutputDir,
		PageCount: e.PageCount,
		Error:     e.Error,
	}
	if e.Metadata != nil {
		out.Risk = string(e.Metadata.Risk.Level)
	}
	for _, t := range e.Tables {
		out.Tables = append(out.Tables, ExtractedTableOutput{
			Index:    t.Index,
			Page:     t.Page,
			Title:    t.Title,
			Header:   t.Header,
			RowCount: t.RowCount,
			Files:    t.Files,
		})
	}
	return out
}
