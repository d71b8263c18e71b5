package markdown

import (
	"context"
	"strings"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles OCR pages rendered as markdown.
type Normaliser struct{}

// New creates a new markdown table normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Normalise extracts one table per candidate block on the page.
// Empty tables are returned too; see driven.NormaliseResult.
func (n *Normaliser) Normalise(ctx context.Context, page domain.Page) (*driven.NormaliseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &driven.NormaliseResult{Tables: ExtractTables(page.Markdown)}, nil
}

// ExtractTables segments text and normalises every block, keeping empty tables.
func ExtractTables(text string) []domain.Table {
	var tables []domain.Table
	for block := range Segments(text) {
		tables = append(tables, NormaliseBlock(block))
	}
	return tables
}

// NormaliseBlock converts a candidate block into a rectangular table.
// A block whose first line yields no header columns becomes an empty table.
func NormaliseBlock(block domain.CandidateBlock) domain.Table {
	table := domain.Table{Title: block.Caption}
	if len(block.Lines) == 0 {
		return table
	}

	table.Header = parseHeader(block.Lines[0])
	width := len(table.Header)
	if width == 0 {
		return table
	}

	start := 1
	if len(block.Lines) > 1 && separatorRow.MatchString(block.Lines[1]) {
		start = 2
	}

	// anchor is the index of the last regular item row; date continuation
	// lines are folded into its first cell.
	anchor := -1

	for _, line := range block.Lines[start:] {
		fragments := strings.Split(line, delimiter)
		if len(fragments) <= 2 {
			continue
		}

		cells := fragments[1 : len(fragments)-1]
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		if allEmpty(cells) {
			continue
		}

		if anchor >= 0 {
			if date, ok := dateContinuation(cells); ok {
				table.Rows[anchor][0] += "\n" + date
				continue
			}
		}

		row := make([]string, width)
		for i := 0; i < len(cells) && i < width; i++ {
			row[i] = CleanCell(cells[i])
		}
		table.Rows = append(table.Rows, row)

		if len(cells) == width && cells[0] != "" {
			anchor = len(table.Rows) - 1
		}
	}

	return table
}

// parseHeader splits the first block line and drops empty fragments.
func parseHeader(line string) []string {
	var header []string
	for _, fragment := range strings.Split(line, delimiter) {
		if name := strings.TrimSpace(fragment); name != "" {
			header = append(header, name)
		}
	}
	return header
}

// dateContinuation returns the single non-empty cell of a row when it is a
// month-name date range such as "Jan 1 - Jan 5, 2024".
func dateContinuation(cells []string) (string, bool) {
	var only string
	count := 0
	for _, c := range cells {
		if c != "" {
			only = c
			count++
		}
	}
	if count != 1 || !dateRange.MatchString(only) {
		return "", false
	}
	return only, true
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
