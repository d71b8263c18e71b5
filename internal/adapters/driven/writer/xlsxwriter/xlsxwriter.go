// Package xlsxwriter writes tables as single-sheet Excel workbooks.
// Cells are stored as text with no styling.
package xlsxwriter

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.TableWriter = (*Writer)(nil)

// DefaultSheetName is used when a table has no usable title.
const DefaultSheetName = "Sheet1"

// maxSheetNameLength is the Excel limit on sheet names.
const maxSheetNameLength = 31

// Writer writes one table per workbook.
type Writer struct{}

// New creates an XLSX table writer.
func New() *Writer {
	return &Writer{}
}

// Format returns domain.OutputXLSX.
func (w *Writer) Format() domain.OutputFormat {
	return domain.OutputXLSX
}

// Write stores the table at basePath + ".xlsx".
func (w *Writer) Write(ctx context.Context, table domain.Table, basePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(table.Title)
	if sheet != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return "", fmt.Errorf("rename sheet: %w", err)
		}
	}

	if err := setRow(f, sheet, 1, table.Header); err != nil {
		return "", err
	}
	for i, row := range table.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return "", err
		}
	}

	path := basePath + "." + w.Format().String()
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save xlsx: %w", err)
	}
	return path, nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// SheetName derives a valid sheet name from a table title.
// Characters Excel rejects are replaced and the result is cut to 31 runes.
func SheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))

	// Sheet names may not start or end with an apostrophe.
	name = strings.Trim(name, "' ")

	if runes := []rune(name); len(runes) > maxSheetNameLength {
		name = strings.TrimSpace(string(runes[:maxSheetNameLength]))
	}
	if name == "" {
		return DefaultSheetName
	}
	return name
}
