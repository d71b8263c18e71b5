package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ocrtables/internal/adapters/driven/ocr/passthrough"
	"github.com/custodia-labs/ocrtables/internal/adapters/driven/writer/csvwriter"
	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// Output formats of the parse command.
const (
	parseFormatPreview = "preview"
	parseFormatCSV     = "csv"
	parseFormatJSON    = "json"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse markdown tables from OCR output",
	Long: `Locate, repair and clean the markdown tables in OCR output.

Reads the given file, or standard input when the file is "-" or omitted.
Pages may be separated with form feeds; tables are numbered across the
whole input. Nothing is written to disk or recorded in history.

Formats:
  preview  bordered tables (default)
  csv      one CSV block per table, separated by blank lines
  json     an array of tables with page, title, header and rows`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

// Flags for the parse command.
var (
	parseFormat string
	parseRows   int
)

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", parseFormatPreview, "output format: preview, csv or json")
	parseCmd.Flags().IntVarP(&parseRows, "rows", "n", 0, "rows to show per table in preview (0 = all)")
	rootCmd.AddCommand(parseCmd)
}

// parsedTable is the JSON form of a parsed table.
type parsedTable struct {
	Index  int        `json:"index"`
	Page   int        `json:"page"`
	Title  string     `json:"title,omitempty"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func runParse(cmd *cobra.Command, args []string) error {
	if tableService == nil {
		return errors.New("table service not configured")
	}

	switch parseFormat {
	case parseFormatPreview, parseFormatCSV, parseFormatJSON:
	default:
		return fmt.Errorf("unknown format %q (use preview, csv or json)", parseFormat)
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	// Input is paged the same way markdown documents are.
	pages, err := passthrough.New().Process(cmd.Context(), domain.SourceDocument{
		Name:    "stdin",
		Format:  domain.FormatMarkdown,
		Content: input,
	})
	if err != nil {
		return fmt.Errorf("failed to read pages: %w", err)
	}

	results, err := tableService.ParsePages(cmd.Context(), pages)
	if err != nil {
		return fmt.Errorf("failed to parse tables: %w", err)
	}

	var tables []parsedTable
	index := 0
	for _, page := range results {
		for _, t := range page.Tables {
			index++
			if t.IsEmpty() {
				continue
			}
			tables = append(tables, parsedTable{
				Index:  index,
				Page:   page.Page,
				Title:  t.Title,
				Header: t.Header,
				Rows:   t.Rows,
			})
		}
	}

	out := cmd.OutOrStdout()
	switch parseFormat {
	case parseFormatJSON:
		return writeParsedJSON(out, tables)
	case parseFormatCSV:
		return writeParsedCSV(out, tables)
	default:
		if len(tables) == 0 {
			cmd.Println("No tables found.")
			return nil
		}
		for _, t := range tables {
			renderTable(out, t.Index, pageLabel(t.Page, len(pages)), toTable(t), parseRows)
		}
		cmd.Printf("Total: %d tables\n", len(tables))
		return nil
	}
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// pageLabel hides the page number for single-page input.
func pageLabel(page, pages int) int {
	if pages <= 1 {
		return 0
	}
	return page
}

func toTable(t parsedTable) domain.Table {
	return domain.Table{Title: t.Title, Header: t.Header, Rows: t.Rows}
}

func writeParsedJSON(w io.Writer, tables []parsedTable) error {
	if tables == nil {
		tables = []parsedTable{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tables)
}

func writeParsedCSV(w io.Writer, tables []parsedTable) error {
	encoder := csvwriter.New()
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := encoder.Encode(w, toTable(t)); err != nil {
			return err
		}
	}
	return nil
}
