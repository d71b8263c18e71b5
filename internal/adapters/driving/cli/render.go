package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/custodia-labs/ocrtables/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

const (
	// maxCellWidth truncates long cells in previews.
	maxCellWidth = 40

	timeLayout = "2006-01-02 15:04:05"
)

var theme = styles.DefaultStyles()

// terminalWidth returns the width of w when it is a terminal, otherwise 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// renderGrid draws header and rows as a bordered table.
// Rows may be ragged; they are drawn as given.
func renderGrid(w io.Writer, header []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.Border).
		Headers(truncateAll(header)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Header
			}
			return theme.Cell
		})

	for _, row := range rows {
		t.Row(truncateAll(row)...)
	}

	if width := terminalWidth(w); width > 0 {
		t.Width(width)
	}
	return t.Render()
}

// renderTable writes a captioned preview of a parsed table.
// maxRows <= 0 shows every row.
func renderTable(w io.Writer, index, page int, t domain.Table, maxRows int) {
	caption := fmt.Sprintf("Table %d", index)
	if page > 0 {
		caption += fmt.Sprintf(" (page %d)", page)
	}
	if t.Title != "" {
		caption += ": " + t.Title
	}
	fmt.Fprintln(w, theme.Subtitle.Render(caption))

	rows := t.Rows
	if maxRows > 0 {
		rows = t.Preview(maxRows)
	}
	fmt.Fprintln(w, renderGrid(w, t.Header, rows))

	if hidden := len(t.Rows) - len(rows); hidden > 0 {
		fmt.Fprintln(w, theme.Muted.Render(fmt.Sprintf("... %d more rows", hidden)))
	}
	fmt.Fprintln(w)
}

// renderExtraction writes the summary of an extraction run.
func renderExtraction(w io.Writer, e *domain.Extraction) {
	fmt.Fprintln(w, theme.Title.Render("Extraction "+e.ID))
	fmt.Fprintf(w, "  Document:  %s (%s)\n", e.DocumentName, e.Format)
	fmt.Fprintf(w, "  Status:    %s\n", theme.Status(e.Status).Render(string(e.Status)))
	if e.Error != "" {
		fmt.Fprintf(w, "  Error:     %s\n", theme.Error.Render(e.Error))
	}
	fmt.Fprintf(w, "  Pages:     %d\n", e.PageCount)
	fmt.Fprintf(w, "  Tables:    %d\n", len(e.Tables))
	fmt.Fprintf(w, "  Output:    %s\n", e.OutputDir)
	if e.TextPath != "" {
		fmt.Fprintf(w, "  Text:      %s\n", e.TextPath)
	}
	fmt.Fprintf(w, "  Started:   %s\n", e.CreatedAt.Local().Format(timeLayout))
	if d := e.Duration(); d > 0 {
		fmt.Fprintf(w, "  Duration:  %s\n", d.Round(time.Millisecond))
	}
	if e.Metadata != nil {
		risk := e.Metadata.Risk
		fmt.Fprintf(w, "  Risk:      %s\n", theme.Risk(risk.Level).Render(string(risk.Level)))
	}
	fmt.Fprintln(w)

	for _, et := range e.Tables {
		renderTable(w, et.Index, et.Page, domain.Table{
			Title:  et.Title,
			Header: et.Header,
			Rows:   et.Preview,
		}, 0)
		if hidden := et.RowCount - len(et.Preview); hidden > 0 {
			fmt.Fprintln(w, theme.Muted.Render(fmt.Sprintf("  %d of %d rows shown", len(et.Preview), et.RowCount)))
		}
		for _, format := range slices.Sorted(maps.Keys(et.Files)) {
			fmt.Fprintf(w, "  %s: %s\n", strings.ToUpper(format), et.Files[format])
		}
		fmt.Fprintln(w)
	}
}

// renderMetadata writes a document metadata report.
func renderMetadata(w io.Writer, name string, m *domain.DocumentMetadata) {
	fmt.Fprintln(w, theme.Title.Render("Metadata: "+name))
	fmt.Fprintln(w)

	fmt.Fprintln(w, theme.Subtitle.Render("Document Information"))
	info := m.Info
	printField(w, "Title", info.Title)
	printField(w, "Author", info.Author)
	printField(w, "Subject", info.Subject)
	printField(w, "Keywords", info.Keywords)
	printField(w, "Creator", info.Creator)
	printField(w, "Producer", info.Producer)
	printField(w, "Created", formatDate(info.Created, info.CreationDate))
	printField(w, "Modified", formatDate(info.Modified, info.ModDate))
	if m.PageCount > 0 {
		printField(w, "Pages", fmt.Sprint(m.PageCount))
	}
	fmt.Fprintln(w)

	if len(info.Extra) > 0 {
		fmt.Fprintln(w, theme.Subtitle.Render("Additional Metadata"))
		for _, key := range slices.Sorted(maps.Keys(info.Extra)) {
			printField(w, key, info.Extra[key])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, theme.Subtitle.Render("Security"))
	printField(w, "Encrypted", yesNo(m.Security.Encrypted))
	printField(w, "Filter", m.Security.EncryptionFilter)
	printField(w, "EOF markers", fmt.Sprint(m.EOFMarkers))
	printField(w, "XMP", yesNo(m.HasXMP))
	fmt.Fprintln(w)

	fmt.Fprintln(w, theme.Subtitle.Render("Forensic Indicators"))
	if len(m.ForensicIndicators) == 0 {
		fmt.Fprintln(w, theme.Muted.Render("  none"))
	}
	for _, indicator := range m.ForensicIndicators {
		fmt.Fprintf(w, "  - %s\n", indicator)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, theme.Subtitle.Render("Risk Assessment"))
	printField(w, "Level", theme.Risk(m.Risk.Level).Render(string(m.Risk.Level)))
	for _, indicator := range m.Risk.Indicators {
		fmt.Fprintf(w, "  - %s\n", theme.Warning.Render(indicator))
	}
	printField(w, "Advice", m.Risk.Recommendation)
}

// printField writes an aligned label and value, skipping empty values.
func printField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %-13s %s\n", label+":", value)
}

// formatDate prefers the parsed date and falls back to the raw value.
func formatDate(parsed *time.Time, raw string) string {
	if parsed == nil {
		return raw
	}
	return parsed.Format(timeLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// truncateAll shortens every cell to maxCellWidth runes.
func truncateAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = truncate(c, maxCellWidth)
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
