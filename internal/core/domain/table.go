package domain

// CandidateBlock is a maximal run of consecutive pipe-delimited lines
// found by the segmenter. It always holds at least two lines.
type CandidateBlock struct {
	// Lines are the trimmed table-row lines in order of appearance.
	Lines []string

	// StartLine is the 1-based line number of the first line in the page.
	StartLine int

	// Caption is the text of the nearest markdown heading above the block,
	// empty when there is none.
	Caption string
}

// Len returns the number of lines in the block.
func (b CandidateBlock) Len() int {
	return len(b.Lines)
}

// Table is a rectangular table recovered from a candidate block.
// Every row has exactly len(Header) cells.
type Table struct {
	// Title is the caption carried over from the candidate block.
	Title string

	// Header holds the non-empty column names.
	Header []string

	// Rows holds the data rows, each padded or truncated to the header width.
	Rows [][]string
}

// Width returns the number of columns.
func (t Table) Width() int {
	return len(t.Header)
}

// IsEmpty reports whether the table has no data rows.
// Empty tables are valid results that callers discard before persistence.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Preview returns at most n rows of the table. A non-positive n returns all rows.
func (t Table) Preview(n int) [][]string {
	if n <= 0 || n >= len(t.Rows) {
		return t.Rows
	}
	return t.Rows[:n]
}

// IsRectangular reports whether every row matches the header width.
func (t Table) IsRectangular() bool {
	for _, row := range t.Rows {
		if len(row) != len(t.Header) {
			return false
		}
	}
	return true
}

// Page is one page of OCR output.
type Page struct {
	// Number is the 1-based page number within the source document.
	Number int

	// Markdown is the page text as returned by the OCR service.
	Markdown string
}

// PageTables holds the tables found on a single page.
type PageTables struct {
	// Page is the 1-based page number.
	Page int

	// Tables are the tables found on the page in order of appearance,
	// including empty ones so that document-wide numbering stays stable.
	Tables []Table
}
