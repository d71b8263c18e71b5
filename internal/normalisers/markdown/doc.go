// Package markdown recovers tables from OCR-produced markdown.
//
// The work happens in three steps that run per page:
//
//   - Segments scans the page line by line and yields candidate blocks,
//     maximal runs of lines that start and end with a pipe.
//   - NormaliseBlock turns one block into a rectangular domain.Table:
//     header extraction, separator skipping, date-continuation folding,
//     cell cleaning and padding.
//   - CleanCell strips LaTeX-style dollar wrapping and markdown escapes
//     from a single cell.
//
// None of these functions fail. Malformed input degrades to fewer rows or
// an empty table, which callers filter out.
//
// Normaliser adapts the package to the driven.Normaliser port.
package markdown
