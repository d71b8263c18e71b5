// Package writer groups the table writers. Each subpackage serialises a
// rectangular domain.Table into one output format.
//
// Available writers:
//   - csvwriter: comma-separated values with the header as the first record
//   - xlsxwriter: a single-sheet, unformatted Excel workbook
package writer
