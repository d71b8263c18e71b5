// Package normalisers holds the page normalisers that turn OCR output into
// structured tables. Each normaliser lives in its own subpackage and
// implements driven.Normaliser for the MIME types it reports.
//
// The markdown normaliser is the only one today: OCR providers return one
// markdown document per page.
package normalisers
