// Package domain defines the core business entities for ocrtables.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: One page of OCR markdown
//   - CandidateBlock: A run of pipe-delimited lines found by the segmenter
//   - Table: A rectangular header + rows result
//   - Extraction: A recorded run of the pipeline over one input document
//   - DocumentMetadata: Document-level properties and forensic indicators
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
