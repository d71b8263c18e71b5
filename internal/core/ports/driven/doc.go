// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Turns one page of OCR markdown into tables
//   - TableWriter: Serialises a table to a file (CSV, XLSX)
//   - ExtractionStore: Extraction history persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - OCRService: Converts PDFs to page markdown. Without it, only markdown inputs work.
//   - MetadataInspector: Reads document-level properties. Without it, extractions carry no metadata.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
