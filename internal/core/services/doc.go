// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never touch the filesystem layout of a driven adapter directly,
// with one exception: ExtractionService owns the per-document output directory.
package services
