// Package sqlite provides a SQLite-based implementation of the extraction history store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files
// named NNN_description; applied versions are recorded in schema_migrations.
//
//   - extractions: one row per run, document metadata kept as JSON
//   - extraction_tables: the tables written by a run, cascaded on delete
//
// # Data Location
//
// By default, the database is stored at ~/.ocrtables/data/history.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
