package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ocrtables/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
)

const (
	// jsonNull is the JSON representation of null.
	jsonNull = "null"

	// timeLayout keeps a fixed-width fraction so stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store is a SQLite-backed store exposing the persistence ports
// through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ocrtables/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ocrtables", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ExtractionStore returns an ExtractionStore interface backed by this store.
func (s *Store) ExtractionStore() driven.ExtractionStore {
	return &extractionStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_extractions.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Extraction Store ====================

// extractionStore implements driven.ExtractionStore.
type extractionStore struct {
	store *Store
}

var _ driven.ExtractionStore = (*extractionStore)(nil)

// Save stores or updates an extraction and replaces its tables.
func (s *extractionStore) Save(ctx context.Context, extraction *domain.Extraction) error {
	if extraction == nil {
		return fmt.Errorf("saving extraction: %w", domain.ErrInvalidInput)
	}

	metadataJSON, err := json.Marshal(extraction.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	if extraction.CreatedAt.IsZero() {
		extraction.CreatedAt = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO extractions (id, document_name, format, output_dir, page_count, text_path,
			metadata, status, error, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_name = excluded.document_name,
			format = excluded.format,
			output_dir = excluded.output_dir,
			page_count = excluded.page_count,
			text_path = excluded.text_path,
			metadata = excluded.metadata,
			status = excluded.status,
			error = excluded.error,
			completed_at = excluded.completed_at
	`, extraction.ID, extraction.DocumentName, string(extraction.Format), extraction.OutputDir,
		extraction.PageCount, extraction.TextPath, nullJSON(metadataJSON), string(extraction.Status),
		extraction.Error, formatTime(extraction.CreatedAt), formatNullableTime(extraction.CompletedAt))
	if err != nil {
		return fmt.Errorf("saving extraction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM extraction_tables WHERE extraction_id = ?", extraction.ID); err != nil {
		return fmt.Errorf("clearing extraction tables: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO extraction_tables (extraction_id, position, page, title, header, row_count, files, preview)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, table := range extraction.Tables {
		headerJSON, err := json.Marshal(table.Header)
		if err != nil {
			return fmt.Errorf("marshalling header: %w", err)
		}
		filesJSON, err := json.Marshal(table.Files)
		if err != nil {
			return fmt.Errorf("marshalling files: %w", err)
		}
		previewJSON, err := json.Marshal(table.Preview)
		if err != nil {
			return fmt.Errorf("marshalling preview: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, extraction.ID, table.Index, table.Page, table.Title,
			string(headerJSON), table.RowCount, string(filesJSON), string(previewJSON)); err != nil {
			return fmt.Errorf("saving table %d: %w", table.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves an extraction by ID.
func (s *extractionStore) Get(ctx context.Context, id string) (*domain.Extraction, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_name, format, output_dir, page_count, text_path,
			metadata, status, error, created_at, completed_at
		FROM extractions WHERE id = ?
	`, id)

	extraction, err := scanExtraction(row)
	if err != nil {
		return nil, err
	}

	tables, err := s.tables(ctx, id)
	if err != nil {
		return nil, err
	}
	extraction.Tables = tables

	return extraction, nil
}

// List returns all extractions, newest first.
func (s *extractionStore) List(ctx context.Context) ([]domain.Extraction, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_name, format, output_dir, page_count, text_path,
			metadata, status, error, created_at, completed_at
		FROM extractions
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying extractions: %w", err)
	}
	defer rows.Close()

	var extractions []domain.Extraction //nolint:prealloc // size unknown from query
	for rows.Next() {
		extraction, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		extractions = append(extractions, *extraction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating extractions: %w", err)
	}
	rows.Close()

	for i := range extractions {
		tables, err := s.tables(ctx, extractions[i].ID)
		if err != nil {
			return nil, err
		}
		extractions[i].Tables = tables
	}

	return extractions, nil
}

// Delete removes an extraction and its tables.
func (s *extractionStore) Delete(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM extraction_tables WHERE extraction_id = ?", id); err != nil {
		return fmt.Errorf("deleting extraction tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM extractions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting extraction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// tables loads the tables of one extraction in document order.
func (s *extractionStore) tables(ctx context.Context, id string) ([]domain.ExtractedTable, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT position, page, title, header, row_count, files, preview
		FROM extraction_tables WHERE extraction_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying extraction tables: %w", err)
	}
	defer rows.Close()

	var tables []domain.ExtractedTable //nolint:prealloc // size unknown from query
	for rows.Next() {
		var table domain.ExtractedTable
		var headerJSON, filesJSON, previewJSON string
		if err := rows.Scan(&table.Index, &table.Page, &table.Title, &headerJSON,
			&table.RowCount, &filesJSON, &previewJSON); err != nil {
			return nil, fmt.Errorf("scanning extraction table: %w", err)
		}
		if err := json.Unmarshal([]byte(headerJSON), &table.Header); err != nil {
			return nil, fmt.Errorf("unmarshalling header: %w", err)
		}
		if err := json.Unmarshal([]byte(filesJSON), &table.Files); err != nil {
			return nil, fmt.Errorf("unmarshalling files: %w", err)
		}
		if err := json.Unmarshal([]byte(previewJSON), &table.Preview); err != nil {
			return nil, fmt.Errorf("unmarshalling preview: %w", err)
		}
		tables = append(tables, table)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating extraction tables: %w", err)
	}
	return tables, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExtraction(row scanner) (*domain.Extraction, error) {
	var extraction domain.Extraction
	var format, status, createdAt string
	var metadataJSON, completedAt sql.NullString

	err := row.Scan(&extraction.ID, &extraction.DocumentName, &format, &extraction.OutputDir,
		&extraction.PageCount, &extraction.TextPath, &metadataJSON, &status, &extraction.Error,
		&createdAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning extraction: %w", err)
	}

	extraction.Format = domain.InputFormat(format)
	extraction.Status = domain.ExtractionStatus(status)
	extraction.CreatedAt = parseNullableTime(sql.NullString{String: createdAt, Valid: true})
	extraction.CompletedAt = parseNullableTime(completedAt)

	if metadataJSON.Valid && metadataJSON.String != jsonNull {
		var metadata domain.DocumentMetadata
		if err := json.Unmarshal([]byte(metadataJSON.String), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
		extraction.Metadata = &metadata
	}

	return &extraction, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime formats a time as RFC3339, or returns nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullJSON maps an encoded nil to SQL NULL.
func nullJSON(data []byte) any {
	if string(data) == jsonNull {
		return nil
	}
	return string(data)
}
