// Package csvwriter writes tables as comma-separated values.
package csvwriter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.TableWriter = (*Writer)(nil)

// Writer writes a table's header followed by its rows.
type Writer struct {
	delimiter rune
}

// Option configures a Writer.
type Option func(*Writer)

// WithDelimiter overrides the field delimiter (default: comma).
func WithDelimiter(r rune) Option {
	return func(w *Writer) {
		w.delimiter = r
	}
}

// New creates a CSV table writer.
func New(opts ...Option) *Writer {
	w := &Writer{delimiter: ','}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Format returns domain.OutputCSV.
func (w *Writer) Format() domain.OutputFormat {
	return domain.OutputCSV
}

// Write stores the table at basePath + ".csv".
func (w *Writer) Write(ctx context.Context, table domain.Table, basePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := basePath + "." + w.Format().String()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}

	if err := w.Encode(f, table); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close csv: %w", err)
	}
	return path, nil
}

// Encode writes the table as CSV to out.
func (w *Writer) Encode(out io.Writer, table domain.Table) error {
	cw := csv.NewWriter(out)
	cw.Comma = w.delimiter

	if err := cw.Write(table.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
