package xlsxwriter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

func TestWriter_Format(t *testing.T) {
	assert.Equal(t, domain.OutputXLSX, New().Format())
}

func TestWriter_Write(t *testing.T) {
	base := filepath.Join(t.TempDir(), "table_1")
	table := domain.Table{
		Title:  "Account Summary",
		Header: []string{"Date", "Amount"},
		Rows: [][]string{
			{"01/02", "$-4.50"},
			{"01/03", "12.00"},
		},
	}

	path, err := New().Write(context.Background(), table, base)

	require.NoError(t, err)
	assert.Equal(t, base+".xlsx", path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Account Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Account Summary")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Amount"},
		{"01/02", "$-4.50"},
		{"01/03", "12.00"},
	}, rows)

	// Numbers stay text so values round-trip exactly.
	cellType, err := f.GetCellType("Account Summary", "B3")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, cellType)
}

func TestWriter_Write_UntitledUsesDefaultSheet(t *testing.T) {
	base := filepath.Join(t.TempDir(), "table_2")

	path, err := New().Write(context.Background(), domain.Table{Header: []string{"A"}, Rows: [][]string{{"1"}}}, base)

	require.NoError(t, err)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())
}

func TestWriter_Write_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Write(ctx, domain.Table{Header: []string{"A"}}, filepath.Join(t.TempDir(), "t"))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"", DefaultSheetName},
		{"   ", DefaultSheetName},
		{"Summary", "Summary"},
		{"Q1/Q2 [draft]", "Q1_Q2 _draft_"},
		{"'quoted'", "quoted"},
		{"A very long caption that exceeds the limit", "A very long caption that exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := SheetName(tt.title)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 31)
		})
	}
}
