package xlsx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"statlab/domain/core"
	"statlab/internal/errors"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "samples.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

// TestReaderWorkbook tests column reads from a generated workbook.
func TestReaderWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"trial", "control", "notes"},
		{10.1, 9.8, "first"},
		{10.2, "", "second"},
		{10.15, 9.9, ""},
	})

	r := NewReader(path, "")

	t.Run("columns in header order", func(t *testing.T) {
		columns, err := r.Columns()
		require.NoError(t, err)
		assert.Equal(t, []string{"trial", "control", "notes"}, columns)
	})

	t.Run("numeric column", func(t *testing.T) {
		sample, err := r.Sample("trial")
		require.NoError(t, err)
		assert.Equal(t, []float64{10.1, 10.2, 10.15}, sample)
	})

	t.Run("blank cells are skipped", func(t *testing.T) {
		sample, err := r.Sample("control")
		require.NoError(t, err)
		assert.Equal(t, []float64{9.8, 9.9}, sample)
	})

	t.Run("non-numeric cell fails the read", func(t *testing.T) {
		_, err := r.Sample("notes")
		assert.ErrorIs(t, err, core.ErrParse)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := r.Sample("missing")
		require.Error(t, err)
		assert.Equal(t, errors.CodeSourceError, errors.GetCode(err))
	})
}

// TestReaderCSV tests the CSV path of the reader.
func TestReaderCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	content := "trial,control\n1.5,2.5\n3.5,\n5.5,6.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewReader(path, "")

	columns, err := r.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"trial", "control"}, columns)

	sample, err := r.Sample("trial")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 3.5, 5.5}, sample)

	sample, err = r.Sample("control")
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 6.5}, sample)
}

// TestReaderEdgeCases tests missing files and degenerate layouts.
func TestReaderEdgeCases(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		r := NewReader(filepath.Join(t.TempDir(), "absent.xlsx"), "")
		_, err := r.Columns()
		require.Error(t, err)
		assert.Equal(t, errors.CodeSourceError, errors.GetCode(err))
	})

	t.Run("header row only", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{{"trial"}})
		_, err := NewReader(path, "").Columns()
		require.Error(t, err)
		assert.Equal(t, errors.CodeSourceError, errors.GetCode(err))
	})

	t.Run("column of blanks is empty input", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"trial", "empty"},
			{1.0, ""},
			{2.0, ""},
		})
		_, err := NewReader(path, "").Sample("empty")
		assert.ErrorIs(t, err, core.ErrEmptyInput)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"trial"},
			{1.0},
		})
		_, err := NewReader(path, "Results").Columns()
		require.Error(t, err)
	})
}
