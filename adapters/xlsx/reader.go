// Package xlsx adapts spreadsheet workbooks and CSV files to the
// SampleSource port. The first row names the columns; every cell below
// it is either blank or a number.
package xlsx

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"statlab/domain/core"
	"statlab/internal/errors"
	"statlab/ports"
)

// DefaultSheet is the worksheet read when no sheet name is given.
const DefaultSheet = "Sheet1"

var _ ports.SampleSource = (*Reader)(nil)

// Reader handles reading Excel and CSV files into named numeric samples
type Reader struct {
	filePath string
	sheet    string
	fileType string // "xlsx" or "csv"

	headers []string
	columns map[string][]string
}

// NewReader creates a reader for the given file. The sheet name only
// applies to workbooks; pass "" for the default sheet.
func NewReader(filePath, sheet string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Reader{filePath: filePath, sheet: sheet, fileType: fileType}
}

// Columns lists the column names from the header row, in source order.
func (r *Reader) Columns() ([]string, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	return append([]string(nil), r.headers...), nil
}

// Sample reads the numeric sample stored under the named column. Blank
// cells are skipped; a non-numeric cell fails the read.
func (r *Reader) Sample(name string) ([]float64, error) {
	if err := r.load(); err != nil {
		return nil, err
	}

	cells, ok := r.columns[name]
	if !ok {
		return nil, errors.New(errors.CodeSourceError, fmt.Sprintf("column %q not found", name))
	}

	sample := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, core.NewParseError(cell)
		}
		sample = append(sample, value)
	}
	if len(sample) == 0 {
		return nil, core.ErrEmptyInput
	}
	return sample, nil
}

// load reads the file once and indexes its cells by column name.
func (r *Reader) load() error {
	if r.columns != nil {
		return nil
	}

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return errors.SourceError(r.filePath, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readSheetRows()
	}
	if err != nil {
		return err
	}

	if len(rows) < 2 {
		return errors.SourceError(r.filePath, fmt.Errorf("need a header row and at least one data row"))
	}

	headerRow := rows[0]
	headers := make([]string, 0, len(headerRow))
	for _, header := range headerRow {
		headers = append(headers, strings.TrimSpace(header))
	}

	columns := make(map[string][]string, len(headers))
	for _, header := range headers {
		if header != "" {
			columns[header] = nil
		}
	}
	for i := 1; i < len(rows); i++ {
		for j, cell := range rows[i] {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			columns[headers[j]] = append(columns[headers[j]], strings.TrimSpace(cell))
		}
	}

	r.headers = headers
	r.columns = columns
	return nil
}

func (r *Reader) readSheetRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.SourceError(r.filePath, err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read sheet %q", r.sheet)
	}
	return rows, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.SourceError(r.filePath, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.SourceError(r.filePath, err)
	}
	return rows, nil
}
