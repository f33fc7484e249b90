// Package spreadsheet reads survey workbooks and writes import reports.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/apperrors"
)

// ErrUnsupportedFormat is returned for input that is not an xlsx workbook
var ErrUnsupportedFormat = apperrors.ErrUnsupportedFileFormat

// ReadOptions controls which rows ReadRows returns
type ReadOptions struct {
	// Sheet defaults to the first sheet of the workbook
	Sheet string
	// MaxRows caps the number of data rows; 0 means no cap
	MaxRows int
}

// ReadRows materializes the data rows of a workbook. The first non-empty row
// is the header; blank rows are skipped. Row.Line is the sheet row number.
func ReadRows(r io.Reader, opts ReadOptions) ([]importer.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, importer.ErrEmptySpreadsheet
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found", ErrUnsupportedFormat, sheet)
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var (
		header []string
		rows   []importer.Row
	)
	for i, record := range cells {
		if isBlankRecord(record) {
			continue
		}
		if header == nil {
			header = record
			continue
		}
		if opts.MaxRows > 0 && len(rows) >= opts.MaxRows {
			break
		}
		rows = append(rows, importer.NewRowFromCells(i+1, zip(header, record)))
	}

	if len(rows) == 0 {
		return nil, importer.ErrEmptySpreadsheet
	}
	return rows, nil
}

// zip pairs header cells with values in column order. Cells under an empty
// header are dropped.
func zip(header, record []string) []importer.Cell {
	cells := make([]importer.Cell, 0, len(header))
	for col, name := range header {
		if strings.TrimSpace(name) == "" {
			continue
		}
		var value string
		if col < len(record) {
			value = record[col]
		}
		cells = append(cells, importer.Cell{Header: name, Value: value})
	}
	return cells
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
