package padron

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads the first sheet of an xlsx/xlsm workbook. The first row
// is the header. Cells are read unformatted, so numbers keep full precision
// and dates arrive as serial day counts.
func ParseWorkbook(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Sheet{}, nil
	}

	classify := func(row, col int, raw string) CellValue {
		return ClassifyRaw(raw, hasExponent(raw) && storedAsNumber(f, sheet, row+2, col+1))
	}
	return buildSheet(trimTrailingBlanks(rows[0]), rows[1:], classify), nil
}

// storedAsNumber reports whether the cell at the 1-based row and column holds
// a number. Cells without a type attribute are numbers in OOXML.
func storedAsNumber(f *excelize.File, sheet string, row, col int) bool {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	t, err := f.GetCellType(sheet, axis)
	if err != nil {
		return false
	}
	return t == excelize.CellTypeNumber || t == excelize.CellTypeUnset
}
