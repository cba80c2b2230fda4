package padron

import (
	"strconv"
	"strings"
)

// Sheet is a parsed tabular file: header names plus data rows keyed by them.
type Sheet struct {
	Columns []string
	Rows    []Row
}

// uniqueHeaders trims header cells and disambiguates blanks and repeats the
// way spreadsheet readers do: blank headers become __EMPTY, __EMPTY_1, ...
// and a repeated NAME becomes NAME_1, NAME_2, ...
func uniqueHeaders(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		base := strings.TrimSpace(h)
		if base == "" {
			base = "__EMPTY"
		}
		name := base
		for n := 1; seen[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// buildSheet assembles rows from a header line and raw records. classify turns
// each raw string, given its record and column index, into a cell. Rows with no content in any column are dropped.
func buildSheet(header []string, records [][]string, classify func(row, col int, raw string) CellValue) *Sheet {
	s := &Sheet{Columns: uniqueHeaders(header)}
	for r, rec := range records {
		row := make(Row, len(s.Columns))
		for i, col := range s.Columns {
			if i >= len(rec) {
				break
			}
			cell := classify(r, i, rec[i])
			if cell.IsEmpty() {
				continue
			}
			row[col] = cell
		}
		if len(row) == 0 {
			continue
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// trimTrailingBlanks drops empty trailing header cells that workbooks and
// CSV exports commonly carry.
func trimTrailingBlanks(header []string) []string {
	end := len(header)
	for end > 0 && strings.TrimSpace(header[end-1]) == "" {
		end--
	}
	return header[:end]
}
