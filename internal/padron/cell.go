package padron

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CellKind tags the variant held by a CellValue.
type CellKind uint8

const (
	CellUnknown CellKind = iota
	CellText
	CellNumber
)

// CellValue is a loosely typed spreadsheet cell. The zero value is Unknown.
type CellValue struct {
	kind CellKind
	text string
	num  float64
}

// Text returns a text cell.
func Text(s string) CellValue { return CellValue{kind: CellText, text: s} }

// Number returns a numeric cell.
func Number(f float64) CellValue { return CellValue{kind: CellNumber, num: f} }

// Kind reports which variant the cell holds.
func (c CellValue) Kind() CellKind { return c.kind }

// IsEmpty reports whether the cell carries no usable content.
func (c CellValue) IsEmpty() bool {
	switch c.kind {
	case CellText:
		return strings.TrimSpace(c.text) == ""
	case CellNumber:
		return false
	default:
		return true
	}
}

// Float returns the numeric value of a Number cell.
func (c CellValue) Float() (float64, bool) {
	if c.kind != CellNumber {
		return 0, false
	}
	return c.num, true
}

// String renders the cell as text. Numbers use the shortest exact decimal
// form, so 30193269 stays "30193269".
func (c CellValue) String() string {
	switch c.kind {
	case CellText:
		return c.text
	case CellNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// ClassifyRaw turns an unformatted workbook value into a cell. Values that
// only look numeric after reformatting, like "0123", stay text so leading
// zeros survive. Exponent notation such as "3.0193269E7" is a number only when
// storedAsNumber reports that the workbook holds the cell as a number; typed
// text like an affiliate code "12E3" is kept verbatim.
func ClassifyRaw(raw string, storedAsNumber bool) CellValue {
	if raw == "" {
		return CellValue{}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Text(raw)
	}
	if strconv.FormatFloat(f, 'f', -1, 64) == raw || (storedAsNumber && hasExponent(raw)) {
		return Number(f)
	}
	return Text(raw)
}

func hasExponent(raw string) bool {
	return strings.ContainsAny(raw, "eE")
}

func (c CellValue) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellText:
		return json.Marshal(c.text)
	case CellNumber:
		return json.Marshal(c.num)
	default:
		return []byte("null"), nil
	}
}

func (c *CellValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = CellValue{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Text(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("cell value: %w", err)
		}
		*c = Number(f)
	}
	return nil
}

// Row maps a source column name to its cell. Absent columns read as Unknown.
type Row map[string]CellValue
