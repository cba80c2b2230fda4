package padron

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseDelimited reads comma- or semicolon-separated text. A byte order mark
// selects the Unicode decoding; otherwise input that is not valid UTF-8 is
// read as Windows-1252, the usual encoding of spreadsheet exports in Spanish
// locales. Every cell is Text.
func ParseDelimited(data []byte) (*Sheet, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = detectDelimiter(text)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Sheet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return buildSheet(trimTrailingBlanks(header), records, textCell), nil
}

func textCell(_, _ int, raw string) CellValue { return Text(raw) }

func decodeText(data []byte) ([]byte, error) {
	var fallback encoding.Encoding = encoding.Nop
	if !utf8.Valid(data) {
		fallback = charmap.Windows1252
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}
	return out, nil
}

// detectDelimiter picks the separator that occurs most often in the first
// line, outside quotes. Commas win ties.
func detectDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	var commas, semicolons, tabs int
	quoted := false
	for _, b := range line {
		switch b {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				commas++
			}
		case ';':
			if !quoted {
				semicolons++
			}
		case '\t':
			if !quoted {
				tabs++
			}
		}
	}
	switch {
	case semicolons > commas && semicolons >= tabs:
		return ';'
	case tabs > commas && tabs > semicolons:
		return '\t'
	default:
		return ','
	}
}
