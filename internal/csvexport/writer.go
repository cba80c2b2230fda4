package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"padron/internal/padron"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// RosterWriter writes normalized records as CSV with one column per
// destination field, in schema order.
type RosterWriter struct {
	csv    *csv.Writer
	fields []string
}

// NewRosterWriter creates a RosterWriter that writes CSV to w.
func NewRosterWriter(w io.Writer, fields []string) *RosterWriter {
	return &RosterWriter{csv: csv.NewWriter(w), fields: fields}
}

// WriteHeader writes the destination field names.
func (w *RosterWriter) WriteHeader() error {
	return w.csv.Write(w.fields)
}

// WriteRecords writes one row per record.
func (w *RosterWriter) WriteRecords(records []padron.Record) error {
	row := make([]string, len(w.fields))
	for i := range records {
		for j, field := range w.fields {
			row[j] = records[i].Value(field)
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *RosterWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *RosterWriter) Error() error {
	return w.csv.Error()
}

// ExportRoster writes the BOM, header and records to w.
func ExportRoster(w io.Writer, fields []string, records []padron.Record) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	rw := NewRosterWriter(w, fields)
	if err := rw.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := rw.WriteRecords(records); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	rw.Flush()
	return rw.Error()
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an uploaded file name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "padron"
	}
	return s
}

// BuildFilename returns the export name for a roster upload.
// Format: {sanitized_roster_name}_normalizado_{YYYY-MM-DD}.csv
func BuildFilename(rosterName string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(rosterName), filepath.Ext(rosterName))
	return fmt.Sprintf("%s_normalizado_%s.csv", SanitizeFilename(base), now.Format("2006-01-02"))
}
