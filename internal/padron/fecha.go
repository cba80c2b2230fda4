package padron

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

var (
	allDigits   = regexp.MustCompile(`^\d+$`)
	isoDate     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	textualDate = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{2}|\d{4})$`)
)

var monthAbbrev = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// fallbackLayouts are tried in order once the explicit forms fail. Day-first
// layouts precede month-first ones because rosters come from Argentine
// insurers.
var fallbackLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"2006/01/02",
	"2006/1/2",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// twoDigitPivot splits two-digit years: 00..30 are 20xx, 31..99 are 19xx.
const twoDigitPivot = 30

// serialEpoch is day zero of the 1900 spreadsheet date system once the
// phantom 1900-02-29 is accounted for.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseFecha converts a roster date to YYYY-MM-DD. Accepted forms, first
// match wins: a spreadsheet serial day count given as digits, an ISO date,
// D-Mon-YY or D-Mon-YYYY with English month abbreviations, then the common
// layouts in fallbackLayouts. Anything else yields "".
func ParseFecha(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if allDigits.MatchString(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ""
		}
		return FechaFromSerial(serial)
	}

	if isoDate.MatchString(s) {
		return s
	}

	if m := textualDate.FindStringSubmatch(s); m != nil {
		if d, ok := parseTextual(m[1], m[2], m[3]); ok {
			return d
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoLayout)
		}
	}
	return ""
}

// FechaFromSerial converts a 1900-system spreadsheet serial to YYYY-MM-DD.
// The fractional time of day is discarded. Serials before 1900-03-01 are
// shifted by one day because the format counts a 1900-02-29 that never
// existed, so serial 1 is 1900-01-01.
func FechaFromSerial(serial float64) string {
	if serial < 1 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return ""
	}
	days := int(math.Floor(serial))
	if days < 60 {
		days++
	}
	return serialEpoch.AddDate(0, 0, days).Format(isoLayout)
}

// fechaFromCell parses a date cell. Numeric cells are serials.
func fechaFromCell(c CellValue) string {
	if f, ok := c.Float(); ok {
		return FechaFromSerial(f)
	}
	return ParseFecha(c.String())
}

func parseTextual(day, mon, year string) (string, bool) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	month, ok := monthAbbrev[strings.ToLower(mon)]
	if !ok {
		return "", false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	if len(year) == 2 {
		if y <= twoDigitPivot {
			y += 2000
		} else {
			y += 1900
		}
	}
	t := time.Date(y, month, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != month {
		return "", false
	}
	return t.Format(isoLayout), true
}
