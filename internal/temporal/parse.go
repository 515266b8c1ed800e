// Package temporal provides a best-effort parser for date/time-like
// strings. It exists to decide whether a column is temporal, not as a
// general date-parsing guarantee: anything unparseable simply reports
// false, never an error.
package temporal

import (
	"strings"
	"time"

	"churnboard/internal/normalize"
)

// Eastern Arabic-Indic digits mapped to ASCII before parsing.
var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
)

// Strict ISO-8601 layouts tried first.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Lenient fallback layouts for the formats seen in uploaded workbooks.
var lenientLayouts = []string{
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"01-02-2006",
}

// Parse attempts to interpret a value as a timestamp. Missing or empty
// input reports false. Parse exceptions are swallowed: the second return
// is the only failure signal.
func Parse(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == normalize.MissingLabel {
		return time.Time{}, false
	}

	trimmed = digitReplacer.Replace(trimmed)

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	for _, layout := range lenientLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
