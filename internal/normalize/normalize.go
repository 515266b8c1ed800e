// Package normalize classifies and rewrites individual cell values before
// any aggregation or feature derivation happens. Raw normalization
// (missing-value detection, embedded-JSON unwrapping) lives in Normalize;
// display canonicalization (trim + title case) is a separate step applied
// by callers that compare categorical labels.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MissingLabel is the canonical marker for absent or unusable values.
const MissingLabel = "Missing"

// Common placeholder strings that indicate an absent value. The "nknown"
// entry covers a truncation artifact observed in real exports.
var missingTokens = map[string]struct{}{
	"unknown":      {},
	"nknown":       {},
	"invalid json": {},
	"null":         {},
	"none":         {},
	"empty":        {},
	"missing":      {},
}

// Keys probed, in order, when a cell carries an embedded JSON array of
// objects (e.g. carrier records).
var embeddedKeys = []string{"carrier_name", "name"}

var titleCaser = cases.Title(language.English)

// Normalize classifies a raw cell value. It returns MissingLabel for
// absent/placeholder values, the unwrapped payload for embedded JSON
// carrier records, and the value unchanged otherwise. It never fails:
// malformed embedded JSON degrades to MissingLabel.
func Normalize(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "[]" || trimmed == "{}" {
		return MissingLabel
	}

	lower := strings.ToLower(trimmed)
	if _, ok := missingTokens[lower]; ok {
		return MissingLabel
	}

	if strings.HasPrefix(lower, "[{") {
		return unwrapEmbedded(value)
	}

	return value
}

// unwrapEmbedded parses a JSON array of objects and extracts the first
// recognized key from the first object. Any parse failure or empty
// payload yields MissingLabel. The extracted payload is classified again
// so a placeholder hidden inside the record collapses to MissingLabel on
// the first pass, keeping Normalize idempotent.
func unwrapEmbedded(value string) string {
	var records []map[string]interface{}
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return MissingLabel
	}
	if len(records) == 0 || records[0] == nil {
		return MissingLabel
	}
	for _, key := range embeddedKeys {
		if raw, ok := records[0][key]; ok {
			return Normalize(stringify(raw))
		}
	}
	return MissingLabel
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers without a
		// trailing ".0".
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Canonical applies display canonicalization for categorical comparisons:
// trim plus title case. The missing marker passes through unchanged.
func Canonical(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == MissingLabel {
		return MissingLabel
	}
	return titleCaser.String(trimmed)
}
