// Package reconcile unifies variant column names into canonical feature
// columns and derives the computed columns shared by the dashboard and
// prediction paths. The rules here were previously duplicated per
// endpoint; this package is the single home for them.
package reconcile

import (
	"math"
	"strconv"
	"strings"
	"time"

	"churnboard/domain/sheet"
	"churnboard/internal/errors"
	"churnboard/internal/temporal"
)

// ChurnColumn is the canonical churn label column.
const ChurnColumn = "Churn"

// Recognized churn label aliases, in fixed priority order. The first one
// found in a sheet wins; the rest are dropped.
var churnAliases = []string{"Chrn Flag", "Churn", "Churn Flag"}

// Recognized source date columns.
const (
	ActiveDateColumn   = "active_date"
	LastBootDateColumn = "last_boot_date"
	IntervalDateColumn = "interval_date"
)

// Derived day-delta feature columns. These are the exact feature names the
// persisted classifier was trained on.
const (
	FeatureBootActive   = "last boot - active"
	FeatureBootInterval = "last boot - interval"
)

const (
	simInfoColumn    = "sim_info"
	simUninserted    = "uninserted"
	simInserted      = "inserted"
	dateOutputLayout = "2006-01-02 15:04:05"
)

// FeatureNames returns the ordered feature list used at inference time.
func FeatureNames() []string {
	return []string{FeatureBootActive, FeatureBootInterval}
}

// FeatureRow holds the two derived day-delta features for one row.
// Values are fractional day counts, possibly negative, 0 when the source
// dates are absent or unparseable.
type FeatureRow struct {
	BootMinusActive   float64
	BootMinusInterval float64
}

// Vector returns the features in FeatureNames order.
func (f FeatureRow) Vector() []float64 {
	return []float64{f.BootMinusActive, f.BootMinusInterval}
}

// Full produces the canonical reconciled sheet: churn aliases collapsed to
// a single Churn column, date columns parsed, day-delta features derived,
// sim_info binarized, numeric gaps filled with 0, and text gaps left as
// empty strings. The input sheet is not modified.
func Full(s sheet.Sheet) sheet.Sheet {
	rows := make([]sheet.Row, len(s.Rows))
	for i, row := range s.Rows {
		clone := make(sheet.Row, len(row)+4)
		for k, v := range row {
			clone[k] = v
		}
		rows[i] = clone
	}

	headers := reconcileChurn(s.Headers, rows)
	parsed := parseDateColumns(s, rows)
	headers = deriveDeltas(headers, rows, parsed)
	headers = reconcileSimInfo(s, headers, rows)
	fillNumericGaps(headers, rows)

	return sheet.Sheet{Name: s.Name, Headers: headers, Rows: rows}
}

// FeatureOnly narrows a sheet to exactly the derived day-delta columns for
// inference. Unlike Full, a sheet from which the two features cannot be
// recovered is a hard error rather than a silent default.
func FeatureOnly(s sheet.Sheet) ([]FeatureRow, error) {
	full := Full(s)
	if !full.HasColumn(FeatureBootActive) || !full.HasColumn(FeatureBootInterval) {
		return nil, errors.SchemaError("derived feature columns missing after reconciliation")
	}

	features := make([]FeatureRow, len(full.Rows))
	for i, row := range full.Rows {
		active, err := strconv.ParseFloat(row[FeatureBootActive], 64)
		if err != nil {
			return nil, errors.SchemaError("derived feature " + FeatureBootActive + " is not numeric")
		}
		interval, err := strconv.ParseFloat(row[FeatureBootInterval], 64)
		if err != nil {
			return nil, errors.SchemaError("derived feature " + FeatureBootInterval + " is not numeric")
		}
		features[i] = FeatureRow{BootMinusActive: active, BootMinusInterval: interval}
	}
	return features, nil
}

// ChurnTruth extracts the ground-truth churn label from a raw, not yet
// reconciled row. Unlike the 0-defaulting label coercion of Full, a row
// whose label is missing or non-numeric reports false so scoring can
// exclude it.
func ChurnTruth(row sheet.Row) (int, bool) {
	for _, alias := range churnAliases {
		raw, ok := row[alias]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(v)), true
	}
	return 0, false
}

// reconcileChurn collapses the alias columns into ChurnColumn in place and
// returns the adjusted header. The canonical column takes the header slot
// of the winning alias; a sheet with no alias gets Churn appended.
func reconcileChurn(original []string, rows []sheet.Row) []string {
	source := ""
	for _, alias := range churnAliases {
		if containsColumn(original, alias) {
			source = alias
			break
		}
	}

	headers := make([]string, 0, len(original)+3)
	placed := false
	for _, h := range original {
		switch {
		case h == source && !placed:
			headers = append(headers, ChurnColumn)
			placed = true
		case isChurnAlias(h):
			// dropped
		default:
			headers = append(headers, h)
		}
	}
	if !placed {
		headers = append(headers, ChurnColumn)
	}

	for _, row := range rows {
		raw := ""
		if source != "" {
			raw = row[source]
		}
		for _, alias := range churnAliases {
			if alias != ChurnColumn {
				delete(row, alias)
			}
		}
		row[ChurnColumn] = strconv.Itoa(coerceLabel(raw))
	}
	return headers
}

// coerceLabel turns a raw churn value into an integer label, defaulting to
// 0 for missing or non-numeric input.
func coerceLabel(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(v))
}

type parsedColumn struct {
	times []time.Time
	valid []bool
}

// parseDateColumns parses the recognized date columns, rewriting cells to
// a canonical timestamp text and coercing unparseable entries to empty.
func parseDateColumns(s sheet.Sheet, rows []sheet.Row) map[string]parsedColumn {
	parsed := make(map[string]parsedColumn, 3)
	for _, col := range []string{ActiveDateColumn, LastBootDateColumn, IntervalDateColumn} {
		if !s.HasColumn(col) {
			continue
		}
		pc := parsedColumn{
			times: make([]time.Time, len(rows)),
			valid: make([]bool, len(rows)),
		}
		for i, row := range rows {
			if t, ok := temporal.Parse(row[col]); ok {
				pc.times[i] = t
				pc.valid[i] = true
				row[col] = t.Format(dateOutputLayout)
			} else {
				row[col] = ""
			}
		}
		parsed[col] = pc
	}
	return parsed
}

// deriveDeltas appends the day-delta feature columns. A row missing either
// input date gets 0, not a missing marker: these are numeric features, not
// display columns.
func deriveDeltas(headers []string, rows []sheet.Row, parsed map[string]parsedColumn) []string {
	lastBoot, haveBoot := parsed[LastBootDateColumn]
	active, haveActive := parsed[ActiveDateColumn]
	interval, haveInterval := parsed[IntervalDateColumn]

	for i, row := range rows {
		bootActive := 0.0
		if haveBoot && haveActive && lastBoot.valid[i] && active.valid[i] {
			bootActive = lastBoot.times[i].Sub(active.times[i]).Seconds() / 86400
		}
		bootInterval := 0.0
		if haveBoot && haveInterval && lastBoot.valid[i] && interval.valid[i] {
			bootInterval = lastBoot.times[i].Sub(interval.times[i]).Seconds() / 86400
		}
		row[FeatureBootActive] = strconv.FormatFloat(bootActive, 'f', -1, 64)
		row[FeatureBootInterval] = strconv.FormatFloat(bootInterval, 'f', -1, 64)
	}
	return append(headers, FeatureBootActive, FeatureBootInterval)
}

// reconcileSimInfo binarizes the SIM presence flag: anything other than
// the exact "uninserted" marker counts as inserted. Sheets without the
// column get it defaulted to uninserted.
func reconcileSimInfo(s sheet.Sheet, headers []string, rows []sheet.Row) []string {
	if s.HasColumn(simInfoColumn) {
		for _, row := range rows {
			if row[simInfoColumn] != simUninserted {
				row[simInfoColumn] = simInserted
			}
		}
		return headers
	}
	for _, row := range rows {
		row[simInfoColumn] = simUninserted
	}
	return append(headers, simInfoColumn)
}

// fillNumericGaps fills missing values with 0 in columns that are
// otherwise entirely numeric. Free-text columns keep empty strings so no
// internal null representation leaks into output.
func fillNumericGaps(headers []string, rows []sheet.Row) {
	skip := map[string]bool{
		ChurnColumn:         true,
		FeatureBootActive:   true,
		FeatureBootInterval: true,
		simInfoColumn:       true,
		ActiveDateColumn:    true,
		LastBootDateColumn:  true,
		IntervalDateColumn:  true,
	}
	for _, col := range headers {
		if skip[col] {
			continue
		}
		numeric := true
		nonEmpty := 0
		for _, row := range rows {
			v := strings.TrimSpace(row[col])
			if v == "" {
				continue
			}
			nonEmpty++
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
				break
			}
		}
		if !numeric || nonEmpty == 0 {
			continue
		}
		for _, row := range rows {
			if strings.TrimSpace(row[col]) == "" {
				row[col] = "0"
			}
		}
	}
}

func containsColumn(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}

func isChurnAlias(name string) bool {
	for _, alias := range churnAliases {
		if name == alias {
			return true
		}
	}
	return false
}
