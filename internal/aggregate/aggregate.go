// Package aggregate computes per-column frequency tables. A column is
// classified as a whole: if any value parses as a timestamp the entire
// column is bucketed by calendar month, otherwise it is counted as
// categorical labels. The all-or-nothing column-level decision is known,
// deliberate behavior: one stray parseable date reclassifies the column.
package aggregate

import (
	"sort"

	"churnboard/domain/sheet"
	"churnboard/internal/normalize"
	"churnboard/internal/temporal"
)

// Kind tags how a column was classified.
type Kind string

const (
	Temporal    Kind = "temporal"
	Categorical Kind = "categorical"
)

// Result is the explicit classify-then-aggregate outcome for one column.
type Result struct {
	Kind  Kind
	Table sheet.FrequencyTable
}

const monthLayout = "2006-01"

// Aggregate normalizes every value, probes each for a timestamp, and
// produces a frequency table in either temporal or categorical mode.
// Temporal tables are ordered ascending by month and exclude unparseable
// entries; categorical tables are ordered by descending count with ties
// broken by first-seen order and include the Missing label as its own
// bucket. Counts are always non-negative integers.
func Aggregate(values []string) Result {
	labels := make([]string, len(values))
	months := make([]string, len(values))
	anyTemporal := false
	for i, v := range values {
		// Probe for timestamps before title-casing: Canonical would
		// lowercase a trailing RFC3339 "Z" and break the strict parse.
		cleaned := normalize.Normalize(v)
		if t, ok := temporal.Parse(cleaned); ok {
			months[i] = t.Format(monthLayout)
			anyTemporal = true
		}
		labels[i] = normalize.Canonical(cleaned)
	}

	if anyTemporal {
		return Result{Kind: Temporal, Table: temporalTable(months)}
	}
	return Result{Kind: Categorical, Table: categoricalTable(labels)}
}

// AggregateColumn runs Aggregate over one column of a sheet.
func AggregateColumn(s sheet.Sheet, column string) Result {
	return Aggregate(s.ColumnValues(column))
}

func temporalTable(months []string) sheet.FrequencyTable {
	counts := make(map[string]int)
	for _, m := range months {
		if m == "" {
			continue
		}
		counts[m]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// YYYY-MM labels sort chronologically as strings.
	sort.Strings(keys)

	table := make(sheet.FrequencyTable, 0, len(keys))
	for _, k := range keys {
		table = append(table, sheet.FrequencyBucket{Label: k, Count: counts[k]})
	}
	return table
}

func categoricalTable(labels []string) sheet.FrequencyTable {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, label := range labels {
		if _, ok := counts[label]; !ok {
			firstSeen[label] = i
		}
		counts[label]++
	}

	table := make(sheet.FrequencyTable, 0, len(counts))
	for label, count := range counts {
		table = append(table, sheet.FrequencyBucket{Label: label, Count: count})
	}
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return firstSeen[table[i].Label] < firstSeen[table[j].Label]
	})
	return table
}
