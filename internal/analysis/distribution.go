package analysis

import (
	"strconv"
	"strings"

	"churnboard/domain/sheet"
	"churnboard/internal/errors"
	"churnboard/internal/normalize"
	"churnboard/internal/reconcile"

	"github.com/montanaflynn/stats"
)

// BoxplotStats is the five-number summary (plus mean) of one churn group
// of a numeric column.
type BoxplotStats struct {
	Churn  int     `json:"churn"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// StackedCategory is one label of a categorical column with its count per
// churn group.
type StackedCategory struct {
	Label    string `json:"label"`
	Retained int    `json:"retained"`
	Churned  int    `json:"churned"`
}

// Distribution is a per-column distribution split by churn label:
// boxplot statistics for numeric columns, stacked counts for categorical
// ones.
type Distribution struct {
	Column     string            `json:"column"`
	Kind       string            `json:"kind"`
	Boxplots   []BoxplotStats    `json:"boxplots,omitempty"`
	Categories []StackedCategory `json:"categories,omitempty"`
}

// DistributionVsChurn reconciles the sheet and splits one column's values
// by the canonical churn label. The column must exist in the reconciled
// sheet.
func DistributionVsChurn(s sheet.Sheet, column string) (*Distribution, error) {
	full := reconcile.Full(s)
	if !full.HasColumn(column) {
		return nil, errors.NotFound("column " + strconv.Quote(column))
	}

	labels := make([]int, len(full.Rows))
	for i, row := range full.Rows {
		if v, err := strconv.Atoi(row[reconcile.ChurnColumn]); err == nil && v >= 1 {
			labels[i] = 1
		}
	}

	if groups, ok := numericGroups(full, column, labels); ok {
		return &Distribution{Column: column, Kind: "numeric", Boxplots: groups}, nil
	}
	return &Distribution{
		Column:     column,
		Kind:       "categorical",
		Categories: categoricalGroups(full, column, labels),
	}, nil
}

// numericGroups computes per-churn boxplot summaries when every non-empty
// cell of the column parses as a number. Missing cells are excluded from
// the summaries rather than counted as 0.
func numericGroups(s sheet.Sheet, column string, labels []int) ([]BoxplotStats, bool) {
	grouped := map[int][]float64{0: nil, 1: nil}
	seen := 0
	for i, row := range s.Rows {
		v := strings.TrimSpace(row[column])
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		grouped[labels[i]] = append(grouped[labels[i]], f)
		seen++
	}
	if seen == 0 {
		return nil, false
	}

	var result []BoxplotStats
	for _, churn := range []int{0, 1} {
		values := grouped[churn]
		if len(values) == 0 {
			continue
		}
		box := BoxplotStats{Churn: churn, Count: len(values)}
		box.Min, _ = stats.Min(values)
		box.Q1, _ = stats.Percentile(values, 25)
		box.Median, _ = stats.Median(values)
		box.Q3, _ = stats.Percentile(values, 75)
		box.Max, _ = stats.Max(values)
		box.Mean, _ = stats.Mean(values)
		result = append(result, box)
	}
	return result, true
}

// categoricalGroups counts normalized labels per churn group, in
// first-seen order. The Missing label is its own category.
func categoricalGroups(s sheet.Sheet, column string, labels []int) []StackedCategory {
	index := make(map[string]int)
	var result []StackedCategory
	for i, row := range s.Rows {
		label := normalize.Canonical(normalize.Normalize(row[column]))
		pos, ok := index[label]
		if !ok {
			pos = len(result)
			index[label] = pos
			result = append(result, StackedCategory{Label: label})
		}
		if labels[i] == 1 {
			result[pos].Churned++
		} else {
			result[pos].Retained++
		}
	}
	return result
}
