// Package analysis computes the dashboard's column-level summaries:
// pairwise correlations across numeric columns and per-column
// distributions split by churn label.
package analysis

import (
	"math"
	"strconv"
	"strings"

	"churnboard/domain/sheet"
	"churnboard/internal/errors"
	"churnboard/internal/reconcile"

	"gonum.org/v1/gonum/stat"
)

// HeatmapCell is one chart-ready entry of the correlation matrix.
type HeatmapCell struct {
	X     string  `json:"x"`
	Y     string  `json:"y"`
	Value float64 `json:"value"`
}

// Heatmap is the pairwise Pearson correlation matrix over the numeric
// columns of a reconciled sheet, plus a flattened chart-ready form.
type Heatmap struct {
	Columns []string      `json:"columns"`
	Matrix  [][]float64   `json:"matrix"`
	Cells   []HeatmapCell `json:"cells"`
}

// CorrelationHeatmap reconciles a sheet and correlates every pair of
// numeric columns over their pairwise-complete rows. A sheet with no
// numeric columns is a NotFound error naming what was missing.
func CorrelationHeatmap(s sheet.Sheet) (*Heatmap, error) {
	full := reconcile.Full(s)

	columns, values := numericColumns(full)
	if len(columns) == 0 {
		return nil, errors.NotFound("numeric columns in sheet")
	}

	n := len(columns)
	matrix := make([][]float64, n)
	cells := make([]HeatmapCell, 0, n*n)
	for i := range columns {
		matrix[i] = make([]float64, n)
		for j := range columns {
			r := pairwiseCorrelation(values[i], values[j])
			matrix[i][j] = r
			cells = append(cells, HeatmapCell{X: columns[j], Y: columns[i], Value: r})
		}
	}

	return &Heatmap{Columns: columns, Matrix: matrix, Cells: cells}, nil
}

// numericColumns returns the reconciled columns whose non-empty cells all
// parse as numbers, with per-row parsed values (NaN marks gaps).
func numericColumns(s sheet.Sheet) ([]string, [][]float64) {
	var columns []string
	var values [][]float64
	for _, col := range s.Headers {
		parsed := make([]float64, len(s.Rows))
		numeric := true
		seen := 0
		for i, row := range s.Rows {
			v := strings.TrimSpace(row[col])
			if v == "" {
				parsed[i] = math.NaN()
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				numeric = false
				break
			}
			parsed[i] = f
			seen++
		}
		if numeric && seen > 0 {
			columns = append(columns, col)
			values = append(values, parsed)
		}
	}
	return columns, values
}

// pairwiseCorrelation computes Pearson's r over rows where both columns
// have values. Degenerate pairs (fewer than two complete rows, or zero
// variance) report 0.
func pairwiseCorrelation(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}
