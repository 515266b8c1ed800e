// Package report computes classification metrics from classifier outputs
// and ground truth, and the feature-importance summary exposed by the API.
package report

import (
	"fmt"
	"sort"

	"churnboard/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ClassMetrics holds per-class precision/recall/F1 and support.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

// Report is the confusion-matrix-derived classification report plus
// ROC-AUC against predicted probabilities.
type Report struct {
	Classes   map[string]ClassMetrics `json:"classification_report"`
	Accuracy  float64                 `json:"accuracy"`
	Confusion [2][2]int               `json:"confusion_matrix"`
	ROCAUC    float64                 `json:"roc_auc"`
	Scored    int                     `json:"scored_rows"`
}

// Evaluate scores predictions against ground truth. Callers pass only
// rows with a valid numeric label; rows with missing or unparseable
// labels must be excluded from scoring, not defaulted to 0.
func Evaluate(truth, predicted []int, probabilities []float64) (*Report, error) {
	if len(truth) != len(predicted) || len(truth) != len(probabilities) {
		return nil, errors.InternalError("truth, predictions, and probabilities must be the same length")
	}
	if len(truth) == 0 {
		return nil, errors.InvalidInput("no rows with a valid churn label to score")
	}

	report := &Report{
		Classes: make(map[string]ClassMetrics, 2),
		Scored:  len(truth),
	}

	correct := 0
	for i := range truth {
		t, p := clampLabel(truth[i]), clampLabel(predicted[i])
		report.Confusion[t][p]++
		if t == p {
			correct++
		}
	}
	report.Accuracy = float64(correct) / float64(len(truth))

	for class := 0; class < 2; class++ {
		tp := report.Confusion[class][class]
		fp := report.Confusion[1-class][class]
		fn := report.Confusion[class][1-class]

		m := ClassMetrics{Support: report.Confusion[class][0] + report.Confusion[class][1]}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes[fmt.Sprintf("%d", class)] = m
	}

	report.ROCAUC = rocAUC(truth, probabilities)
	return report, nil
}

// rocAUC computes the area under the ROC curve. With only one class
// present the curve is degenerate and the area reports 0.
func rocAUC(truth []int, probabilities []float64) float64 {
	positives := 0
	for _, t := range truth {
		if clampLabel(t) == 1 {
			positives++
		}
	}
	if positives == 0 || positives == len(truth) {
		return 0
	}

	scores := make([]float64, len(probabilities))
	copy(scores, probabilities)
	classes := make([]bool, len(truth))
	for i, t := range truth {
		classes[i] = clampLabel(t) == 1
	}
	stat.SortWeightedLabeled(scores, classes, nil)

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

func clampLabel(label int) int {
	if label >= 1 {
		return 1
	}
	return 0
}

// FeatureImportance is one feature's raw importance and its share of the
// total, as a percentage.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Percent    float64 `json:"percent"`
}

// ImportancePercentages normalizes raw classifier importances to
// percentages over the fixed, ordered feature name list used at
// inference time. Output keeps the feature-name order.
func ImportancePercentages(names []string, raw []float64) ([]FeatureImportance, error) {
	if len(names) != len(raw) {
		return nil, errors.InternalError("feature names and importances are misaligned")
	}

	total := floats.Sum(raw)
	result := make([]FeatureImportance, len(names))
	for i, name := range names {
		percent := 0.0
		if total != 0 {
			percent = raw[i] / total * 100
		}
		result[i] = FeatureImportance{Feature: name, Importance: raw[i], Percent: percent}
	}
	return result, nil
}

// SortedByPercent returns a copy ordered by descending percentage.
func SortedByPercent(importances []FeatureImportance) []FeatureImportance {
	sorted := make([]FeatureImportance, len(importances))
	copy(sorted, importances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Percent > sorted[j].Percent
	})
	return sorted
}
