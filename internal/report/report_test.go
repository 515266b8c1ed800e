package report

import (
	"testing"

	"churnboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_PerfectClassifier(t *testing.T) {
	truth := []int{1, 0, 1, 0}
	predicted := []int{1, 0, 1, 0}
	probs := []float64{0.9, 0.1, 0.8, 0.2}

	r, err := Evaluate(truth, predicted, probs)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, r.Accuracy, 1e-12)
	assert.InDelta(t, 1.0, r.ROCAUC, 1e-12)
	assert.Equal(t, 4, r.Scored)

	for _, class := range []string{"0", "1"} {
		m := r.Classes[class]
		assert.InDelta(t, 1.0, m.Precision, 1e-12, "class %s precision", class)
		assert.InDelta(t, 1.0, m.Recall, 1e-12, "class %s recall", class)
		assert.InDelta(t, 1.0, m.F1, 1e-12, "class %s f1", class)
		assert.Equal(t, 2, m.Support, "class %s support", class)
	}

	assert.Equal(t, [2][2]int{{2, 0}, {0, 2}}, r.Confusion)
}

func TestEvaluate_MixedPredictions(t *testing.T) {
	truth := []int{1, 1, 0, 0}
	predicted := []int{1, 0, 0, 1}
	probs := []float64{0.8, 0.4, 0.3, 0.6}

	r, err := Evaluate(truth, predicted, probs)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, r.Accuracy, 1e-12)
	assert.Equal(t, [2][2]int{{1, 1}, {1, 1}}, r.Confusion)

	positive := r.Classes["1"]
	assert.InDelta(t, 0.5, positive.Precision, 1e-12)
	assert.InDelta(t, 0.5, positive.Recall, 1e-12)
	assert.InDelta(t, 0.5, positive.F1, 1e-12)
	assert.Equal(t, 2, positive.Support)
}

func TestEvaluate_ROCAUCRanksProbabilities(t *testing.T) {
	// Positives score strictly above negatives except one inversion.
	truth := []int{1, 1, 0, 0}
	predicted := []int{1, 0, 0, 0}
	probs := []float64{0.9, 0.2, 0.4, 0.1}

	r, err := Evaluate(truth, predicted, probs)
	require.NoError(t, err)

	// One of four positive/negative pairs is inverted: AUC = 3/4.
	assert.InDelta(t, 0.75, r.ROCAUC, 1e-12)
}

func TestEvaluate_SingleClassHasDegenerateAUC(t *testing.T) {
	truth := []int{1, 1}
	predicted := []int{1, 1}
	probs := []float64{0.9, 0.8}

	r, err := Evaluate(truth, predicted, probs)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.ROCAUC)
	assert.InDelta(t, 1.0, r.Accuracy, 1e-12)
}

func TestEvaluate_EmptyInputIsUserError(t *testing.T) {
	_, err := Evaluate(nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	_, err := Evaluate([]int{1}, []int{1, 0}, []float64{0.5})
	assert.Error(t, err)
}

func TestImportancePercentages(t *testing.T) {
	names := []string{"last boot - active", "last boot - interval"}
	raw := []float64{0.6, 0.2}

	importances, err := ImportancePercentages(names, raw)
	require.NoError(t, err)
	require.Len(t, importances, 2)

	assert.Equal(t, "last boot - active", importances[0].Feature)
	assert.InDelta(t, 75.0, importances[0].Percent, 1e-12)
	assert.InDelta(t, 25.0, importances[1].Percent, 1e-12)
}

func TestImportancePercentages_ZeroTotal(t *testing.T) {
	importances, err := ImportancePercentages([]string{"a"}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, importances[0].Percent)
}

func TestSortedByPercent(t *testing.T) {
	importances, err := ImportancePercentages(
		[]string{"low", "high"},
		[]float64{0.2, 0.8},
	)
	require.NoError(t, err)

	ranked := SortedByPercent(importances)
	assert.Equal(t, "high", ranked[0].Feature)
	assert.Equal(t, "low", ranked[1].Feature)
	// Original order untouched.
	assert.Equal(t, "low", importances[0].Feature)
}
