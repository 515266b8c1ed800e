package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifactFiles(t *testing.T, classifier, preprocessor, metrics string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, classifierFile), []byte(classifier), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, preprocessorFile), []byte(preprocessor), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, metricsFile), []byte(metrics), 0o644))
	return dir
}

func testArtifacts(t *testing.T) *Artifacts {
	t.Helper()
	dir := writeArtifactFiles(t,
		`{
			"feature_names": ["last boot - active", "last boot - interval"],
			"coefficients": [0.8, -0.4],
			"intercept": -0.2,
			"feature_importances": [0.7, 0.3]
		}`,
		`{"mean": [10, 5], "scale": [4, 2]}`,
		`{"roc_auc": 0.91, "accuracy": 0.88}`,
	)
	artifacts, err := Load(dir)
	require.NoError(t, err)
	return artifacts
}

func TestLoad(t *testing.T) {
	artifacts := testArtifacts(t)

	assert.Equal(t, []string{"last boot - active", "last boot - interval"}, artifacts.Classifier.FeatureNames)
	assert.JSONEq(t, `{"roc_auc": 0.91, "accuracy": 0.88}`, string(artifacts.TrainingMetrics))
}

func TestLoad_RejectsMisalignedArtifacts(t *testing.T) {
	dir := writeArtifactFiles(t,
		`{
			"feature_names": ["last boot - active", "last boot - interval"],
			"coefficients": [0.8],
			"intercept": 0,
			"feature_importances": [0.7, 0.3]
		}`,
		`{"mean": [10, 5], "scale": [4, 2]}`,
		`{}`,
	)
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestPreprocessor_Transform(t *testing.T) {
	artifacts := testArtifacts(t)

	encoded, err := artifacts.Preprocessor.Transform([]float64{14, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, encoded[0], 1e-12)
	assert.InDelta(t, -1.0, encoded[1], 1e-12)
}

func TestPreprocessor_TransformDimensionMismatch(t *testing.T) {
	artifacts := testArtifacts(t)
	_, err := artifacts.Preprocessor.Transform([]float64{1})
	assert.Error(t, err)
}

func TestClassifier_PredictProba(t *testing.T) {
	artifacts := testArtifacts(t)

	// z = -0.2 + 0.8*1 + (-0.4)*(-1) = 1.0
	prob, err := artifacts.Classifier.PredictProba([]float64{1, -1})
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-1)), prob, 1e-12)
	assert.GreaterOrEqual(t, prob, 0.0)
	assert.LessOrEqual(t, prob, 1.0)
}
