// Package model holds the persisted classifier artifacts and the
// inference adapter built on them. Artifacts are loaded once at process
// start and treated as immutable for the process lifetime, so concurrent
// reads are always safe.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
)

// Artifact file names inside the model directory.
const (
	classifierFile   = "churn_model.json"
	preprocessorFile = "preprocessor.json"
	metricsFile      = "model_metrics.json"
)

// Classifier is the persisted binary churn classifier: a logistic model
// over the scaled day-delta features, exported with its raw feature
// importances.
type Classifier struct {
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Importances  []float64 `json:"feature_importances"`
}

// PredictProba returns the probability mass on the positive (churn) class
// for an encoded feature vector.
func (c *Classifier) PredictProba(encoded []float64) (float64, error) {
	if len(encoded) != len(c.Coefficients) {
		return 0, fmt.Errorf("classifier expects %d features, got %d", len(c.Coefficients), len(encoded))
	}
	z := c.Intercept + floats.Dot(c.Coefficients, encoded)
	return 1 / (1 + math.Exp(-z)), nil
}

// Preprocessor is the persisted feature scaler fitted at training time.
type Preprocessor struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform encodes a raw feature vector with the fitted scaler.
func (p *Preprocessor) Transform(features []float64) ([]float64, error) {
	if len(features) != len(p.Mean) {
		return nil, fmt.Errorf("preprocessor expects %d features, got %d", len(p.Mean), len(features))
	}
	encoded := make([]float64, len(features))
	for i, v := range features {
		scale := p.Scale[i]
		if scale == 0 {
			scale = 1
		}
		encoded[i] = (v - p.Mean[i]) / scale
	}
	return encoded, nil
}

// Artifacts bundles everything loaded from the model directory.
type Artifacts struct {
	Classifier      *Classifier
	Preprocessor    *Preprocessor
	TrainingMetrics json.RawMessage
}

// Load reads the classifier, preprocessor, and training-metrics documents
// from dir. The service refuses to start without a coherent set.
func Load(dir string) (*Artifacts, error) {
	var classifier Classifier
	if err := readJSON(filepath.Join(dir, classifierFile), &classifier); err != nil {
		return nil, fmt.Errorf("failed to load classifier: %w", err)
	}
	if len(classifier.Coefficients) != len(classifier.FeatureNames) {
		return nil, fmt.Errorf("classifier has %d coefficients for %d features",
			len(classifier.Coefficients), len(classifier.FeatureNames))
	}
	if len(classifier.Importances) != len(classifier.FeatureNames) {
		return nil, fmt.Errorf("classifier has %d importances for %d features",
			len(classifier.Importances), len(classifier.FeatureNames))
	}

	var preprocessor Preprocessor
	if err := readJSON(filepath.Join(dir, preprocessorFile), &preprocessor); err != nil {
		return nil, fmt.Errorf("failed to load preprocessor: %w", err)
	}
	if len(preprocessor.Mean) != len(preprocessor.Scale) {
		return nil, fmt.Errorf("preprocessor has %d means for %d scales",
			len(preprocessor.Mean), len(preprocessor.Scale))
	}
	if len(preprocessor.Mean) != len(classifier.FeatureNames) {
		return nil, fmt.Errorf("preprocessor covers %d features, classifier expects %d",
			len(preprocessor.Mean), len(classifier.FeatureNames))
	}

	metrics, err := os.ReadFile(filepath.Join(dir, metricsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load training metrics: %w", err)
	}
	if !json.Valid(metrics) {
		return nil, fmt.Errorf("training metrics document is not valid JSON")
	}

	return &Artifacts{
		Classifier:      &classifier,
		Preprocessor:    &preprocessor,
		TrainingMetrics: json.RawMessage(metrics),
	}, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
