package model

import (
	"context"
	"runtime"
	"strconv"

	"churnboard/domain/sheet"
	"churnboard/internal/errors"
	"churnboard/internal/reconcile"

	"golang.org/x/sync/errgroup"
)

// Prediction columns attached to scored rows.
const (
	ProbabilityColumn = "churn_probability"
	PredictionColumn  = "churn_prediction"
)

// Threshold is the fixed decision threshold for the positive class.
const Threshold = 0.5

// Prediction is one scored row: the original, unreconciled cells plus the
// churn probability and 0/1 label.
type Prediction struct {
	Row         sheet.Row
	Probability float64
	Label       int
}

// Record returns the prediction as a row carrying the caller's original
// columns plus the two prediction columns, ready for paging or export.
func (p Prediction) Record() sheet.Row {
	record := make(sheet.Row, len(p.Row)+2)
	for k, v := range p.Row {
		record[k] = v
	}
	record[ProbabilityColumn] = strconv.FormatFloat(p.Probability, 'f', -1, 64)
	record[PredictionColumn] = strconv.Itoa(p.Label)
	return record
}

// RecordHeaders appends the prediction columns to a sheet's header list.
func RecordHeaders(original []string) []string {
	headers := make([]string, 0, len(original)+2)
	headers = append(headers, original...)
	return append(headers, ProbabilityColumn, PredictionColumn)
}

// Predictor scores rows with the persisted classifier.
type Predictor struct {
	artifacts *Artifacts
}

// NewPredictor creates a predictor over loaded artifacts.
func NewPredictor(artifacts *Artifacts) *Predictor {
	return &Predictor{artifacts: artifacts}
}

// PredictFeatures scores one reconciled feature row.
func (p *Predictor) PredictFeatures(features reconcile.FeatureRow) (float64, int, error) {
	encoded, err := p.artifacts.Preprocessor.Transform(features.Vector())
	if err != nil {
		return 0, 0, errors.UpstreamModel(err)
	}
	prob, err := p.artifacts.Classifier.PredictProba(encoded)
	if err != nil {
		return 0, 0, errors.UpstreamModel(err)
	}
	label := 0
	if prob >= Threshold {
		label = 1
	}
	return prob, label, nil
}

// PredictSheet scores every row of a sheet. Rows are scored in parallel
// but results are reassembled in original row order. A schema-level or
// model-level failure aborts the whole batch; there are no partial
// results.
func (p *Predictor) PredictSheet(ctx context.Context, s sheet.Sheet) ([]Prediction, error) {
	features, err := reconcile.FeatureOnly(s)
	if err != nil {
		return nil, err
	}

	predictions := make([]Prediction, len(s.Rows))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range s.Rows {
		i := i
		g.Go(func() error {
			prob, label, err := p.PredictFeatures(features[i])
			if err != nil {
				return err
			}
			predictions[i] = Prediction{Row: s.Rows[i], Probability: prob, Label: label}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return predictions, nil
}
