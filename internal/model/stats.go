package model

import (
	"github.com/montanaflynn/stats"
)

// PredictionStats summarizes a prediction set for the dashboard.
type PredictionStats struct {
	TotalRows         int     `json:"total_rows"`
	PredictedChurners int     `json:"predicted_churners"`
	PredictedRetained int     `json:"predicted_retained"`
	ChurnRate         float64 `json:"churn_rate"`
	MeanProbability   float64 `json:"mean_probability"`
	MaxProbability    float64 `json:"max_probability"`
	MinProbability    float64 `json:"min_probability"`
}

// Summarize computes aggregate counts and means over predictions.
func Summarize(predictions []Prediction) PredictionStats {
	result := PredictionStats{TotalRows: len(predictions)}
	if len(predictions) == 0 {
		return result
	}

	probs := make([]float64, len(predictions))
	for i, p := range predictions {
		probs[i] = p.Probability
		if p.Label == 1 {
			result.PredictedChurners++
		} else {
			result.PredictedRetained++
		}
	}
	result.ChurnRate = float64(result.PredictedChurners) / float64(len(predictions))

	// These cannot fail on a non-empty slice.
	result.MeanProbability, _ = stats.Mean(probs)
	result.MaxProbability, _ = stats.Max(probs)
	result.MinProbability, _ = stats.Min(probs)
	return result
}
