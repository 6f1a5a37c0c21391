package valuation

import (
	"math"

	"github.com/nurpe/carbon-valuation/internal/model"
)

const (
	defaultModelConfidence = 0.85
	minModelConfidence     = 0.5
	maxModelConfidence     = 0.95
)

// Model is a trained regressor over FeatureVector.
type Model interface {
	Predict(features model.FeatureVector) (float64, error)
	// QualityScore is the score recorded at training time (test R²).
	QualityScore() (float64, error)
}

// Predict scores the features with m. A missing or unusable quality score
// falls back to the default confidence; a prediction error is returned as is.
func Predict(features model.FeatureVector, m Model) (float64, float64, error) {
	value, err := m.Predict(features)
	if err != nil {
		return 0, 0, err
	}
	return value, modelConfidence(m), nil
}

func modelConfidence(m Model) float64 {
	score, err := m.QualityScore()
	if err != nil || math.IsNaN(score) {
		return defaultModelConfidence
	}
	return math.Min(maxModelConfidence, math.Max(minModelConfidence, score))
}
