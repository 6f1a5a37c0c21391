package valuation

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/carbon-valuation/internal/model"
)

type stubModel struct {
	value      float64
	err        error
	score      float64
	scoreErr   error
	lastVector model.FeatureVector
	mu         sync.Mutex
}

func (m *stubModel) Predict(features model.FeatureVector) (float64, error) {
	m.mu.Lock()
	m.lastVector = features
	m.mu.Unlock()
	return m.value, m.err
}

func (m *stubModel) QualityScore() (float64, error) {
	return m.score, m.scoreErr
}

func TestValueWithoutModelUsesRules(t *testing.T) {
	v := NewValuator(nil)
	assert.False(t, v.ModelLoaded())

	result, err := v.Value(amazonReforestation())
	require.NoError(t, err)

	assert.Equal(t, 35.1, result.CreditValue)
	assert.Equal(t, 0.75, result.Confidence)
	assert.Equal(t, model.MarketTrendRising, result.MarketTrend)
	assert.Equal(t, 38.61, result.RecommendedInitialPrice)
	assert.Equal(t, model.PriceRange{Min: 31.59, Max: 45.63}, result.PriceRange)
	assert.Equal(t, model.ValuationMethodRules, result.Method)
}

func TestValueWithModel(t *testing.T) {
	m := &stubModel{value: 20.004, score: 0.91}
	v := NewValuator(m)
	assert.True(t, v.ModelLoaded())

	record := amazonReforestation()
	result, err := v.Value(record)
	require.NoError(t, err)

	assert.Equal(t, Extract(record), m.lastVector)
	assert.Equal(t, 20.0, result.CreditValue)
	assert.Equal(t, 0.91, result.Confidence)
	assert.Equal(t, 22.0, result.RecommendedInitialPrice)
	assert.Equal(t, model.PriceRange{Min: 18.0, Max: 26.01}, result.PriceRange)
	assert.Equal(t, model.ValuationMethodModel, result.Method)
}

func TestModelConfidenceClampAndDefault(t *testing.T) {
	cases := []struct {
		name     string
		score    float64
		scoreErr error
		want     float64
	}{
		{name: "high score clamped", score: 0.99, want: 0.95},
		{name: "low score clamped", score: 0.12, want: 0.5},
		{name: "negative r2 clamped", score: -1.4, want: 0.5},
		{name: "score unavailable", scoreErr: errors.New("no metrics"), want: 0.85},
		{name: "nan score", score: math.NaN(), want: 0.85},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, confidence, err := Predict(model.FeatureVector{}, &stubModel{value: 10, score: tc.score, scoreErr: tc.scoreErr})
			require.NoError(t, err)
			assert.Equal(t, tc.want, confidence)
		})
	}
}

func TestValuePropagatesPredictionFailure(t *testing.T) {
	boom := errors.New("tree corrupted")
	v := NewValuator(&stubModel{err: boom})

	_, err := v.Value(amazonReforestation())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	_, err = v.RecommendPrice(amazonReforestation(), 16.75)
	assert.ErrorIs(t, err, boom)
}

func TestPriceRangeMultiples(t *testing.T) {
	v := NewValuator(nil)
	for _, area := range []float64{1, 120, 640, 999, 4000} {
		record := amazonReforestation()
		record.Area = area
		result, err := v.Value(record)
		require.NoError(t, err)

		raw, _ := RuleValue(record)
		assert.Equal(t, Round2(raw*0.9), result.PriceRange.Min)
		assert.Equal(t, Round2(raw*1.3), result.PriceRange.Max)
		assert.Equal(t, Round2(raw*1.1), result.RecommendedInitialPrice)
	}
}

func TestRecommendPrice(t *testing.T) {
	v := NewValuator(nil)

	rec, err := v.RecommendPrice(amazonReforestation(), 16.75)
	require.NoError(t, err)

	assert.Equal(t, 29.6, rec.RecommendedPrice)
	assert.Equal(t, 35.1, rec.AIPrediction)
	assert.Equal(t, 16.75, rec.MarketAverage)
	assert.Equal(t, 0.75, rec.Confidence)
	assert.Equal(t, model.PriceRange{Min: 31.59, Max: 45.63}, rec.PriceRange)
	assert.Equal(t, model.MarketTrendRising, rec.MarketTrend)
	assert.Equal(t, model.ImpactHigh, rec.Factors.Location)
}

func TestValueIsSafeForConcurrentUse(t *testing.T) {
	v := NewValuator(&stubModel{value: 18.5, score: 0.8})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := v.Value(amazonReforestation())
			assert.NoError(t, err)
			assert.Equal(t, 18.5, result.CreditValue)
		}()
	}
	wg.Wait()
}
