package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAbsoluteError(t *testing.T) {
	assert.InDelta(t, 0.5, MeanAbsoluteError([]float64{1, 2, 3, 4}, []float64{1.5, 1.5, 3.5, 3.5}), 1e-12)
	assert.Equal(t, 0.0, MeanAbsoluteError(nil, nil))
}

func TestR2(t *testing.T) {
	actual := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, R2(actual, actual))
	assert.InDelta(t, 0.0, R2(actual, []float64{2.5, 2.5, 2.5, 2.5}), 1e-12)
	assert.InDelta(t, 0.8, R2(actual, []float64{1.5, 1.5, 3.5, 3.5}), 1e-12)
	assert.Less(t, R2(actual, []float64{4, 3, 2, 1}), 0.0)

	assert.Equal(t, 1.0, R2([]float64{5, 5}, []float64{5, 5}))
	assert.Equal(t, 0.0, R2([]float64{5, 5}, []float64{4, 6}))
}
