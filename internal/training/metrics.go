package training

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func MeanAbsoluteError(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	return floats.Distance(actual, predicted, 1) / float64(len(actual))
}

// R2 is the coefficient of determination. A constant target scores 1 when
// predicted exactly and 0 otherwise.
func R2(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	r2 := stat.RSquaredFrom(predicted, actual, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		if floats.Equal(actual, predicted) {
			return 1
		}
		return 0
	}
	return r2
}
