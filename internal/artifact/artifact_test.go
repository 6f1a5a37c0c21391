package artifact

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/carbon-valuation/internal/forest"
	"github.com/nurpe/carbon-valuation/internal/model"
	"github.com/nurpe/carbon-valuation/internal/valuation"
)

var _ valuation.Model = (*Model)(nil)

func fittedModel(t *testing.T) *Model {
	t.Helper()
	X := make([][]float64, 0, 40)
	y := make([]float64, 0, 40)
	for i := 0; i < 40; i++ {
		area := float64(100 * (i + 1))
		X = append(X, []float64{area, area * 30, 20, 1, 1})
		y = append(y, 10+float64(i%4))
	}
	p := forest.DefaultParams()
	p.Trees = 5
	f, err := forest.Fit(context.Background(), X, y, p)
	require.NoError(t, err)
	return &Model{
		Forest:       f,
		ColumnMeans:  []float64{2050, 61500, 20, 1, 1},
		FeatureNames: model.FeatureNames[:],
		Metrics:      &Metrics{TrainMAE: 0.4, TestMAE: 0.6, TrainR2: 0.93, TestR2: 0.88},
		Samples:      40,
		TrainedAt:    time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveLoadRoundTripPredictsIdentically(t *testing.T) {
	m := fittedModel(t)
	path := filepath.Join(t.TempDir(), "models", "carbon_value_model.json")

	require.NoError(t, Save(path, m))
	loaded, err := Load(path)
	require.NoError(t, err)

	fv := model.FeatureVector{700, 21000, 20, 1, 1}
	want, err := m.Predict(fv)
	require.NoError(t, err)
	got, err := loaded.Predict(fv)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	score, err := loaded.QualityScore()
	require.NoError(t, err)
	assert.Equal(t, 0.88, score)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLoadRejectsWrongFeatureWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"forest":{"features":3,"trees":[{"nodes":[{"l":-1,"r":-1,"v":1}]}]}}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsOutOfRangeSplitFeature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	body := `{"forest":{"features":5,"trees":[{"nodes":[` +
		`{"f":9,"t":1,"l":1,"r":2},{"l":-1,"r":-1,"v":1},{"l":-1,"r":-1,"v":2}]}]}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestQualityScoreWithoutMetrics(t *testing.T) {
	m := fittedModel(t)
	m.Metrics = nil

	_, err := m.QualityScore()
	assert.Error(t, err)

	_, confidence, err := valuation.Predict(model.FeatureVector{700, 21000, 20, 1, 1}, m)
	require.NoError(t, err)
	assert.Equal(t, 0.85, confidence)
}

func TestPredictImputesNaN(t *testing.T) {
	m := fittedModel(t)

	withNaN, err := m.Predict(model.FeatureVector{math.NaN(), 61500, 20, 1, 1})
	require.NoError(t, err)
	imputed, err := m.Predict(model.FeatureVector{2050, 61500, 20, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, imputed, withNaN)
}
