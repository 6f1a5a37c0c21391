// Package training builds the learned valuation model offline: synthetic data
// generation, raw data cleaning, forest fitting and evaluation.
package training

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/nurpe/carbon-valuation/internal/artifact"
	"github.com/nurpe/carbon-valuation/internal/forest"
	"github.com/nurpe/carbon-valuation/internal/model"
	"github.com/nurpe/carbon-valuation/internal/valuation"
)

type Options struct {
	Forest    forest.Params
	TestSize  float64
	SplitSeed uint64
}

func DefaultOptions() Options {
	return Options{
		Forest:    forest.DefaultParams(),
		TestSize:  0.2,
		SplitSeed: 42,
	}
}

type Pipeline struct {
	opts Options
	log  zerolog.Logger
	now  func() time.Time
}

func NewPipeline(opts Options, log zerolog.Logger) *Pipeline {
	return &Pipeline{opts: opts, log: log, now: time.Now}
}

// Fit extracts features for every row with a credit value, fits the forest on
// a seeded train split and records metrics on both splits.
func (p *Pipeline) Fit(ctx context.Context, rows []model.TrainingRow) (*artifact.Model, error) {
	X, y := p.matrix(rows)
	if len(X) < 2 {
		return nil, eris.Errorf("training: need at least 2 rows with a credit value, got %d", len(X))
	}
	means := imputeColumnMeans(X)

	trainIdx, testIdx := splitIndices(len(X), p.opts.TestSize, p.opts.SplitSeed)
	Xtrain, ytrain := subset(X, y, trainIdx)
	Xtest, ytest := subset(X, y, testIdx)

	p.log.Info().
		Int("rows", len(X)).
		Int("train", len(Xtrain)).
		Int("test", len(Xtest)).
		Int("trees", p.opts.Forest.Trees).
		Msg("fitting forest")

	f, err := forest.Fit(ctx, Xtrain, ytrain, p.opts.Forest)
	if err != nil {
		return nil, eris.Wrap(err, "training: fit forest")
	}

	metrics, err := evaluate(f, Xtrain, ytrain, Xtest, ytest)
	if err != nil {
		return nil, err
	}
	p.log.Info().
		Float64("train_mae", metrics.TrainMAE).
		Float64("train_r2", metrics.TrainR2).
		Float64("test_mae", metrics.TestMAE).
		Float64("test_r2", metrics.TestR2).
		Msg("model evaluated")
	p.logImportances(f.Importances)

	return &artifact.Model{
		Forest:       f,
		ColumnMeans:  means,
		FeatureNames: model.FeatureNames[:],
		Metrics:      metrics,
		Samples:      len(X),
		TrainedAt:    p.now().UTC(),
	}, nil
}

func (p *Pipeline) matrix(rows []model.TrainingRow) ([][]float64, []float64) {
	X := make([][]float64, 0, len(rows))
	y := make([]float64, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if row.CreditValue == nil || math.IsNaN(*row.CreditValue) {
			skipped++
			continue
		}
		fv := valuation.Extract(row.Project())
		X = append(X, fv[:])
		y = append(y, *row.CreditValue)
	}
	if skipped > 0 {
		p.log.Warn().Int("rows", skipped).Msg("skipping rows without credit value")
	}
	return X, y
}

func (p *Pipeline) logImportances(importances []float64) {
	order := make([]int, len(importances))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return importances[order[a]] > importances[order[b]]
	})
	for _, i := range order {
		name := ""
		if i < len(model.FeatureNames) {
			name = model.FeatureNames[i]
		}
		p.log.Info().Str("feature", name).Float64("importance", importances[i]).Msg("feature importance")
	}
}

func evaluate(f *forest.Forest, Xtrain [][]float64, ytrain []float64, Xtest [][]float64, ytest []float64) (*artifact.Metrics, error) {
	trainPred, err := f.PredictAll(Xtrain)
	if err != nil {
		return nil, eris.Wrap(err, "training: predict train split")
	}
	testPred, err := f.PredictAll(Xtest)
	if err != nil {
		return nil, eris.Wrap(err, "training: predict test split")
	}
	return &artifact.Metrics{
		TrainMAE: MeanAbsoluteError(ytrain, trainPred),
		TestMAE:  MeanAbsoluteError(ytest, testPred),
		TrainR2:  R2(ytrain, trainPred),
		TestR2:   R2(ytest, testPred),
	}, nil
}

// imputeColumnMeans replaces NaN cells with their column mean over non-NaN
// cells (0 for an all-NaN column) and returns the means.
func imputeColumnMeans(X [][]float64) []float64 {
	cols := len(X[0])
	means := make([]float64, cols)
	observed := make([]float64, 0, len(X))
	for j := 0; j < cols; j++ {
		observed = observed[:0]
		for _, row := range X {
			if !math.IsNaN(row[j]) {
				observed = append(observed, row[j])
			}
		}
		if len(observed) > 0 {
			means[j] = stat.Mean(observed, nil)
		}
		for _, row := range X {
			if math.IsNaN(row[j]) {
				row[j] = means[j]
			}
		}
	}
	return means
}

// splitIndices shuffles 0..n-1 with the seed and holds out ceil(n*testSize) rows.
func splitIndices(n int, testSize float64, seed uint64) ([]int, []int) {
	perm := rand.New(rand.NewPCG(seed, 0)).Perm(n)
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	return perm[nTest:], perm[:nTest]
}

func subset(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
