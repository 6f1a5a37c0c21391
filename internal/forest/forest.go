// Package forest implements a bagged ensemble of CART regression trees.
//
// Trees are grown on bootstrap samples with a per-tree PCG stream derived from
// the forest seed, so a fit is reproducible regardless of how many workers grow
// the trees. A fitted Forest is immutable and safe for concurrent Predict calls.
package forest

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            uint64
	// Workers bounds concurrent tree growth; 0 means GOMAXPROCS.
	Workers int
}

func DefaultParams() Params {
	return Params{
		Trees:           100,
		MaxDepth:        10,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		Seed:            42,
	}
}

func (p Params) validate() error {
	switch {
	case p.Trees <= 0:
		return eris.New("forest: tree count must be positive")
	case p.MaxDepth <= 0:
		return eris.New("forest: max depth must be positive")
	case p.MinSamplesSplit < 2:
		return eris.New("forest: min samples per split must be at least 2")
	case p.MinSamplesLeaf < 1:
		return eris.New("forest: min samples per leaf must be at least 1")
	}
	return nil
}

type Forest struct {
	Features    int       `json:"features"`
	Trees       []Tree    `json:"trees"`
	Importances []float64 `json:"importances"`
}

// Fit grows p.Trees trees on X (rows of equal length) against y.
func Fit(ctx context.Context, X [][]float64, y []float64, p Params) (*Forest, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(X) == 0 {
		return nil, eris.New("forest: no training samples")
	}
	if len(X) != len(y) {
		return nil, eris.Errorf("forest: %d samples but %d targets", len(X), len(y))
	}
	features := len(X[0])
	if features == 0 {
		return nil, eris.New("forest: samples have no features")
	}
	for i, row := range X {
		if len(row) != features {
			return nil, eris.Errorf("forest: sample %d has %d features, want %d", i, len(row), features)
		}
		for j, v := range row {
			if math.IsNaN(v) {
				return nil, eris.Errorf("forest: sample %d feature %d is NaN", i, j)
			}
		}
		if math.IsNaN(y[i]) {
			return nil, eris.Errorf("forest: target %d is NaN", i)
		}
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]Tree, p.Trees)
	gains := make([][]float64, p.Trees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrapf(err, "forest: tree %d", i)
			}
			rng := rand.New(rand.NewPCG(p.Seed, uint64(i)))
			b := newBuilder(X, y, features, p)
			trees[i] = b.grow(bootstrap(rng, len(X)))
			gains[i] = b.gain
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Forest{
		Features:    features,
		Trees:       trees,
		Importances: importances(gains, features),
	}, nil
}

// Validate checks the structure of a forest read from outside, so that a
// corrupt file fails on load rather than during prediction.
func (f *Forest) Validate() error {
	if f.Features <= 0 {
		return eris.Errorf("forest: invalid feature count %d", f.Features)
	}
	if len(f.Trees) == 0 {
		return eris.New("forest: no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.Features); err != nil {
			return eris.Wrapf(err, "forest: tree %d", i)
		}
	}
	return nil
}

// Predict averages the trees' leaf values for x.
func (f *Forest) Predict(x []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, eris.New("forest: no trees")
	}
	if len(x) != f.Features {
		return 0, eris.Errorf("forest: got %d features, want %d", len(x), f.Features)
	}
	sum := 0.0
	for i := range f.Trees {
		v, err := f.Trees[i].predict(x)
		if err != nil {
			return 0, eris.Wrapf(err, "forest: tree %d", i)
		}
		sum += v
	}
	return sum / float64(len(f.Trees)), nil
}

func (f *Forest) PredictAll(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		v, err := f.Predict(x)
		if err != nil {
			return nil, eris.Wrapf(err, "forest: sample %d", i)
		}
		out[i] = v
	}
	return out, nil
}

func bootstrap(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// importances sums each feature's squared-error reduction over all trees and
// normalizes the totals to 1.
func importances(gains [][]float64, features int) []float64 {
	total := make([]float64, features)
	sum := 0.0
	for _, g := range gains {
		for j, v := range g {
			total[j] += v
			sum += v
		}
	}
	if sum == 0 {
		return total
	}
	for j := range total {
		total[j] /= sum
	}
	return total
}
