package forest

import (
	"sort"

	"github.com/rotisserie/eris"
)

const leaf = -1

// Node is a split when Left >= 0, a leaf carrying Value otherwise.
// Samples with x[Feature] <= Threshold go left.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t *Tree) predict(x []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, eris.New("empty tree")
	}
	i := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[i]
		if n.Left == leaf {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(x) {
			return 0, eris.Errorf("node %d splits on feature %d of %d", i, n.Feature, len(x))
		}
		next := n.Right
		if x[n.Feature] <= n.Threshold {
			next = n.Left
		}
		if next <= i || next >= len(t.Nodes) {
			return 0, eris.Errorf("node %d points to invalid child %d", i, next)
		}
		i = next
	}
	return 0, eris.New("tree has a cycle")
}

// validate checks that every split references a known feature and children
// stored after it, and that leaves carry no children.
func (t *Tree) validate(features int) error {
	if len(t.Nodes) == 0 {
		return eris.New("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Left == leaf {
			if n.Right != leaf {
				return eris.Errorf("leaf %d has a right child %d", i, n.Right)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return eris.Errorf("node %d splits on feature %d of %d", i, n.Feature, features)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return eris.Errorf("node %d points to invalid child %d", i, child)
			}
		}
	}
	return nil
}

type builder struct {
	X        [][]float64
	y        []float64
	features int
	params   Params
	nodes    []Node
	gain     []float64
}

func newBuilder(X [][]float64, y []float64, features int, p Params) *builder {
	return &builder{
		X:        X,
		y:        y,
		features: features,
		params:   p,
		gain:     make([]float64, features),
	}
}

func (b *builder) grow(samples []int) Tree {
	b.nodes = b.nodes[:0]
	b.split(samples, 0)
	return Tree{Nodes: b.nodes}
}

type split struct {
	feature   int
	threshold float64
	pos       int // samples[:pos] go left once sorted by feature
	gain      float64
}

func (b *builder) split(samples []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Left: leaf, Right: leaf, Value: b.mean(samples)})

	if depth >= b.params.MaxDepth || len(samples) < b.params.MinSamplesSplit {
		return id
	}
	best, ok := b.bestSplit(samples)
	if !ok {
		return id
	}

	sortByFeature(b.X, samples, best.feature)
	left := append([]int(nil), samples[:best.pos]...)
	right := append([]int(nil), samples[best.pos:]...)
	b.gain[best.feature] += best.gain

	l := b.split(left, depth+1)
	r := b.split(right, depth+1)
	b.nodes[id] = Node{Feature: best.feature, Threshold: best.threshold, Left: l, Right: r}
	return id
}

// bestSplit scans every feature for the threshold with the largest
// reduction in squared error that leaves MinSamplesLeaf on both sides.
func (b *builder) bestSplit(samples []int) (split, bool) {
	n := len(samples)
	minLeaf := b.params.MinSamplesLeaf

	var sum, sumSq float64
	for _, s := range samples {
		sum += b.y[s]
		sumSq += b.y[s] * b.y[s]
	}
	parentSSE := sumSq - sum*sum/float64(n)
	if parentSSE <= 1e-12 {
		return split{}, false
	}

	var best split
	found := false
	order := make([]int, n)
	for f := 0; f < b.features; f++ {
		copy(order, samples)
		sortByFeature(b.X, order, f)

		var leftSum, leftSq float64
		for i := 0; i < n-1; i++ {
			yv := b.y[order[i]]
			leftSum += yv
			leftSq += yv * yv

			nl := i + 1
			nr := n - nl
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			cur, next := b.X[order[i]][f], b.X[order[i+1]][f]
			if cur == next {
				continue
			}
			rightSum := sum - leftSum
			rightSq := sumSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			gain := parentSSE - sse
			if !found || gain > best.gain {
				best = split{feature: f, threshold: (cur + next) / 2, pos: nl, gain: gain}
				found = true
			}
		}
	}
	return best, found && best.gain > 0
}

func (b *builder) mean(samples []int) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += b.y[s]
	}
	return sum / float64(len(samples))
}

func sortByFeature(X [][]float64, samples []int, f int) {
	sort.SliceStable(samples, func(i, j int) bool {
		return X[samples[i]][f] < X[samples[j]][f]
	})
}
