package decisiontree

import (
	"math"
	"sort"

	"github.com/kiteco/holdout/kite-golib/errors"
)

// Options controls tree growth
type Options struct {
	// MaxDepth bounds the number of splitting decisions on any path
	MaxDepth int
	// MinLeaf is the minimum number of samples on each side of a split
	MinLeaf int
}

// DefaultOptions grows shallow trees
var DefaultOptions = Options{
	MaxDepth: 3,
	MinLeaf:  5,
}

// minGain is the smallest reduction in squared error that justifies a split
const minGain = 1e-12

// Fit grows a regression tree on x (one row per sample) against targets y by greedily
// minimizing squared error. With 0/1 targets the leaf outputs are class frequencies.
func Fit(x [][]float64, y []float64, opts Options) (*DecisionTree, error) {
	if len(x) == 0 {
		return nil, errors.Errorf("cannot fit a tree on zero samples")
	}
	if len(x) != len(y) {
		return nil, errors.Errorf("got %d rows but %d targets", len(x), len(y))
	}
	if opts.MaxDepth < 0 {
		return nil, errors.Errorf("max depth must be non-negative, got %d", opts.MaxDepth)
	}
	if opts.MinLeaf < 1 {
		opts.MinLeaf = 1
	}
	size := len(x[0])
	for i, row := range x {
		if len(row) != size {
			return nil, errors.Errorf("row %d has %d features, expected %d", i, len(row), size)
		}
	}

	b := builder{
		x:    x,
		y:    y,
		opts: opts,
		tree: &DecisionTree{FeatureSize: size},
	}
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	b.grow(idx, 0)
	return b.tree, nil
}

type builder struct {
	x    [][]float64
	y    []float64
	opts Options
	tree *DecisionTree
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

// grow adds the subtree for the samples in idx and returns its index and whether it is a leaf
func (b *builder) grow(idx []int, depth int) (int, bool) {
	best, ok := b.bestSplit(idx)
	if depth >= b.opts.MaxDepth || !ok {
		b.tree.Outputs = append(b.tree.Outputs, b.mean(idx))
		return len(b.tree.Outputs) - 1, true
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][best.feature] < best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	pos := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{FeatureIndex: best.feature, Threshold: best.threshold})
	if depth+1 > b.tree.Depth {
		b.tree.Depth = depth + 1
	}

	l, lleaf := b.grow(left, depth+1)
	r, rleaf := b.grow(right, depth+1)
	node := &b.tree.Nodes[pos]
	node.LeftChild, node.LeftIsLeaf = l, lleaf
	node.RightChild, node.RightIsLeaf = r, rleaf
	return pos, false
}

func (b *builder) bestSplit(idx []int) (split, bool) {
	n := len(idx)
	if n < 2*b.opts.MinLeaf {
		return split{}, false
	}
	var total float64
	for _, i := range idx {
		total += b.y[i]
	}
	base := total * total / float64(n)

	best := split{gain: minGain}
	var found bool
	sorted := make([]int, n)
	for f := 0; f < b.tree.FeatureSize; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})

		var leftSum float64
		for k := 0; k < n-1; k++ {
			leftSum += b.y[sorted[k]]
			nl := k + 1
			nr := n - nl
			if nl < b.opts.MinLeaf || nr < b.opts.MinLeaf {
				continue
			}
			lo, hi := b.x[sorted[k]][f], b.x[sorted[k+1]][f]
			if lo == hi {
				continue
			}
			rightSum := total - leftSum
			gain := leftSum*leftSum/float64(nl) + rightSum*rightSum/float64(nr) - base
			if gain > best.gain {
				best = split{feature: f, threshold: lo + (hi-lo)/2, gain: gain}
				found = true
			}
		}
	}
	if math.IsNaN(best.threshold) {
		return split{}, false
	}
	return best, found
}

func (b *builder) mean(idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += b.y[i]
	}
	return sum / float64(len(idx))
}
