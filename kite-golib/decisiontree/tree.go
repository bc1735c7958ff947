package decisiontree

import (
	"gonum.org/v1/gonum/mat"
)

// Node is the split "x[FeatureIndex] < Threshold": rows that pass go left, the rest go right.
// A child index points into Nodes, or into Outputs when the child is a leaf.
type Node struct {
	FeatureIndex int
	Threshold    float64
	LeftChild    int
	LeftIsLeaf   bool
	RightChild   int
	RightIsLeaf  bool
}

// DecisionTree maps feature vectors to the mean target of the leaf they fall in. Nodes[0] is
// the root; a tree of depth zero has no nodes and a single output.
type DecisionTree struct {
	Nodes   []Node
	Outputs []float64
	// FeatureSize is the length of the feature vectors the tree accepts
	FeatureSize int
	// Depth is the largest number of splits on a root-to-leaf path
	Depth int
}

// Bin returns the index into Outputs of the leaf x falls in
func (t *DecisionTree) Bin(x []float64) int {
	if len(x) != t.FeatureSize {
		panic("feature vector had incorrect length")
	}
	if len(t.Nodes) == 0 {
		if len(t.Outputs) != 1 {
			panic("tree not initialized")
		}
		return 0
	}

	node := t.Nodes[0]
	for step := 0; step < t.Depth; step++ {
		child, leaf := node.RightChild, node.RightIsLeaf
		if x[node.FeatureIndex] < node.Threshold {
			child, leaf = node.LeftChild, node.LeftIsLeaf
		}
		if leaf {
			return child
		}
		node = t.Nodes[child]
	}
	panic("tree deeper than its recorded depth")
}

// Evaluate returns the output of the leaf x falls in
func (t *DecisionTree) Evaluate(x []float64) float64 {
	return t.Outputs[t.Bin(x)]
}

// EvaluateRows evaluates every row of x
func (t *DecisionTree) EvaluateRows(x mat.Matrix) []float64 {
	r, c := x.Dims()
	out := make([]float64, r)
	row := make([]float64, c)
	for i := range out {
		mat.Row(row, i, x)
		out[i] = t.Evaluate(row)
	}
	return out
}

// Leaves is the number of leaves of the tree
func (t *DecisionTree) Leaves() int {
	return len(t.Outputs)
}
