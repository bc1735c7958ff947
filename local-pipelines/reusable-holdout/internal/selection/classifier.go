package selection

import (
	"sort"

	"github.com/kiteco/holdout/kite-golib/decisiontree"
	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/kiteco/holdout/kite-golib/logistic"
	"gonum.org/v1/gonum/mat"
)

const (
	// Logistic is ridge-stabilized logistic regression
	Logistic = "logistic"
	// Tree is a depth-limited regression tree on 0/1 targets
	Tree = "tree"
)

// Model scores rows of a feature matrix, larger meaning more likely positive
type Model interface {
	Score(x mat.Matrix) []float64
}

// Classifier trains a Model
type Classifier interface {
	Train(x mat.Matrix, y []bool) (Model, error)
}

// Classifiers returns the known classifier names
func Classifiers() []string {
	names := []string{Logistic, Tree}
	sort.Strings(names)
	return names
}

// LookupClassifier returns the classifier registered under name
func LookupClassifier(name string, opts Options) (Classifier, error) {
	switch name {
	case Logistic:
		return logisticClassifier{opts: opts.Logistic}, nil
	case Tree:
		return treeClassifier{opts: opts.Tree}, nil
	default:
		return nil, errors.Errorf("unknown classifier %q (known: %v)", name, Classifiers())
	}
}

type logisticClassifier struct {
	opts logistic.Options
}

func (c logisticClassifier) Train(x mat.Matrix, y []bool) (Model, error) {
	m, err := logistic.Fit(x, y, c.opts)
	if err != nil {
		return nil, err
	}
	return logisticModel{m}, nil
}

type logisticModel struct {
	*logistic.Model
}

func (m logisticModel) Score(x mat.Matrix) []float64 {
	return m.Predict(x)
}

type treeClassifier struct {
	opts decisiontree.Options
}

func (c treeClassifier) Train(x mat.Matrix, y []bool) (Model, error) {
	targets := make([]float64, len(y))
	for i, v := range y {
		if v {
			targets[i] = 1
		}
	}
	t, err := decisiontree.Fit(rowsOf(x), targets, c.opts)
	if err != nil {
		return nil, err
	}
	return treeModel{t}, nil
}

type treeModel struct {
	*decisiontree.DecisionTree
}

func (m treeModel) Score(x mat.Matrix) []float64 {
	return m.EvaluateRows(x)
}

func rowsOf(x mat.Matrix) [][]float64 {
	r, c := x.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			rows[i][j] = x.At(i, j)
		}
	}
	return rows
}
