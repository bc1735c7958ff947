package selection

import (
	"math/rand"

	"github.com/kiteco/holdout/kite-golib/collections"
	"github.com/kiteco/holdout/kite-golib/decisiontree"
	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/kiteco/holdout/kite-golib/logistic"
	"github.com/kiteco/holdout/kite-golib/roc"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/data"
	"gonum.org/v1/gonum/mat"
)

// Options configures the SubsetFitter
type Options struct {
	// CVFolds is the number of cross-validation folds for the cross-validated training score
	CVFolds int `yaml:"cv_folds"`
	// MaxCandidates caps the number of significant features added beyond the mandatory set,
	// zero means no cap
	MaxCandidates int                 `yaml:"max_candidates"`
	Logistic      logistic.Options     `yaml:"-"`
	Tree          decisiontree.Options `yaml:"tree"`
}

// DefaultOptions are the fitter defaults
var DefaultOptions = Options{
	CVFolds:  5,
	Logistic: logistic.DefaultOptions,
	Tree:     decisiontree.DefaultOptions,
}

// Scores are the four AUCs of a fitted candidate
type Scores struct {
	Train float64
	// CVTrain is the pooled out-of-fold AUC on the training slice
	CVTrain float64
	// Holdout and Test are bookkeeping, they never influence which subsets are generated
	Holdout float64
	Test    float64
}

// Candidate is one fitted feature subset
type Candidate struct {
	Features FeatureSet
	// PValues maps each feature of the subset to its p-value, most significant first
	PValues collections.OrderedMap
	Scores  Scores
}

// Request asks for the candidates of one round
type Request struct {
	// Train is the training slice significance and models are computed on
	Train      data.Split
	Classifier string
	// Mandatory features are part of every candidate
	Mandatory FeatureSet
	Policy    Policy
}

// SubsetFitter ranks features by significance and fits one model per nested feature subset.
// It scores every model on the bundle's holdout and test splits as well.
type SubsetFitter struct {
	bundle *data.Bundle
	index  map[string]int
	rng    *rand.Rand
	opts   Options
}

// NewSubsetFitter creates a fitter over bundle; cross-validation folds are drawn from rng
func NewSubsetFitter(bundle *data.Bundle, rng *rand.Rand, opts Options) *SubsetFitter {
	return &SubsetFitter{
		bundle: bundle,
		index:  bundle.FeatureIndex(),
		rng:    rng,
		opts:   opts,
	}
}

// Fit returns one candidate per nested subset, in generation order (increasing size)
func (f *SubsetFitter) Fit(req Request) ([]Candidate, error) {
	rows, width := req.Train.Len(), req.Train.Width()
	if width != f.bundle.FeatureCount() {
		return nil, errors.Errorf("training slice has %d columns, expected %d", width, f.bundle.FeatureCount())
	}
	if rows < width {
		return nil, errors.Errorf("%d training rows is fewer than %d features", rows, width)
	}
	classifier, err := LookupClassifier(req.Classifier, f.opts)
	if err != nil {
		return nil, err
	}

	columns := make([][]float64, width)
	for j := range columns {
		columns[j] = req.Train.Column(j)
	}
	ranking, err := rankFeatures(columns, req.Train.Y)
	if err != nil {
		return nil, errors.Wrapf(err, "ranking features")
	}

	subsets, err := f.subsets(ranking, req)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, cols := range subsets {
		if len(cols) == 0 {
			return nil, errors.Errorf("empty feature subset")
		}
		cand := Candidate{
			Features: make(FeatureSet, len(cols)),
			PValues:  collections.NewOrderedMap(len(cols)),
		}
		for _, c := range cols {
			cand.Features[f.bundle.Features[c]] = struct{}{}
		}
		for _, r := range ranking {
			if name := f.bundle.Features[r.column]; cand.Features.Contains(name) {
				cand.PValues.Set(name, r.pvalue)
			}
		}
		cand.Scores, err = f.score(classifier, req.Train, cols)
		if err != nil {
			return nil, errors.Wrapf(err, "scoring %s", cand.Features)
		}
		out = append(out, cand)
	}
	return out, nil
}

// subsets returns the column lists of the nested candidates, each in rank order
func (f *SubsetFitter) subsets(ranking []ranked, req Request) ([][]int, error) {
	switch req.Policy.Kind {
	case TopTwoOverride:
		if len(ranking) < 2 {
			return nil, errors.Errorf("top-two needs at least 2 features, have %d", len(ranking))
		}
		return [][]int{{ranking[0].column, ranking[1].column}}, nil
	case Cutoff:
	default:
		return nil, errors.Errorf("unknown policy %v", req.Policy)
	}

	var mandatory, extra []int
	for _, r := range ranking {
		name := f.bundle.Features[r.column]
		switch {
		case req.Mandatory.Contains(name):
			mandatory = append(mandatory, r.column)
		case r.pvalue < req.Policy.Level:
			extra = append(extra, r.column)
		}
	}
	if len(mandatory) != req.Mandatory.Len() {
		return nil, errors.Errorf("mandatory features %s are not all known", req.Mandatory)
	}
	if f.opts.MaxCandidates > 0 && len(extra) > f.opts.MaxCandidates {
		extra = extra[:f.opts.MaxCandidates]
	}

	start := 1
	if len(mandatory) > 0 {
		start = 0
	}
	var out [][]int
	for k := start; k <= len(extra); k++ {
		cols := make([]int, 0, len(mandatory)+k)
		cols = append(cols, mandatory...)
		cols = append(cols, extra[:k]...)
		out = append(out, cols)
	}
	return out, nil
}

func (f *SubsetFitter) score(classifier Classifier, train data.Split, cols []int) (Scores, error) {
	x := train.Columns(cols)
	model, err := classifier.Train(x, train.Y)
	if err != nil {
		return Scores{}, errors.Wrapf(err, "training")
	}

	var s Scores
	if s.Train, err = roc.AUC(model.Score(x), train.Y); err != nil {
		return Scores{}, errors.Wrapf(err, "train auc")
	}
	if s.CVTrain, err = f.crossValidate(classifier, x, train.Y); err != nil {
		return Scores{}, errors.Wrapf(err, "cross-validated auc")
	}
	if s.Holdout, err = roc.AUC(model.Score(f.bundle.Holdout.Columns(cols)), f.bundle.Holdout.Y); err != nil {
		return Scores{}, errors.Wrapf(err, "holdout auc")
	}
	if s.Test, err = roc.AUC(model.Score(f.bundle.Test.Columns(cols)), f.bundle.Test.Y); err != nil {
		return Scores{}, errors.Wrapf(err, "test auc")
	}
	return s, nil
}

// crossValidate pools out-of-fold scores from stratified folds and returns their AUC
func (f *SubsetFitter) crossValidate(classifier Classifier, x *mat.Dense, y []bool) (float64, error) {
	var pos, neg []int
	for i, v := range y {
		if v {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	k := f.opts.CVFolds
	if len(pos) < k {
		k = len(pos)
	}
	if len(neg) < k {
		k = len(neg)
	}
	if k < 2 {
		return 0, errors.Errorf("need at least 2 samples per class for %d folds, have %d positive and %d negative",
			f.opts.CVFolds, len(pos), len(neg))
	}

	fold := make([]int, len(y))
	for _, group := range [][]int{pos, neg} {
		for i, p := range f.rng.Perm(len(group)) {
			fold[group[p]] = i % k
		}
	}

	_, width := x.Dims()
	oof := make([]float64, len(y))
	for held := 0; held < k; held++ {
		var trainIdx, testIdx []int
		for i, fi := range fold {
			if fi == held {
				testIdx = append(testIdx, i)
			} else {
				trainIdx = append(trainIdx, i)
			}
		}
		model, err := classifier.Train(pickRows(x, trainIdx, width), pickLabels(y, trainIdx))
		if err != nil {
			return 0, errors.Wrapf(err, "fold %d", held)
		}
		for i, score := range model.Score(pickRows(x, testIdx, width)) {
			oof[testIdx[i]] = score
		}
	}
	return roc.AUC(oof, y)
}

func pickRows(x *mat.Dense, idx []int, width int) *mat.Dense {
	out := mat.NewDense(len(idx), width, nil)
	for i, r := range idx {
		out.SetRow(i, x.RawRowView(r))
	}
	return out
}

func pickLabels(y []bool, idx []int) []bool {
	out := make([]bool, len(idx))
	for i, r := range idx {
		out[i] = y[r]
	}
	return out
}
