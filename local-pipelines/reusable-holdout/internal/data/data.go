package data

import (
	"math/rand"

	"github.com/kiteco/holdout/kite-golib/errors"
	"gonum.org/v1/gonum/mat"
)

// Split is a feature matrix (one row per sample) with its binary labels
type Split struct {
	X *mat.Dense
	Y []bool
}

// Len returns the number of samples
func (s Split) Len() int {
	return len(s.Y)
}

// Width returns the number of feature columns
func (s Split) Width() int {
	if s.X == nil {
		return 0
	}
	_, c := s.X.Dims()
	return c
}

// Rows copies the samples at idx, in that order, into a new Split
func (s Split) Rows(idx []int) Split {
	out := Split{
		X: mat.NewDense(len(idx), s.Width(), nil),
		Y: make([]bool, len(idx)),
	}
	for i, r := range idx {
		out.X.SetRow(i, s.X.RawRowView(r))
		out.Y[i] = s.Y[r]
	}
	return out
}

// Columns copies the given feature columns, in that order, into a new matrix
func (s Split) Columns(cols []int) *mat.Dense {
	out := mat.NewDense(s.Len(), len(cols), nil)
	for j, c := range cols {
		for i := 0; i < s.Len(); i++ {
			out.Set(i, j, s.X.At(i, c))
		}
	}
	return out
}

// Column returns a copy of feature column j
func (s Split) Column(j int) []float64 {
	return mat.Col(nil, j, s.X)
}

// Bundle is the fixed train/holdout/test partition of one dataset. It is created once by a
// Provisioner and never modified afterwards.
type Bundle struct {
	// TrainTotal holds every row the adaptive rounds may train on
	TrainTotal Split
	Holdout    Split
	Test       Split
	// Target names the label column
	Target string
	// Baseline is the label value of the negative class
	Baseline string
	// Features names the feature columns, in column order
	Features []string
}

// FeatureCount returns the number of features
func (b *Bundle) FeatureCount() int {
	return len(b.Features)
}

// FeatureIndex maps each feature name to its column
func (b *Bundle) FeatureIndex() map[string]int {
	idx := make(map[string]int, len(b.Features))
	for i, f := range b.Features {
		idx[f] = i
	}
	return idx
}

// Validate checks that the splits agree on width and labels
func (b *Bundle) Validate() error {
	if b.FeatureCount() == 0 {
		return errors.Errorf("bundle has no features")
	}
	seen := make(map[string]bool, len(b.Features))
	for _, f := range b.Features {
		if seen[f] {
			return errors.Errorf("duplicate feature %q", f)
		}
		seen[f] = true
	}
	for _, s := range []struct {
		name  string
		split Split
	}{
		{"train", b.TrainTotal},
		{"holdout", b.Holdout},
		{"test", b.Test},
	} {
		if s.split.Len() == 0 || s.split.X == nil {
			return errors.Errorf("%s split is empty", s.name)
		}
		if r, _ := s.split.X.Dims(); r != s.split.Len() {
			return errors.Errorf("%s split has %d rows but %d labels", s.name, r, s.split.Len())
		}
		if s.split.Width() != b.FeatureCount() {
			return errors.Errorf("%s split has %d columns, expected %d", s.name, s.split.Width(), b.FeatureCount())
		}
	}
	return nil
}

// Provisioner creates a Bundle, drawing any randomness from rng
type Provisioner interface {
	Provision(rng *rand.Rand) (*Bundle, error)
}
