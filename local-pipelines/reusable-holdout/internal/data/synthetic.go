package data

import (
	"fmt"
	"math/rand"

	"github.com/kiteco/holdout/kite-golib/errors"
	"gonum.org/v1/gonum/mat"
)

// SyntheticOptions describes a generated dataset
type SyntheticOptions struct {
	NumTrainTotal int `yaml:"n_train_total"`
	NumHoldout    int `yaml:"n_holdout"`
	NumTest       int `yaml:"n_test"`
	NumFeatures   int `yaml:"n_features"`
	// NumInformative is the number of leading features whose mean depends on the class
	NumInformative int `yaml:"n_informative"`
	// Signal is the class-conditional mean shift of informative features
	Signal float64 `yaml:"signal"`
}

// DefaultSyntheticOptions has no signal at all, so every apparent improvement is overfitting
var DefaultSyntheticOptions = SyntheticOptions{
	NumTrainTotal: 1000,
	NumHoldout:    1000,
	NumTest:       1000,
	NumFeatures:   50,
}

// Validate checks the sizes
func (o SyntheticOptions) Validate() error {
	if o.NumTrainTotal <= 0 || o.NumHoldout <= 0 || o.NumTest <= 0 {
		return errors.Errorf("split sizes must be positive, got train %d holdout %d test %d",
			o.NumTrainTotal, o.NumHoldout, o.NumTest)
	}
	if o.NumFeatures < 2 {
		return errors.Errorf("need at least 2 features, got %d", o.NumFeatures)
	}
	if o.NumInformative < 0 || o.NumInformative > o.NumFeatures {
		return errors.Errorf("informative features must be in [0, %d], got %d", o.NumFeatures, o.NumInformative)
	}
	return nil
}

// Synthetic generates standard normal features with balanced labels
type Synthetic struct {
	Opts SyntheticOptions
}

// Provision implements Provisioner
func (s Synthetic) Provision(rng *rand.Rand) (*Bundle, error) {
	if err := s.Opts.Validate(); err != nil {
		return nil, err
	}
	b := &Bundle{
		TrainTotal: s.generate(rng, s.Opts.NumTrainTotal),
		Holdout:    s.generate(rng, s.Opts.NumHoldout),
		Test:       s.generate(rng, s.Opts.NumTest),
		Target:     "y",
		Baseline:   "0",
		Features:   make([]string, s.Opts.NumFeatures),
	}
	for j := range b.Features {
		b.Features[j] = fmt.Sprintf("x%03d", j+1)
	}
	return b, nil
}

func (s Synthetic) generate(rng *rand.Rand, n int) Split {
	split := Split{
		X: mat.NewDense(n, s.Opts.NumFeatures, nil),
		Y: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		y := rng.Float64() < 0.5
		split.Y[i] = y
		for j := 0; j < s.Opts.NumFeatures; j++ {
			v := rng.NormFloat64()
			if y && j < s.Opts.NumInformative {
				v += s.Opts.Signal
			}
			split.X.Set(i, j, v)
		}
	}
	return split
}
