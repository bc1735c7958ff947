package simulation

import (
	"io"
	"os"

	"github.com/kiteco/holdout/kite-golib/decisiontree"
	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/kiteco/holdout/kite-golib/logistic"
	"github.com/kiteco/holdout/kite-golib/thresholdout"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/adaptive"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/data"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/selection"
	yaml "gopkg.in/yaml.v2"
)

// Options configures a simulation. The yaml names are the keys of an options file.
type Options struct {
	NumAdaptRounds int     `yaml:"n_adapt_rounds"`
	NumTrain       int     `yaml:"n_train"`
	SignifLevel    float64 `yaml:"signif_level"`

	Threshold float64                        `yaml:"thresholdout_threshold"`
	Sigma     float64                        `yaml:"thresholdout_sigma"`
	Noise     thresholdout.NoiseDistribution `yaml:"thresholdout_noise_distribution"`
	// Budget caps the holdout reveals of a replicate, zero means unlimited
	Budget int `yaml:"thresholdout_budget"`

	CVFolds       int `yaml:"cv_folds"`
	MaxCandidates int `yaml:"max_candidates"`
	TreeMaxDepth  int `yaml:"tree_max_depth"`
	TreeMinLeaf   int `yaml:"tree_min_leaf"`

	// Seed seeds the first replicate, replicate i uses Seed+i
	Seed       int64 `yaml:"seed"`
	Replicates int   `yaml:"replicates"`
	// Workers is the number of replicates simulated concurrently
	Workers int `yaml:"workers"`

	Verbose      bool `yaml:"verbose"`
	SanityChecks bool `yaml:"sanity_checks"`

	// Data sizes the generated dataset, n_holdout and n_test also size the splits of a CSV dataset
	Data data.SyntheticOptions `yaml:",inline"`
}

// DefaultOptions are used for anything an options file or a flag does not set
var DefaultOptions = Options{
	NumAdaptRounds: 10,
	NumTrain:       100,
	SignifLevel:    0.05,
	Threshold:      0.02,
	Sigma:          0.03,
	Noise:          thresholdout.Normal,
	CVFolds:        selection.DefaultOptions.CVFolds,
	TreeMaxDepth:   decisiontree.DefaultOptions.MaxDepth,
	TreeMinLeaf:    decisiontree.DefaultOptions.MinLeaf,
	Seed:           1,
	Replicates:     1,
	Workers:        1,
	Data:           data.DefaultSyntheticOptions,
}

// LoadOptions reads a YAML options file on top of base
func LoadOptions(path string, base Options) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, errors.Wrapf(err, "opening options")
	}
	defer f.Close()

	opts := base
	// an empty file leaves base untouched
	if err := yaml.NewDecoder(f).Decode(&opts); err != nil && err != io.EOF {
		return Options{}, errors.Wrapf(err, "decoding %s", path)
	}
	return opts, nil
}

// Validate checks the options that do not depend on the dataset. Every problem is reported in
// a single ConfigurationError.
func (o Options) Validate() error {
	var errs errors.Errors
	if o.NumAdaptRounds < 0 {
		errs = errors.Append(errs, errors.Errorf("n_adapt_rounds must be >= 0, got %d", o.NumAdaptRounds))
	}
	if o.NumTrain <= 0 {
		errs = errors.Append(errs, errors.Errorf("n_train must be positive, got %d", o.NumTrain))
	}
	if !(o.SignifLevel > 0 && o.SignifLevel < 1) {
		errs = errors.Append(errs, errors.Errorf("signif_level must be in (0, 1), got %v", o.SignifLevel))
	}
	errs = errors.Append(errs, o.Oracle().Validate())
	if o.CVFolds < 2 {
		errs = errors.Append(errs, errors.Errorf("cv_folds must be >= 2, got %d", o.CVFolds))
	}
	if o.MaxCandidates < 0 {
		errs = errors.Append(errs, errors.Errorf("max_candidates must be >= 0, got %d", o.MaxCandidates))
	}
	if o.TreeMaxDepth < 0 || o.TreeMinLeaf < 1 {
		errs = errors.Append(errs, errors.Errorf("tree_max_depth must be >= 0 and tree_min_leaf >= 1, got %d and %d",
			o.TreeMaxDepth, o.TreeMinLeaf))
	}
	if o.Replicates < 1 {
		errs = errors.Append(errs, errors.Errorf("replicates must be >= 1, got %d", o.Replicates))
	}
	if o.Workers < 1 {
		errs = errors.Append(errs, errors.Errorf("workers must be >= 1, got %d", o.Workers))
	}
	if errs != nil {
		return errors.WithKind(errors.Errorf("%v", errs), adaptive.ConfigurationError)
	}
	return nil
}

// Oracle is the thresholdout configuration of the options
func (o Options) Oracle() thresholdout.Config {
	return thresholdout.Config{
		Threshold: o.Threshold,
		Sigma:     o.Sigma,
		Noise:     o.Noise,
		Budget:    o.Budget,
	}
}

// Fitter is the subset fitter configuration of the options
func (o Options) Fitter() selection.Options {
	return selection.Options{
		CVFolds:       o.CVFolds,
		MaxCandidates: o.MaxCandidates,
		Logistic:      logistic.DefaultOptions,
		Tree: decisiontree.Options{
			MaxDepth: o.TreeMaxDepth,
			MinLeaf:  o.TreeMinLeaf,
		},
	}
}

// Loop is the adaptive loop configuration of the options for classifier
func (o Options) Loop(classifier string) adaptive.Config {
	return adaptive.Config{
		NumAdaptRounds: o.NumAdaptRounds,
		NumTrain:       o.NumTrain,
		SignifLevel:    o.SignifLevel,
		Oracle:         o.Oracle(),
		Classifier:     classifier,
		Verbose:        o.Verbose,
		SanityChecks:   o.SanityChecks,
	}
}
