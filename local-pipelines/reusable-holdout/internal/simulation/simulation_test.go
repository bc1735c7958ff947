package simulation

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/kiteco/holdout/kite-golib/kitelog"
	"github.com/kiteco/holdout/kite-golib/thresholdout"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/adaptive"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/data"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/report"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() Options {
	opts := DefaultOptions
	opts.NumAdaptRounds = 2
	opts.NumTrain = 60
	opts.SignifLevel = 0.2
	opts.CVFolds = 3
	opts.SanityChecks = true
	opts.Data = data.SyntheticOptions{
		NumTrainTotal:  150,
		NumHoldout:     150,
		NumTest:        150,
		NumFeatures:    8,
		NumInformative: 2,
		Signal:         0.8,
	}
	return opts
}

func TestRunRows(t *testing.T) {
	opts := smallOptions()
	opts.Replicates = 2

	rows, err := Run(data.Synthetic{Opts: opts.Data}, selection.Logistic, opts, nil, nil)
	require.NoError(t, err)
	// two replicates of three rounds with five scores each
	require.Len(t, rows, 2*3*len(report.ScoreNames))

	for i, r := range rows {
		assert.Equal(t, i/15, r.Replicate)
		assert.Equal(t, (i/5)%3, r.Round)
		assert.Equal(t, report.ScoreNames[i%5], r.ScoreName)
		assert.Equal(t, selection.Logistic, r.Method)
		if r.Round == 0 {
			assert.Equal(t, 2, r.FeatureCount)
			assert.Equal(t, 0, r.HoldoutAccesses)
			assert.Equal(t, 0, r.BudgetUtilized)
		} else {
			assert.True(t, r.HoldoutAccesses >= 2)
		}
	}
}

func TestRunReproducible(t *testing.T) {
	opts := smallOptions()
	opts.Replicates = 2
	p := data.Synthetic{Opts: opts.Data}

	a, err := Run(p, selection.Tree, opts, nil, nil)
	require.NoError(t, err)
	b, err := Run(p, selection.Tree, opts, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// each replicate has its own seed
	first := a[:len(a)/2]
	second := a[len(a)/2:]
	same := true
	for i := range first {
		if first[i].ScoreValue != second[i].ScoreValue {
			same = false
		}
	}
	assert.False(t, same)
}

func TestRunWorkers(t *testing.T) {
	opts := smallOptions()
	opts.Replicates = 4
	p := data.Synthetic{Opts: opts.Data}

	serial, err := Run(p, selection.Logistic, opts, nil, nil)
	require.NoError(t, err)

	opts.Workers = 3
	parallel, err := Run(p, selection.Logistic, opts, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestRunSharedBundle(t *testing.T) {
	opts := smallOptions()
	bundle, err := data.Synthetic{Opts: opts.Data}.Provision(rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	rows, err := Run(nil, selection.Logistic, opts, bundle, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 3*len(report.ScoreNames))
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	opts := smallOptions()
	opts.Replicates = 2

	_, err := Run(data.Synthetic{Opts: opts.Data}, selection.Logistic, opts, nil, kitelog.New(&buf, "test"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[run=test] ")
	assert.Contains(t, buf.String(), "logistic replicate 1")
	assert.Contains(t, buf.String(), "total")
}

func TestRunErrors(t *testing.T) {
	opts := smallOptions()
	p := data.Synthetic{Opts: opts.Data}

	_, err := Run(p, "forest", opts, nil, nil)
	assert.Equal(t, adaptive.ConfigurationError, errors.KindOf(err))

	_, err = Run(nil, selection.Logistic, opts, nil, nil)
	assert.Equal(t, adaptive.ConfigurationError, errors.KindOf(err))

	bad := opts
	bad.NumTrain = 1000
	_, err = Run(p, selection.Logistic, bad, nil, nil)
	assert.Equal(t, adaptive.ConfigurationError, errors.KindOf(err))

	broken := opts
	broken.Data.NumFeatures = 1
	_, err = Run(data.Synthetic{Opts: broken.Data}, selection.Logistic, opts, nil, nil)
	assert.Equal(t, adaptive.CollaboratorFailure, errors.KindOf(err))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions.Validate())

	opts := DefaultOptions
	opts.NumAdaptRounds = -1
	opts.SignifLevel = 1
	opts.Sigma = 0
	opts.CVFolds = 1
	opts.Replicates = 0
	opts.Workers = 0
	err := opts.Validate()
	require.Error(t, err)
	assert.Equal(t, adaptive.ConfigurationError, errors.KindOf(err))
	for _, name := range []string{"n_adapt_rounds", "signif_level", "sigma", "cv_folds", "replicates", "workers"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestLoadOptions(t *testing.T) {
	dir, err := ioutil.TempDir("", "holdout-options")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "options.yaml")
	contents := `
n_adapt_rounds: 4
signif_level: 0.01
thresholdout_noise_distribution: heavy-tailed
thresholdout_budget: 12
n_features: 20
verbose: true
`
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0644))

	opts, err := LoadOptions(path, DefaultOptions)
	require.NoError(t, err)
	assert.Equal(t, 4, opts.NumAdaptRounds)
	assert.Equal(t, 0.01, opts.SignifLevel)
	assert.Equal(t, thresholdout.HeavyTailed, opts.Noise)
	assert.Equal(t, 12, opts.Oracle().Budget)
	assert.Equal(t, 20, opts.Data.NumFeatures)
	assert.True(t, opts.Verbose)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultOptions.NumTrain, opts.NumTrain)
	assert.Equal(t, DefaultOptions.Data.NumHoldout, opts.Data.NumHoldout)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, ioutil.WriteFile(empty, nil, 0644))
	opts, err = LoadOptions(empty, DefaultOptions)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions, opts)

	require.NoError(t, ioutil.WriteFile(path, []byte("thresholdout_noise_distribution: cauchy\n"), 0644))
	_, err = LoadOptions(path, DefaultOptions)
	assert.Error(t, err)

	_, err = LoadOptions(filepath.Join(dir, "missing.yaml"), DefaultOptions)
	assert.Error(t, err)
}
