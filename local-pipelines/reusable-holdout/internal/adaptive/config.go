package adaptive

import (
	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/kiteco/holdout/kite-golib/thresholdout"
)

// Config holds the parameters of one adaptive run
type Config struct {
	// NumAdaptRounds is the number of adaptive rounds after round 0
	NumAdaptRounds int
	// NumTrain is the size of the round 0 training slice
	NumTrain int
	// SignifLevel is the p-value cutoff used from round 1 onwards
	SignifLevel float64
	Oracle      thresholdout.Config
	Classifier  string
	// Verbose logs every round's candidates and selection
	Verbose bool
	// SanityChecks re-verifies the loop's invariants after every round
	SanityChecks bool
}

// Validate checks cfg against a train-total split of trainTotal rows. All problems are
// reported together as a single ConfigurationError.
func (c Config) Validate(trainTotal int) error {
	var errs errors.Errors
	if c.NumAdaptRounds < 0 {
		errs = errors.Append(errs, errors.Errorf("n_adapt_rounds must be >= 0, got %d", c.NumAdaptRounds))
	}
	if c.NumTrain <= 0 || c.NumTrain > trainTotal {
		errs = errors.Append(errs, errors.Errorf("n_train must be in [1, %d], got %d", trainTotal, c.NumTrain))
	}
	if !(c.SignifLevel > 0 && c.SignifLevel < 1) {
		errs = errors.Append(errs, errors.Errorf("signif_level must be in (0, 1), got %v", c.SignifLevel))
	}
	errs = errors.Append(errs, c.Oracle.Validate())
	if c.Classifier == "" {
		errs = errors.Append(errs, errors.Errorf("classifier must be set"))
	}
	if errs != nil {
		return configErrorf("%v", errs)
	}
	return nil
}

// TrainSize is the number of permuted train-total rows used in round r. It grows by
// (trainTotal-numTrain)/rounds per round and is exactly trainTotal in the final round.
func TrainSize(r, rounds, numTrain, trainTotal int) int {
	if rounds == 0 {
		return numTrain
	}
	return numTrain + r*(trainTotal-numTrain)/rounds
}
