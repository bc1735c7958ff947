package thresholdout

import (
	"math"
	"math/rand"

	"github.com/kiteco/holdout/kite-golib/errors"
)

// ErrBudgetExhausted is returned by Evaluate once a limited budget has been spent
var ErrBudgetExhausted = errors.New("thresholdout budget exhausted")

// Config holds the parameters a State is created from
type Config struct {
	// Threshold is the base gap between train and holdout scores that reveals the holdout
	Threshold float64 `yaml:"threshold"`
	// Sigma scales every noise draw
	Sigma float64 `yaml:"sigma"`
	// Noise selects the noise family
	Noise NoiseDistribution `yaml:"noise_distribution"`
	// Budget caps the number of holdout reveals, zero means unlimited
	Budget int `yaml:"budget"`
}

// Validate checks the parameter ranges
func (c Config) Validate() error {
	if c.Threshold < 0 || math.IsNaN(c.Threshold) {
		return errors.Errorf("threshold must be >= 0, got %v", c.Threshold)
	}
	if !(c.Sigma > 0) {
		return errors.Errorf("sigma must be > 0, got %v", c.Sigma)
	}
	if c.Budget < 0 {
		return errors.Errorf("budget must be >= 0, got %d", c.Budget)
	}
	if c.Noise != Normal && c.Noise != HeavyTailed {
		return errors.Errorf("unknown noise distribution %d", c.Noise)
	}
	return nil
}

// State is the mechanism's evolving state. It is a value: Evaluate returns the next State
// and leaves its argument untouched, so callers thread it from one query to the next.
type State struct {
	Threshold float64
	Sigma     float64
	// Gamma is the current noise added to the threshold, redrawn after every reveal
	Gamma float64
	Noise NoiseDistribution
	// BudgetUtilized counts the queries that revealed the holdout score
	BudgetUtilized int
	// BudgetLimit is the largest allowed BudgetUtilized, zero means unlimited
	BudgetLimit int
}

// Exhausted reports whether a limited budget has been spent
func (s State) Exhausted() bool {
	return s.BudgetLimit > 0 && s.BudgetUtilized >= s.BudgetLimit
}

// Mechanism answers train/holdout comparisons through a noisy threshold test. All of its
// randomness is drawn from one stream, so a seeded stream makes its answers reproducible.
type Mechanism struct {
	rng *rand.Rand
}

// NewMechanism creates a mechanism drawing noise from rng
func NewMechanism(rng *rand.Rand) *Mechanism {
	return &Mechanism{rng: rng}
}

// NewState validates cfg and draws the initial threshold noise
func (m *Mechanism) NewState(cfg Config) (State, error) {
	if err := cfg.Validate(); err != nil {
		return State{}, err
	}
	return State{
		Threshold:   cfg.Threshold,
		Sigma:       cfg.Sigma,
		Gamma:       cfg.Noise.Sample(m.rng, 2*cfg.Sigma),
		Noise:       cfg.Noise,
		BudgetLimit: cfg.Budget,
	}, nil
}

// Evaluate compares a training score to a holdout score. When they differ by more than the
// noisy threshold it reveals a noised holdout score, spends one unit of budget and redraws
// gamma. Otherwise it returns the training score and the budget is unchanged.
func (m *Mechanism) Evaluate(trainScore, holdoutScore float64, s State) (float64, State, error) {
	if s.Exhausted() {
		return 0, s, errors.Wrapf(ErrBudgetExhausted, "%d of %d reveals used", s.BudgetUtilized, s.BudgetLimit)
	}
	if math.IsNaN(trainScore) || math.IsNaN(holdoutScore) {
		return 0, s, errors.Errorf("cannot compare NaN scores (train %v, holdout %v)", trainScore, holdoutScore)
	}

	eta := s.Noise.Sample(m.rng, 4*s.Sigma)
	if math.Abs(trainScore-holdoutScore) > s.Threshold+s.Gamma+eta {
		next := s
		next.BudgetUtilized++
		next.Gamma = s.Noise.Sample(m.rng, 2*s.Sigma)
		return holdoutScore + s.Noise.Sample(m.rng, s.Sigma), next, nil
	}
	return trainScore, s, nil
}
