package adaptive

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kiteco/holdout/kite-golib/kitelog"
	"github.com/kiteco/holdout/kite-golib/thresholdout"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/data"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/selection"
)

// Fitter generates the scored candidates of a round
type Fitter interface {
	Fit(req selection.Request) ([]selection.Candidate, error)
}

// Oracle answers train/holdout comparisons. Evaluate must be called with the State returned
// by the previous call: the answers depend on the order of the calls.
type Oracle interface {
	NewState(cfg thresholdout.Config) (thresholdout.State, error)
	Evaluate(trainScore, holdoutScore float64, s thresholdout.State) (float64, thresholdout.State, error)
}

// Loop runs adaptive feature selection against a reused holdout. It is strictly sequential.
type Loop struct {
	fitter Fitter
	oracle Oracle
	rng    *rand.Rand
	logger *kitelog.Logger
}

// New creates a Loop. rng draws the training-row permutation and should be the same stream
// the fitter and oracle draw from, so a seed fixes the whole run.
func New(fitter Fitter, oracle Oracle, rng *rand.Rand, logger *kitelog.Logger) *Loop {
	if logger == nil {
		logger = kitelog.Discard
	}
	return &Loop{
		fitter: fitter,
		oracle: oracle,
		rng:    rng,
		logger: logger,
	}
}

// run holds the state threaded through the rounds of one Run
type run struct {
	cfg        Config
	bundle     *data.Bundle
	perm       []int
	state      thresholdout.State
	cumulative selection.FeatureSet
	accesses   int
	records    []RoundRecord
	log        *kitelog.Logger
}

// Run executes round 0 and cfg.NumAdaptRounds adaptive rounds. Any failure aborts the run and
// no partial result is returned.
func (l *Loop) Run(bundle *data.Bundle, cfg Config) (*Result, error) {
	if bundle == nil {
		return nil, configErrorf("no dataset bundle")
	}
	if err := bundle.Validate(); err != nil {
		return nil, configErrorf("invalid dataset bundle: %v", err)
	}
	if err := cfg.Validate(bundle.TrainTotal.Len()); err != nil {
		return nil, err
	}

	state, err := l.oracle.NewState(cfg.Oracle)
	if err != nil {
		return nil, collaboratorError(err, "creating oracle state")
	}

	r := &run{
		cfg:    cfg,
		bundle: bundle,
		// drawn once, later rounds train on longer prefixes of the same order
		perm:  l.rng.Perm(bundle.TrainTotal.Len()),
		state: state,
		log:   l.logger.WithVerbose(cfg.Verbose),
	}

	start := time.Now()
	if err := l.bootstrap(r); err != nil {
		return nil, err
	}
	r.log.Durations.Record("round 0", time.Since(start))

	for round := 1; round <= cfg.NumAdaptRounds; round++ {
		start := time.Now()
		if err := l.adapt(r, round); err != nil {
			return nil, err
		}
		r.log.Durations.Record(fmt.Sprintf("round %d", round), time.Since(start))
	}
	if cfg.Verbose {
		r.log.Durations.Flush(r.log)
	}

	return &Result{
		Rounds:   r.records,
		Features: r.cumulative,
	}, nil
}

// bootstrap runs round 0: the two most significant features, no oracle query
func (l *Loop) bootstrap(r *run) error {
	size := TrainSize(0, r.cfg.NumAdaptRounds, r.cfg.NumTrain, r.bundle.TrainTotal.Len())
	cands, err := l.fitter.Fit(selection.Request{
		Train:      r.bundle.TrainTotal.Rows(r.perm[:size]),
		Classifier: r.cfg.Classifier,
		Mandatory:  selection.NewFeatureSet(),
		Policy:     selection.TopTwo(),
	})
	if err != nil {
		return collaboratorError(err, "round 0: fitting candidates")
	}
	if len(cands) != 1 {
		return invariantErrorf("round 0: expected exactly 1 candidate, got %d", len(cands))
	}

	winner := cands[0]
	r.cumulative = winner.Features.Clone()
	rec := RoundRecord{
		Round:          0,
		TrainSize:      size,
		Candidates:     1,
		Scores:         winner.Scores,
		Comparison:     winner.Scores.CVTrain,
		Features:       r.cumulative,
		BudgetUtilized: r.state.BudgetUtilized,
	}
	if r.cfg.SanityChecks {
		if err := checkCandidates(0, cands, selection.NewFeatureSet()); err != nil {
			return err
		}
	}
	r.records = append(r.records, rec)
	r.log.Verbosef("round 0: n=%d features=%s train=%.4f cv=%.4f holdout=%.4f test=%.4f",
		size, winner.Features, winner.Scores.Train, winner.Scores.CVTrain, winner.Scores.Holdout, winner.Scores.Test)
	return nil
}

// adapt runs one adaptive round
func (l *Loop) adapt(r *run, round int) error {
	size := TrainSize(round, r.cfg.NumAdaptRounds, r.cfg.NumTrain, r.bundle.TrainTotal.Len())
	mandatory := r.cumulative.Clone()
	cands, err := l.fitter.Fit(selection.Request{
		Train:      r.bundle.TrainTotal.Rows(r.perm[:size]),
		Classifier: r.cfg.Classifier,
		Mandatory:  mandatory,
		Policy:     selection.CutoffAt(r.cfg.SignifLevel),
	})
	if err != nil {
		return collaboratorError(err, "round %d: fitting candidates", round)
	}
	if len(cands) == 0 {
		return invariantErrorf("round %d: no candidates generated", round)
	}
	if r.cfg.SanityChecks {
		if err := checkCandidates(round, cands, mandatory); err != nil {
			return err
		}
	}

	// strictly in generation order, each call sees the state left by the previous one
	budgetBefore := r.state.BudgetUtilized
	comparisons := make([]float64, len(cands))
	for i, c := range cands {
		score, next, err := l.oracle.Evaluate(c.Scores.CVTrain, c.Scores.Holdout, r.state)
		if err != nil {
			return collaboratorError(err, "round %d: evaluating candidate %d", round, i)
		}
		comparisons[i] = score
		r.state = next
		r.log.Verbosef("round %d: candidate %d %s cv=%.4f holdout=%.4f thresholdout=%.4f",
			round, i, c.Features, c.Scores.CVTrain, c.Scores.Holdout, score)
	}

	best := argmax(comparisons)
	winner := cands[best]

	// the maximum of many noisy answers is biased upwards, a fresh query for the winner is not
	corrected, next, err := l.oracle.Evaluate(winner.Scores.CVTrain, winner.Scores.Holdout, r.state)
	if err != nil {
		return collaboratorError(err, "round %d: re-evaluating winner", round)
	}
	r.state = next

	previous := r.cumulative
	r.cumulative = r.cumulative.Union(winner.Features)

	accesses := len(cands) + 1
	r.accesses += accesses
	rec := RoundRecord{
		Round:                     round,
		TrainSize:                 size,
		Candidates:                len(cands),
		Scores:                    winner.Scores,
		Comparison:                corrected,
		Features:                  r.cumulative,
		HoldoutAccesses:           accesses,
		CumulativeHoldoutAccesses: r.accesses,
		BudgetUtilized:            r.state.BudgetUtilized,
	}
	if r.cfg.SanityChecks {
		if err := checkRound(r, rec, previous, budgetBefore); err != nil {
			return err
		}
	}
	r.records = append(r.records, rec)

	r.log.Verbosef("round %d: n=%d winner=%d/%d %s selected=%.4f corrected=%.4f test=%.4f features=%d budget=%d",
		round, size, best, len(cands), winner.Features, comparisons[best], corrected, winner.Scores.Test,
		r.cumulative.Len(), r.state.BudgetUtilized)
	return nil
}

// argmax returns the index of the largest value, the earliest one on ties
func argmax(vals []float64) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	return best
}
