package simulation

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/kiteco/holdout/kite-golib/kitelog"
	"github.com/kiteco/holdout/kite-golib/thresholdout"
	"github.com/kiteco/holdout/kite-golib/workerpool"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/adaptive"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/data"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/report"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/selection"
)

// Run simulates opts.Replicates adaptive runs with classifier and returns their flattened
// rows in replicate order. Replicate i draws everything from one stream seeded with
// opts.Seed+i, so the rows do not depend on opts.Workers. When bundle is nil every replicate
// provisions its own dataset from p, otherwise all replicates share bundle.
func Run(p data.Provisioner, classifier string, opts Options, bundle *data.Bundle, logger *kitelog.Logger) ([]report.Row, error) {
	if logger == nil {
		logger = kitelog.Discard
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if p == nil && bundle == nil {
		return nil, errors.WithKind(errors.Errorf("need a provisioner or a dataset bundle"), adaptive.ConfigurationError)
	}
	if _, err := selection.LookupClassifier(classifier, opts.Fitter()); err != nil {
		return nil, errors.WithKind(err, adaptive.ConfigurationError)
	}

	tracker := logger.WithDurations()
	var m sync.Mutex
	results := make([]*adaptive.Result, opts.Replicates)
	errs := make([]error, opts.Replicates)

	var jobs []workerpool.Job
	for rep := 0; rep < opts.Replicates; rep++ {
		rep := rep
		jobs = append(jobs, func() error {
			start := time.Now()
			res, err := replicate(p, classifier, opts, bundle, rep, logger)
			if err != nil {
				errs[rep] = errors.Wrapf(err, "replicate %d", rep)
				return errs[rep]
			}
			results[rep] = res

			m.Lock()
			defer m.Unlock()
			tracker.Durations.Record(fmt.Sprintf("replicate %d", rep), time.Since(start))
			tracker.Printf("%s replicate %d: %d rounds, features %v, budget %d", classifier, rep,
				len(res.Rounds), res.Features, res.Rounds[len(res.Rounds)-1].BudgetUtilized)
			return nil
		})
	}

	pool := workerpool.New(opts.Workers)
	defer pool.Stop()
	pool.Add(jobs)
	if err := pool.Wait(); err != nil {
		// report the failure of the earliest replicate, with its kind intact
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		return nil, err
	}

	var rows []report.Row
	for rep, res := range results {
		rows = append(rows, report.Flatten(res, classifier, rep)...)
	}
	if opts.Replicates > 1 {
		tracker.Durations.Flush(tracker)
	}
	return rows, nil
}

func replicate(p data.Provisioner, classifier string, opts Options, bundle *data.Bundle, rep int, logger *kitelog.Logger) (*adaptive.Result, error) {
	rng := rand.New(rand.NewSource(opts.Seed + int64(rep)))
	if bundle == nil {
		var err error
		if bundle, err = p.Provision(rng); err != nil {
			return nil, errors.WithKind(errors.Wrapf(err, "provisioning dataset"), adaptive.CollaboratorFailure)
		}
	}

	fitter := selection.NewSubsetFitter(bundle, rng, opts.Fitter())
	oracle := thresholdout.NewMechanism(rng)
	return adaptive.New(fitter, oracle, rng, logger).Run(bundle, opts.Loop(classifier))
}
