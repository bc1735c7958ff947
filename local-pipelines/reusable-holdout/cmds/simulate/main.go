package main

import (
	"log"
	"os"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/kiteco/holdout/kite-golib/envutil"
	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/kiteco/holdout/kite-golib/kitelog"
	"github.com/kiteco/holdout/kite-golib/thresholdout"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/data"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/report"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/selection"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/simulation"
)

func fail(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// Overrides are only applied when given on the command line, so they take precedence over the
// options file
type Overrides struct {
	Rounds        *int     `arg:"--rounds" help:"number of adaptive rounds after round 0"`
	Train         *int     `arg:"--train" help:"size of the round 0 training slice"`
	Signif        *float64 `arg:"--signif" help:"p-value cutoff for candidate features"`
	Threshold     *float64 `arg:"--threshold" help:"thresholdout threshold"`
	Sigma         *float64 `arg:"--sigma" help:"thresholdout noise scale"`
	Noise         *string  `arg:"--noise" help:"thresholdout noise distribution: normal or heavy-tailed"`
	Budget        *int     `arg:"--budget" help:"maximum holdout reveals per replicate, 0 for unlimited"`
	Folds         *int     `arg:"--folds" help:"cross-validation folds"`
	MaxCandidates *int     `arg:"--max-candidates" help:"cap on significant features added per round, 0 for no cap"`
	Seed          *int64   `arg:"--seed" help:"seed of the first replicate (default $HOLDOUT_SEED)"`
	Replicates    *int     `arg:"--replicates" help:"number of replicates (default $HOLDOUT_REPLICATES)"`
	Workers       *int     `arg:"--workers" help:"number of replicates simulated concurrently"`
	Features      *int     `arg:"--features" help:"number of generated features"`
	Informative   *int     `arg:"--informative" help:"number of generated features that carry signal"`
	Signal        *float64 `arg:"--signal" help:"class mean shift of the informative features"`
}

func (o Overrides) apply(opts *simulation.Options) error {
	setInt(&opts.NumAdaptRounds, o.Rounds)
	setInt(&opts.NumTrain, o.Train)
	setFloat(&opts.SignifLevel, o.Signif)
	setFloat(&opts.Threshold, o.Threshold)
	setFloat(&opts.Sigma, o.Sigma)
	setInt(&opts.Budget, o.Budget)
	setInt(&opts.CVFolds, o.Folds)
	setInt(&opts.MaxCandidates, o.MaxCandidates)
	setInt(&opts.Replicates, o.Replicates)
	setInt(&opts.Workers, o.Workers)
	setInt(&opts.Data.NumFeatures, o.Features)
	setInt(&opts.Data.NumInformative, o.Informative)
	setFloat(&opts.Data.Signal, o.Signal)
	if o.Seed != nil {
		opts.Seed = *o.Seed
	}
	if o.Noise != nil {
		noise, err := thresholdout.ParseNoiseDistribution(*o.Noise)
		if err != nil {
			return err
		}
		opts.Noise = noise
	}
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func main() {
	args := struct {
		Overrides
		Config      string   `arg:"--config" help:"YAML options file, flags take precedence"`
		Input       string   `arg:"--input" help:"CSV dataset, a synthetic dataset is generated when empty"`
		Target      string   `arg:"--target" help:"label column of the CSV dataset"`
		Baseline    string   `arg:"--baseline" help:"label value of the negative class"`
		Classifiers []string `arg:"--classifiers" help:"classifiers to simulate"`
		Out         string   `arg:"--out" help:"CSV report path"`
		Plot        string   `arg:"--plot" help:"plot of the mean scores per round (png, svg or pdf)"`
		Summary     bool     `arg:"--summary" help:"print the replicate summary table"`
		Verbose     bool     `arg:"-v" help:"log every round"`
		Sanity      bool     `arg:"--sanity" help:"check the loop invariants after every round"`
	}{
		Target:      "y",
		Baseline:    "0",
		Classifiers: selection.Classifiers(),
		Out:         "holdout-report.csv",
	}
	arg.MustParse(&args)
	start := time.Now()

	opts := simulation.DefaultOptions
	if args.Config != "" {
		var err error
		opts, err = simulation.LoadOptions(args.Config, opts)
		fail(err)
	}
	opts.Seed = envutil.GetenvDefaultInt64("HOLDOUT_SEED", opts.Seed)
	opts.Replicates = envutil.GetenvDefaultInt("HOLDOUT_REPLICATES", opts.Replicates)
	fail(args.Overrides.apply(&opts))
	opts.Verbose = opts.Verbose || args.Verbose
	opts.SanityChecks = opts.SanityChecks || args.Sanity

	var p data.Provisioner = data.Synthetic{Opts: opts.Data}
	if args.Input != "" {
		p = data.CSV{
			Path:       args.Input,
			Target:     args.Target,
			Baseline:   args.Baseline,
			NumHoldout: opts.Data.NumHoldout,
			NumTest:    opts.Data.NumTest,
		}
	}

	var rows []report.Row
	for _, classifier := range args.Classifiers {
		r, err := simulation.Run(p, classifier, opts, nil, kitelog.Basic)
		fail(errors.WrapfOrNil(err, "simulating %s", classifier))
		rows = append(rows, r...)
	}

	f, err := os.Create(args.Out)
	fail(err)
	defer f.Close()
	fail(report.WriteCSV(f, rows))
	log.Printf("wrote %d rows to %s", len(rows), args.Out)

	if args.Plot != "" || args.Summary {
		summaries, err := report.Summarize(rows)
		fail(err)
		if args.Plot != "" {
			fail(report.Plot(summaries, "reusable holdout", args.Plot))
			log.Printf("wrote plot to %s", args.Plot)
		}
		if args.Summary {
			report.RenderSummary(os.Stdout, summaries)
		}
	}

	log.Printf("done in %v", time.Since(start))
}
