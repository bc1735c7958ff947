package report

import (
	"sort"

	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/montanaflynn/stats"
)

// Summary aggregates one (round, score name) across replicates
type Summary struct {
	Method    string
	Round     int
	ScoreName string
	N         int
	Mean      float64
	StdDev    float64
	Median    float64
	P05       float64
	P95       float64
	// MeanFeatureCount and MeanBudget average the round's series across replicates
	MeanFeatureCount float64
	MeanAccesses     float64
	MeanBudget       float64
}

type summaryKey struct {
	method string
	round  int
	score  string
}

// Summarize groups rows by method, round and score name, ordered by method, round and
// ScoreNames order.
func Summarize(rows []Row) ([]Summary, error) {
	groups := make(map[summaryKey][]Row)
	var keys []summaryKey
	for _, r := range rows {
		k := summaryKey{r.Method, r.Round, r.ScoreName}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	order := make(map[string]int, len(ScoreNames))
	for i, name := range ScoreNames {
		order[name] = i
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.method != b.method {
			return a.method < b.method
		}
		if a.round != b.round {
			return a.round < b.round
		}
		return order[a.score] < order[b.score]
	})

	out := make([]Summary, 0, len(keys))
	for _, k := range keys {
		s, err := summarize(groups[k])
		if err != nil {
			return nil, errors.Wrapf(err, "round %d %s", k.round, k.score)
		}
		s.Method, s.Round, s.ScoreName = k.method, k.round, k.score
		out = append(out, s)
	}
	return out, nil
}

func summarize(rows []Row) (Summary, error) {
	var values, features, accesses, budgets stats.Float64Data
	for _, r := range rows {
		values = append(values, r.ScoreValue)
		features = append(features, float64(r.FeatureCount))
		accesses = append(accesses, float64(r.CumulativeHoldoutAccesses))
		budgets = append(budgets, float64(r.BudgetUtilized))
	}

	s := Summary{N: len(rows)}
	var err error
	if s.Mean, err = stats.Mean(values); err != nil {
		return Summary{}, err
	}
	if len(values) > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(values); err != nil {
			return Summary{}, err
		}
	}
	if s.Median, err = stats.Median(values); err != nil {
		return Summary{}, err
	}
	// with too few replicates to interpolate a tail percentile, fall back to the extremes
	if s.P05, err = stats.Percentile(values, 5); err != nil {
		if s.P05, err = stats.Min(values); err != nil {
			return Summary{}, err
		}
	}
	if s.P95, err = stats.Percentile(values, 95); err != nil {
		if s.P95, err = stats.Max(values); err != nil {
			return Summary{}, err
		}
	}
	if s.MeanFeatureCount, err = features.Mean(); err != nil {
		return Summary{}, err
	}
	if s.MeanAccesses, err = accesses.Mean(); err != nil {
		return Summary{}, err
	}
	if s.MeanBudget, err = budgets.Mean(); err != nil {
		return Summary{}, err
	}
	return s, nil
}
