package selection

import (
	"math"
	"sort"

	"github.com/kiteco/holdout/kite-golib/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchPValue runs a two-sided Welch t-test for a difference in means between a and b.
func WelchPValue(a, b []float64) (float64, error) {
	if len(a) < 2 || len(b) < 2 {
		return 0, errors.Errorf("each group needs at least 2 samples, got %d and %d", len(a), len(b))
	}
	ma, va := stat.MeanVariance(a, nil)
	mb, vb := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	sa, sb := va/na, vb/nb
	se := math.Sqrt(sa + sb)
	if se == 0 {
		if ma == mb {
			return 1, nil
		}
		return 0, nil
	}
	t := (ma - mb) / se
	// Welch-Satterthwaite degrees of freedom
	df := (sa + sb) * (sa + sb) / (sa*sa/(na-1) + sb*sb/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	return math.Min(p, 1), nil
}

// ranked is a feature column with its p-value
type ranked struct {
	column int
	pvalue float64
}

// rankFeatures tests every column against labels y and orders the columns by
// increasing p-value, breaking ties by column index.
func rankFeatures(columns [][]float64, y []bool) ([]ranked, error) {
	out := make([]ranked, 0, len(columns))
	for j, col := range columns {
		var pos, neg []float64
		for i, v := range col {
			if y[i] {
				pos = append(pos, v)
			} else {
				neg = append(neg, v)
			}
		}
		p, err := WelchPValue(pos, neg)
		if err != nil {
			return nil, errors.Wrapf(err, "testing column %d", j)
		}
		out = append(out, ranked{column: j, pvalue: p})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].pvalue < out[j].pvalue
	})
	return out, nil
}
