package roc

import (
	"sort"

	"github.com/kiteco/holdout/kite-golib/errors"
)

// ErrSingleClass is returned when the labels do not contain both classes
var ErrSingleClass = errors.New("auc needs both positive and negative labels")

// AUC computes the area under the ROC curve of scores against labels, using the
// Mann-Whitney rank statistic. Tied scores share their average rank.
func AUC(scores []float64, labels []bool) (float64, error) {
	if len(scores) != len(labels) {
		return 0, errors.Errorf("got %d scores but %d labels", len(scores), len(labels))
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] < scores[idx[j]]
	})

	var pos, neg int
	var rankSum float64
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && scores[idx[end]] == scores[idx[start]] {
			end++
		}
		// ranks are 1-based, so the tied block [start, end) shares (start+1+end)/2
		rank := float64(start+1+end) / 2
		for _, i := range idx[start:end] {
			if labels[i] {
				pos++
				rankSum += rank
			} else {
				neg++
			}
		}
		start = end
	}
	if pos == 0 || neg == 0 {
		return 0.5, ErrSingleClass
	}

	u := rankSum - float64(pos)*float64(pos+1)/2
	return u / (float64(pos) * float64(neg)), nil
}
