package adaptive

import (
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/selection"
)

// RoundRecord is the provenance of one round
type RoundRecord struct {
	Round int
	// TrainSize is the number of training rows the round's candidates were fit on
	TrainSize int
	// Candidates is the number of candidates the fitter generated
	Candidates int
	// Scores are the winning candidate's raw scores
	Scores selection.Scores
	// Comparison is the winner's bias-corrected oracle score. Round 0 makes no oracle query
	// and reports its cross-validated training score.
	Comparison float64
	// Features is the cumulative feature set after this round
	Features                  selection.FeatureSet
	HoldoutAccesses           int
	CumulativeHoldoutAccesses int
	// BudgetUtilized is the oracle's budget counter after this round
	BudgetUtilized int
}

// FeatureCount is the size of the cumulative feature set
func (r RoundRecord) FeatureCount() int {
	return r.Features.Len()
}

// Result is a completed run: one record per round, round 0 first
type Result struct {
	Rounds []RoundRecord
	// Features is the final cumulative feature set
	Features selection.FeatureSet
}
