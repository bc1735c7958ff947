package adaptive

import (
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/selection"
)

// checkCandidates verifies that the candidates are non-empty, contain the mandatory set and
// are strictly increasing in size
func checkCandidates(round int, cands []selection.Candidate, mandatory selection.FeatureSet) error {
	for i, c := range cands {
		if c.Features.Len() == 0 {
			return invariantErrorf("round %d: candidate %d is empty", round, i)
		}
		if !mandatory.SubsetOf(c.Features) {
			return invariantErrorf("round %d: candidate %d %s misses mandatory features %s", round, i, c.Features, mandatory)
		}
		if i > 0 && c.Features.Len() <= cands[i-1].Features.Len() {
			return invariantErrorf("round %d: candidate %d does not grow the subset (%d then %d features)",
				round, i, cands[i-1].Features.Len(), c.Features.Len())
		}
	}
	if round == 0 && (len(cands) != 1 || cands[0].Features.Len() != 2) {
		return invariantErrorf("round 0: expected one 2-feature candidate")
	}
	return nil
}

// checkRound verifies a freshly built record against the run so far
func checkRound(r *run, rec RoundRecord, previous selection.FeatureSet, budgetBefore int) error {
	total := r.bundle.TrainTotal.Len()
	if rec.TrainSize != TrainSize(rec.Round, r.cfg.NumAdaptRounds, r.cfg.NumTrain, total) {
		return invariantErrorf("round %d: trained on %d rows", rec.Round, rec.TrainSize)
	}
	if rec.Round == r.cfg.NumAdaptRounds && rec.TrainSize != total {
		return invariantErrorf("round %d: final round trained on %d of %d rows", rec.Round, rec.TrainSize, total)
	}
	if last := r.records[len(r.records)-1]; rec.TrainSize < last.TrainSize {
		return invariantErrorf("round %d: training slice shrank from %d to %d", rec.Round, last.TrainSize, rec.TrainSize)
	}
	if !previous.SubsetOf(rec.Features) {
		return invariantErrorf("round %d: cumulative features %s lost members of %s", rec.Round, rec.Features, previous)
	}
	if rec.BudgetUtilized < budgetBefore {
		return invariantErrorf("round %d: budget went down from %d to %d", rec.Round, budgetBefore, rec.BudgetUtilized)
	}
	if rec.HoldoutAccesses != rec.Candidates+1 {
		return invariantErrorf("round %d: %d holdout accesses for %d candidates", rec.Round, rec.HoldoutAccesses, rec.Candidates)
	}
	return nil
}
