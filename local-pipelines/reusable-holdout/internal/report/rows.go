package report

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/adaptive"
)

// Score names, one row per round and score
const (
	ScoreTrain        = "train"
	ScoreCVTrain      = "cv_train"
	ScoreHoldout      = "holdout"
	ScoreTest         = "test"
	ScoreThresholdout = "thresholdout"
)

// ScoreNames lists the score names in report order
var ScoreNames = []string{ScoreTrain, ScoreCVTrain, ScoreHoldout, ScoreTest, ScoreThresholdout}

// Row is one (round, score) entry of the flat report
type Row struct {
	Replicate                 int     `csv:"replicate"`
	Round                     int     `csv:"round"`
	ScoreName                 string  `csv:"score_name"`
	ScoreValue                float64 `csv:"score_value"`
	Method                    string  `csv:"classifier_method"`
	FeatureCount              int     `csv:"cumulative_feature_count"`
	HoldoutAccesses           int     `csv:"holdout_access_count"`
	CumulativeHoldoutAccesses int     `csv:"cumulative_holdout_access_count"`
	BudgetUtilized            int     `csv:"cumulative_budget_consumption"`
}

// series are the per-round columns joined onto every score row of that round
type series struct {
	featureCount   int
	accesses       int
	cumulative     int
	budgetUtilized int
}

// Flatten turns a run into one row per (round, score name), joining each row with its round's
// feature count and holdout/budget series.
func Flatten(res *adaptive.Result, method string, replicate int) []Row {
	byRound := make(map[int]series, len(res.Rounds))
	for _, rec := range res.Rounds {
		byRound[rec.Round] = series{
			featureCount:   rec.FeatureCount(),
			accesses:       rec.HoldoutAccesses,
			cumulative:     rec.CumulativeHoldoutAccesses,
			budgetUtilized: rec.BudgetUtilized,
		}
	}

	rows := make([]Row, 0, len(res.Rounds)*len(ScoreNames))
	for _, rec := range res.Rounds {
		values := map[string]float64{
			ScoreTrain:        rec.Scores.Train,
			ScoreCVTrain:      rec.Scores.CVTrain,
			ScoreHoldout:      rec.Scores.Holdout,
			ScoreTest:         rec.Scores.Test,
			ScoreThresholdout: rec.Comparison,
		}
		s := byRound[rec.Round]
		for _, name := range ScoreNames {
			rows = append(rows, Row{
				Replicate:                 replicate,
				Round:                     rec.Round,
				ScoreName:                 name,
				ScoreValue:                values[name],
				Method:                    method,
				FeatureCount:              s.featureCount,
				HoldoutAccesses:           s.accesses,
				CumulativeHoldoutAccesses: s.cumulative,
				BudgetUtilized:            s.budgetUtilized,
			})
		}
	}
	return rows
}

// WriteCSV writes rows with a header line
func WriteCSV(w io.Writer, rows []Row) error {
	return errors.WrapfOrNil(gocsv.Marshal(&rows, w), "writing report")
}

// ReadCSV reads rows written by WriteCSV
func ReadCSV(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrapf(err, "reading report")
	}
	return rows, nil
}
