package report

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/adaptive"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *adaptive.Result {
	f0 := selection.NewFeatureSet("x001", "x002")
	f1 := selection.NewFeatureSet("x001", "x002", "x007")
	return &adaptive.Result{
		Rounds: []adaptive.RoundRecord{
			{
				Round:      0,
				Scores:     selection.Scores{Train: 0.70, CVTrain: 0.66, Holdout: 0.64, Test: 0.65},
				Comparison: 0.66,
				Features:   f0,
			},
			{
				Round:                     1,
				Candidates:                2,
				Scores:                    selection.Scores{Train: 0.75, CVTrain: 0.70, Holdout: 0.66, Test: 0.64},
				Comparison:                0.69,
				Features:                  f1,
				HoldoutAccesses:           3,
				CumulativeHoldoutAccesses: 3,
				BudgetUtilized:            1,
			},
		},
		Features: f1,
	}
}

func TestFlatten(t *testing.T) {
	rows := Flatten(testResult(), "logistic", 2)
	require.Len(t, rows, 10)

	for i, r := range rows {
		assert.Equal(t, i/5, r.Round)
		assert.Equal(t, ScoreNames[i%5], r.ScoreName)
		assert.Equal(t, "logistic", r.Method)
		assert.Equal(t, 2, r.Replicate)
	}
	assert.Equal(t, 0.69, rows[9].ScoreValue)
	assert.Equal(t, 0.66, rows[7].ScoreValue)
	assert.Equal(t, 3, rows[9].FeatureCount)
	assert.Equal(t, 3, rows[9].HoldoutAccesses)
	assert.Equal(t, 1, rows[9].BudgetUtilized)
	assert.Equal(t, 0, rows[0].HoldoutAccesses)
	assert.Equal(t, 2, rows[0].FeatureCount)
}

func TestCSVRoundTrip(t *testing.T) {
	rows := Flatten(testResult(), "tree", 0)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	assert.Contains(t, buf.String(), "cumulative_budget_consumption")

	read, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, read)
}

func TestSummarize(t *testing.T) {
	var rows []Row
	for rep, holdout := range []float64{0.60, 0.70, 0.80} {
		res := testResult()
		res.Rounds[1].Scores.Holdout = holdout
		res.Rounds[1].BudgetUtilized = rep
		rows = append(rows, Flatten(res, "logistic", rep)...)
	}

	summaries, err := Summarize(rows)
	require.NoError(t, err)
	require.Len(t, summaries, 10)

	assert.Equal(t, 0, summaries[0].Round)
	assert.Equal(t, ScoreTrain, summaries[0].ScoreName)

	h := summaries[7]
	assert.Equal(t, 1, h.Round)
	assert.Equal(t, ScoreHoldout, h.ScoreName)
	assert.Equal(t, 3, h.N)
	assert.InDelta(t, 0.70, h.Mean, 1e-12)
	assert.InDelta(t, 0.1, h.StdDev, 1e-12)
	assert.InDelta(t, 0.70, h.Median, 1e-12)
	assert.True(t, h.P05 <= h.Median && h.Median <= h.P95)
	assert.InDelta(t, 1, h.MeanBudget, 1e-12)
	assert.InDelta(t, 3, h.MeanFeatureCount, 1e-12)

	// a single replicate has no spread
	single, err := Summarize(Flatten(testResult(), "logistic", 0))
	require.NoError(t, err)
	assert.Equal(t, 0., single[0].StdDev)
	assert.Equal(t, single[0].Mean, single[0].P05)
}

func TestRenderSummary(t *testing.T) {
	summaries, err := Summarize(Flatten(testResult(), "logistic", 0))
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderSummary(&buf, summaries)
	out := buf.String()
	assert.Contains(t, out, "MEDIAN")
	assert.Contains(t, out, "thresholdout")
	assert.Contains(t, out, "0.6900")
}

func TestPlot(t *testing.T) {
	dir, err := ioutil.TempDir("", "holdout-plot")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	summaries, err := Summarize(Flatten(testResult(), "logistic", 0))
	require.NoError(t, err)

	path := filepath.Join(dir, "scores.png")
	require.NoError(t, Plot(summaries, "scores", path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)

	assert.Error(t, Plot(nil, "empty", path))
}
