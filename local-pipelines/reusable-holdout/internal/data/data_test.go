package data

import (
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSyntheticShapes(t *testing.T) {
	opts := SyntheticOptions{
		NumTrainTotal:  40,
		NumHoldout:     30,
		NumTest:        20,
		NumFeatures:    5,
		NumInformative: 2,
		Signal:         1,
	}
	b, err := Synthetic{Opts: opts}.Provision(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	assert.Equal(t, 40, b.TrainTotal.Len())
	assert.Equal(t, 30, b.Holdout.Len())
	assert.Equal(t, 20, b.Test.Len())
	assert.Equal(t, 5, b.FeatureCount())
	assert.Equal(t, []string{"x001", "x002", "x003", "x004", "x005"}, b.Features)
	assert.Equal(t, 4, b.FeatureIndex()["x005"])
}

func TestSyntheticDeterministic(t *testing.T) {
	opts := DefaultSyntheticOptions
	opts.NumTrainTotal, opts.NumHoldout, opts.NumTest = 10, 10, 10
	a, err := Synthetic{Opts: opts}.Provision(rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := Synthetic{Opts: opts}.Provision(rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.TrainTotal.X, b.TrainTotal.X))
	assert.Equal(t, a.Test.Y, b.Test.Y)
}

func TestSyntheticValidate(t *testing.T) {
	_, err := Synthetic{Opts: SyntheticOptions{NumTrainTotal: 1, NumHoldout: 1, NumTest: 1, NumFeatures: 1}}.Provision(rand.New(rand.NewSource(1)))
	assert.Error(t, err)

	_, err = Synthetic{Opts: SyntheticOptions{NumTrainTotal: 1, NumHoldout: 1, NumTest: 1, NumFeatures: 3, NumInformative: 4}}.Provision(rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestSplitRowsAndColumns(t *testing.T) {
	s := Split{
		X: mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
		Y: []bool{true, false, true},
	}
	rows := s.Rows([]int{2, 0})
	assert.Equal(t, []float64{5, 6, 1, 2}, rows.X.RawMatrix().Data)
	assert.Equal(t, []bool{true, true}, rows.Y)

	cols := s.Columns([]int{1})
	assert.Equal(t, []float64{2, 4, 6}, cols.RawMatrix().Data)
	assert.Equal(t, []float64{1, 3, 5}, s.Column(0))
}

func TestCSVProvision(t *testing.T) {
	dir, err := ioutil.TempDir("", "holdout-data")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var b strings.Builder
	b.WriteString("b,a,label\n")
	for i := 0; i < 12; i++ {
		label := "no"
		if i%2 == 0 {
			label = "yes"
		}
		fmt.Fprintf(&b, "%d,%d.5,%s\n", i, i*10, label)
	}
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, ioutil.WriteFile(path, []byte(b.String()), 0644))

	bundle, err := CSV{Path: path, Target: "label", Baseline: "no", NumHoldout: 3, NumTest: 4}.Provision(rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, bundle.Features)
	assert.Equal(t, 5, bundle.TrainTotal.Len())
	assert.Equal(t, 3, bundle.Holdout.Len())
	assert.Equal(t, 4, bundle.Test.Len())
	assert.Equal(t, "label", bundle.Target)

	// column a is always 10*b + 0.5 and even b is the positive class
	for _, s := range []Split{bundle.TrainTotal, bundle.Holdout, bundle.Test} {
		for i := 0; i < s.Len(); i++ {
			a, bv := s.X.At(i, 0), s.X.At(i, 1)
			assert.Equal(t, bv*10+0.5, a)
			assert.Equal(t, int(bv)%2 == 0, s.Y[i])
		}
	}
}

func TestCSVErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	records := []map[string]string{{"a": "1", "y": "0"}, {"a": "2", "y": "1"}}

	_, err := CSV{Target: "missing", NumHoldout: 1, NumTest: 1}.fromRecords(rng, records)
	assert.Error(t, err)

	_, err = CSV{Target: "y", NumHoldout: 1, NumTest: 1}.fromRecords(rng, records)
	assert.Error(t, err, "nothing left to train on")

	_, err = CSV{Target: "y", NumHoldout: 1, NumTest: 1}.fromRecords(rng, []map[string]string{
		{"a": "x", "y": "0"}, {"a": "1", "y": "0"}, {"a": "1", "y": "1"},
	})
	assert.Error(t, err)

	_, err = CSV{Path: "/nonexistent/data.csv", Target: "y"}.Provision(rng)
	assert.Error(t, err)
}
