package data

import (
	"math/rand"
	"os"
	"sort"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/kiteco/holdout/kite-golib/errors"
	"gonum.org/v1/gonum/mat"
)

// CSV provisions a Bundle from a headered CSV file with one numeric column per feature and
// a target column. Rows are shuffled once and split into test, holdout and train-total.
type CSV struct {
	Path string
	// Target is the label column
	Target string
	// Baseline is the target value of the negative class, every other value is positive
	Baseline   string
	NumHoldout int
	NumTest    int
}

// Provision implements Provisioner
func (c CSV) Provision(rng *rand.Rand) (*Bundle, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dataset")
	}
	defer f.Close()

	records, err := gocsv.CSVToMaps(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", c.Path)
	}
	return c.fromRecords(rng, records)
}

func (c CSV) fromRecords(rng *rand.Rand, records []map[string]string) (*Bundle, error) {
	if len(records) == 0 {
		return nil, errors.Errorf("dataset has no rows")
	}
	if _, ok := records[0][c.Target]; !ok {
		return nil, errors.Errorf("target column %q not found", c.Target)
	}
	if c.NumHoldout <= 0 || c.NumTest <= 0 {
		return nil, errors.Errorf("holdout and test sizes must be positive, got %d and %d", c.NumHoldout, c.NumTest)
	}
	numTrain := len(records) - c.NumHoldout - c.NumTest
	if numTrain <= 0 {
		return nil, errors.Errorf("%d rows leave nothing to train on after %d holdout and %d test rows",
			len(records), c.NumHoldout, c.NumTest)
	}

	// map iteration order is random, so features are kept in name order
	var features []string
	for name := range records[0] {
		if name != c.Target {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return nil, errors.Errorf("dataset has no feature columns besides %q", c.Target)
	}
	sort.Strings(features)

	x := mat.NewDense(len(records), len(features), nil)
	y := make([]bool, len(records))
	for i, rec := range records {
		for j, name := range features {
			v, err := strconv.ParseFloat(rec[name], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %s", i+1, name)
			}
			x.Set(i, j, v)
		}
		y[i] = rec[c.Target] != c.Baseline
	}
	all := Split{X: x, Y: y}

	perm := rng.Perm(len(records))
	b := &Bundle{
		Test:       all.Rows(perm[:c.NumTest]),
		Holdout:    all.Rows(perm[c.NumTest : c.NumTest+c.NumHoldout]),
		TrainTotal: all.Rows(perm[c.NumTest+c.NumHoldout:]),
		Target:     c.Target,
		Baseline:   c.Baseline,
		Features:   features,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
