package report

import (
	"sort"

	"github.com/kiteco/holdout/kite-golib/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot draws the mean of every score across rounds, one line per method and score name, and
// saves it to path. The image format follows the extension of path (png, svg, pdf, ...).
func Plot(summaries []Summary, title, path string) error {
	if len(summaries) == 0 {
		return errors.Errorf("nothing to plot")
	}

	type lineKey struct {
		method string
		score  string
	}
	lines := make(map[lineKey]plotter.XYs)
	methods := make(map[string]bool)
	for _, s := range summaries {
		k := lineKey{s.Method, s.ScoreName}
		lines[k] = append(lines[k], plotter.XY{X: float64(s.Round), Y: s.Mean})
		methods[s.Method] = true
	}

	var keys []lineKey
	for k := range lines {
		keys = append(keys, k)
	}
	order := make(map[string]int, len(ScoreNames))
	for i, name := range ScoreNames {
		order[name] = i
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].method != keys[j].method {
			return keys[i].method < keys[j].method
		}
		return order[keys[i].score] < order[keys[j].score]
	})

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "round"
	p.Y.Label.Text = "AUC"
	p.Legend.Top = true

	var args []interface{}
	for _, k := range keys {
		name := k.score
		if len(methods) > 1 {
			name = k.method + " " + k.score
		}
		pts := lines[k]
		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
		args = append(args, name, pts)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return errors.Wrapf(err, "adding lines")
	}
	return errors.WrapfOrNil(p.Save(8*vg.Inch, 5*vg.Inch, path), "saving plot")
}
