package report

import (
	"fmt"
	"io"

	humanize "github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// RenderSummary writes summaries as a text table
func RenderSummary(w io.Writer, summaries []Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"method", "round", "score", "n", "mean", "sd", "median", "p05", "p95", "features", "holdout accesses", "budget"})
	for _, s := range summaries {
		table.Append([]string{
			s.Method,
			fmt.Sprintf("%d", s.Round),
			s.ScoreName,
			humanize.Comma(int64(s.N)),
			fmt.Sprintf("%.4f", s.Mean),
			fmt.Sprintf("%.4f", s.StdDev),
			fmt.Sprintf("%.4f", s.Median),
			fmt.Sprintf("%.4f", s.P05),
			fmt.Sprintf("%.4f", s.P95),
			fmt.Sprintf("%.1f", s.MeanFeatureCount),
			humanize.Commaf(s.MeanAccesses),
			fmt.Sprintf("%.1f", s.MeanBudget),
		})
	}
	table.Render()
}
