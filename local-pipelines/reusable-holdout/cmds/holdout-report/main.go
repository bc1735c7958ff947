package main

import (
	"log"
	"os"

	"github.com/kiteco/holdout/kite-golib/errors"
	"github.com/kiteco/holdout/local-pipelines/reusable-holdout/internal/report"
	"github.com/spf13/cobra"
)

func fail(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func loadSummaries(path string) []report.Summary {
	f, err := os.Open(path)
	fail(err)
	defer f.Close()

	rows, err := report.ReadCSV(f)
	fail(errors.WrapfOrNil(err, "loading %s", path))
	summaries, err := report.Summarize(rows)
	fail(err)
	return summaries
}

var title string

func init() {
	plotCmd.Flags().StringVarP(&title, "title", "t", "reusable holdout", "plot title")
}

var summaryCmd = cobra.Command{
	Use:   "summary REPORT.csv",
	Short: "print mean, spread and percentiles of every score across replicates",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report.RenderSummary(os.Stdout, loadSummaries(args[0]))
	},
}

var plotCmd = cobra.Command{
	Use:   "plot REPORT.csv OUT",
	Short: "plot the mean of every score per round, the format follows the extension of OUT",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		fail(report.Plot(loadSummaries(args[0]), title, args[1]))
	},
}

var root = cobra.Command{
	Use:   "holdout-report",
	Short: "inspect reports written by simulate",
}

func main() {
	root.AddCommand(&summaryCmd, &plotCmd)
	fail(root.Execute())
}
