// Package report renders the ranked result set for the console.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Agrumas/gh-ranker/score"
)

// Row is the display projection of one ranked repository.
type Row struct {
	Name       string
	Score      float64
	Stargazers int
	ID         int64
}

// Rows projects the ranked records onto their display subset.
func Rows(ranked []score.RankedRepository) []Row {
	rows := make([]Row, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, Row{
			Name:       r.Name,
			Score:      r.Score,
			Stargazers: r.Stargazers,
			ID:         r.ID,
		})
	}
	return rows
}

// Print writes the ranked table to w.
func Print(w io.Writer, ranked []score.RankedRepository) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSCORE\tSTARGAZERS\tID")
	for _, row := range Rows(ranked) {
		fmt.Fprintf(tw, "%s\t%.3f\t%d\t%d\n", row.Name, row.Score, row.Stargazers, row.ID)
	}
	return tw.Flush()
}
