package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"songbook/internal/library"
	"songbook/internal/search"
	"songbook/internal/songcode"
)

type searchHit struct {
	Rank int    `json:"rank"`
	Code string `json:"code"`
	search.Result
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "search <hymn|lyric|convention> <text>...",
		Short: "Find catalog songs whose text resembles a fragment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := songcode.ParseCategory(args[0])
			if err != nil {
				return err
			}
			query := strings.Join(args[1:], " ")
			return ctx.withSnapshot(cmd, func(snap *library.Snapshot) error {
				results, err := snap.Search(query, category.String(), topN)
				if err != nil {
					return err
				}
				hits := make([]searchHit, 0, len(results))
				for i, r := range results {
					code, _ := songcode.New(category, r.Number)
					hits = append(hits, searchHit{Rank: i + 1, Code: code.String(), Result: r})
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, hits)
				}
				rows := make([][]string, 0, len(hits))
				for _, hit := range hits {
					rows = append(rows, []string{
						strconv.Itoa(hit.Rank),
						hit.Code,
						fmt.Sprintf("%.3f", hit.Score),
						hitLabel(snap, category, hit.Result),
					})
				}
				writeRows(cmd, []string{"#", "Code", "Score", "Song"}, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignLeft})
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 0, "Number of results (defaults to search.default_top_n)")
	return cmd
}

func hitLabel(snap *library.Snapshot, category songcode.Category, r search.Result) string {
	if r.Context != "" {
		return r.Context
	}
	entry, err := snap.Catalog(category).Lookup(r.Number)
	if err != nil {
		return ""
	}
	return truncate(entry.Text, 48)
}
