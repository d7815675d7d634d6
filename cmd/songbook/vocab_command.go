package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"songbook/internal/library"
	"songbook/internal/songcode"
	"songbook/internal/vocabulary"
)

func newVocabCommand(ctx *commandContext) *cobra.Command {
	var categoryFlag string

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "List every song number the choir has sung",
		RunE: func(cmd *cobra.Command, args []string) error {
			var only *songcode.Category
			if categoryFlag != "" {
				category, err := songcode.ParseCategory(categoryFlag)
				if err != nil {
					return err
				}
				only = &category
			}
			return ctx.withSnapshot(cmd, func(snap *library.Snapshot) error {
				vocab := snap.Vocabulary()
				if only != nil {
					numbers := vocab.For(*only).Numbers()
					if ctx.jsonOutput() {
						return writeJSON(cmd, map[string][]int{only.String(): numbers})
					}
					rows := make([][]string, len(numbers))
					for i, n := range numbers {
						rows[i] = []string{strconv.Itoa(n)}
					}
					writeRows(cmd, []string{vocabulary.CombinedHeader[only.Index()]}, rows, []columnAlignment{alignRight})
					return nil
				}
				if ctx.jsonOutput() {
					payload := make(map[string][]int, len(songcode.Categories))
					for _, category := range songcode.Categories {
						payload[category.String()] = vocab.For(category).Numbers()
					}
					return writeJSON(cmd, payload)
				}
				writeRows(cmd, vocabulary.CombinedHeader, vocab.Combined(),
					[]columnAlignment{alignRight, alignRight, alignRight})
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "Limit output to hymn, lyric or convention")
	return cmd
}
