package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"songbook/internal/dataset"
	"songbook/internal/library"
	"songbook/internal/songcode"
)

type refreshSummary struct {
	Snapshot  string         `json:"snapshot"`
	Songs     map[string]int `json:"songs"`
	Services  int            `json:"services"`
	Tunes     int            `json:"tunes"`
	Repairs   dataset.Stats  `json:"repairs"`
	TuneStore string         `json:"tune_store"`
}

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the data sheets and report what was loaded",
		Long: `Reload the data sheets and report what was loaded.

Rows in tunes.csv that are not yet in the tune database are added. Rows already
stored, including confirmed pages, are never overwritten by the sheet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withLibrary(cmd, func(_ context.Context, lib *library.Library) error {
				snap, err := lib.Snapshot()
				if err != nil {
					return err
				}
				summary := refreshSummary{
					Snapshot:  snap.ID(),
					Songs:     make(map[string]int, len(songcode.Categories)),
					Services:  snap.History().Len(),
					Tunes:     snap.Tunes().Len(),
					Repairs:   snap.Stats(),
					TuneStore: cfg.TunesDatabasePath(),
				}
				for _, category := range songcode.Categories {
					summary.Songs[category.String()] = snap.Catalog(category).Len()
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, summary)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Snapshot %s\n", summary.Snapshot)
				for _, category := range songcode.Categories {
					fmt.Fprintf(out, "  %-12s %d songs\n", category.String()+":", summary.Songs[category.String()])
				}
				fmt.Fprintf(out, "  %-12s %d\n", "services:", summary.Services)
				fmt.Fprintf(out, "  %-12s %d (%s)\n", "tunes:", summary.Tunes, summary.TuneStore)
				repairs := summary.Repairs
				placeholders := repairs.Placeholders[0] + repairs.Placeholders[1] + repairs.Placeholders[2]
				if placeholders+repairs.UndatedRecords+repairs.SkippedTuneRows+repairs.BadPageValues > 0 {
					fmt.Fprintf(out, "  repaired: %d placeholder rows, %d undated services, %d skipped tune rows, %d bad page values\n",
						placeholders, repairs.UndatedRecords, repairs.SkippedTuneRows, repairs.BadPageValues)
				}
				return nil
			})
		},
	}
}
