package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"songbook/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the data directory and sheets are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg)
			failed := preflight.Failed(results)

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, line := range renderDoctorReport("Data Files", results, isTerminal(out)) {
					fmt.Fprintln(out, line)
				}
			}
			if failed {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
