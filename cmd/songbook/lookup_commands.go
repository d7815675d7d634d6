package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"songbook/internal/library"
	"songbook/internal/songcode"
)

const dateLayout = "2006-01-02"

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "normalize <code>...",
		Short:       "Print the canonical form of song codes",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				fmt.Fprintln(out, songcode.Normalize(arg))
			}
			return nil
		},
	}
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "check <code>...",
		Short: "Show catalog text, membership and last-sung date for song codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSnapshot(cmd, func(snap *library.Snapshot) error {
				reports := make([]library.Report, 0, len(args))
				var errs []error
				for _, arg := range args {
					report, err := snap.Check(arg, all)
					if err != nil {
						errs = append(errs, fmt.Errorf("%s: %w", strings.TrimSpace(arg), err))
						continue
					}
					reports = append(reports, report)
				}

				if ctx.jsonOutput() {
					if err := writeJSON(cmd, reports); err != nil {
						return err
					}
				} else {
					rows := make([][]string, 0, len(reports))
					for _, r := range reports {
						rows = append(rows, []string{r.Code, yesNo(r.Known), formatLast(r.LastSung), entryLabel(r)})
					}
					writeRows(cmd, []string{"Code", "Sung", "Last Sung", "Song"}, rows, nil)
				}
				return errors.Join(errs...)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include every date the song was sung")
	return cmd
}

func newLastCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "last <code>",
		Short: "Show when a song was last sung",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := songcode.Parse(args[0])
			if err != nil {
				return err
			}
			return ctx.withSnapshot(cmd, func(snap *library.Snapshot) error {
				info := snap.LastSung(code, all)
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"code": code.String(), "dates": info.Dates})
				}
				out := cmd.OutOrStdout()
				if !info.Sung() {
					fmt.Fprintf(out, "%s has not been sung\n", code)
					return nil
				}
				for _, date := range info.Dates {
					fmt.Fprintln(out, date.Format(dateLayout))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every date, newest first")
	return cmd
}

func formatLast(last *time.Time) string {
	if last == nil {
		return "never"
	}
	return last.Format(dateLayout)
}

func entryLabel(r library.Report) string {
	if r.Entry.Placeholder() {
		return "(missing)"
	}
	if title := r.Entry.Context(); title != "" {
		return title
	}
	return truncate(r.Entry.Text, 48)
}

func truncate(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
