package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"songbook/internal/library"
	"songbook/internal/notation"
)

const defaultSuggestions = 5

type notationAnswer struct {
	Tune string `json:"tune"`
	Hymn int    `json:"hymn"`
	Link string `json:"link,omitempty"`
	notation.Resolution
}

func newNotationCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notation <hymn> <tune>...",
		Short: "Find the notation page for a hymn tune",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hymn, err := parseHymn(args[0])
			if err != nil {
				return err
			}
			tune := strings.Join(args[1:], " ")
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withSnapshot(cmd, func(snap *library.Snapshot) error {
				res, err := snap.ResolvePage(tune, hymn)
				if errors.Is(err, notation.ErrNotationUnresolved) {
					printSuggestions(cmd, snap.SuggestTunes(tune, hymn, cfg.Notation.SuggestLimit))
					return err
				}
				if err != nil {
					return err
				}
				answer := notationAnswer{Tune: notation.DisplayTuneName(tune), Hymn: hymn, Resolution: res}
				if link, linkErr := snap.PageToLink(res.Page); linkErr == nil {
					answer.Link = link
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, answer)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Page %d (%s)\n", res.Page, res.Source)
				if res.Offset != 0 {
					fmt.Fprintf(out, "Taken from hymn %d (offset %+d)\n", res.HymnNumber, res.Offset)
				}
				if answer.Link != "" {
					fmt.Fprintln(out, answer.Link)
				}
				if res.Heuristic() {
					fmt.Fprintf(out, "Unverified guess; confirm with: songbook confirm %d <page> %s\n", hymn, tune)
				}
				return nil
			})
		},
	}
	return cmd
}

func printSuggestions(cmd *cobra.Command, suggestions []notation.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "Did you mean:")
	for _, s := range suggestions {
		fmt.Fprintf(out, "  %s (hymn %d)\n", notation.DisplayTuneName(s.TuneName), s.HymnNumber)
	}
}

func newLinkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "link <page>",
		Short: "Print the viewer URL for a notation page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid page %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mapper := notation.LinkMapper{ViewerA: cfg.Notation.ViewerAURL, ViewerB: cfg.Notation.ViewerBURL}
			link, err := mapper.PageToLink(page)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"page": page, "link": link})
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}

func newConfirmCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var offset int

	cmd := &cobra.Command{
		Use:   "confirm <hymn> <page> <tune>...",
		Short: "Record a verified notation page for a hymn tune",
		Long: "Record a verified notation page. Without --source the current resolution " +
			"decides where the page is stored: guesses from probable pages or neighboring " +
			"hymns update the probable result, everything else becomes the direct page.",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hymn, err := parseHymn(args[0])
			if err != nil {
				return err
			}
			page, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("invalid page %q", args[1])
			}
			tune := strings.Join(args[2:], " ")

			return ctx.withLibrary(cmd, func(runCtx context.Context, lib *library.Library) error {
				res, err := confirmResolution(lib, tune, hymn, sourceFlag, offset)
				if err != nil {
					return err
				}
				row, err := lib.ConfirmPage(runCtx, tune, hymn, page, res)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, row)
				}
				field := "direct page"
				if res.Heuristic() {
					field = "probable result"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded page %d as the %s for %s on hymn %d\n",
					page, field, notation.DisplayTuneName(row.TuneName), row.HymnNumber)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Provenance of the page: direct, confirmed or probable")
	cmd.Flags().IntVar(&offset, "offset", 0, "Neighbor offset the page came from")
	return cmd
}

func confirmResolution(lib *library.Library, tune string, hymn int, sourceFlag string, offset int) (notation.Resolution, error) {
	if strings.TrimSpace(sourceFlag) != "" {
		source, err := notation.ParseSource(sourceFlag)
		if err != nil {
			return notation.Resolution{}, err
		}
		return notation.Resolution{Source: source, HymnNumber: hymn + offset, Offset: offset}, nil
	}
	snap, err := lib.Snapshot()
	if err != nil {
		return notation.Resolution{}, err
	}
	res, err := snap.ResolvePage(tune, hymn)
	if errors.Is(err, notation.ErrNotationUnresolved) {
		return notation.Resolution{Source: notation.SourceDirect, HymnNumber: hymn}, nil
	}
	return res, err
}

func newTunesCommand(ctx *commandContext) *cobra.Command {
	var hymn int
	var limit int

	cmd := &cobra.Command{
		Use:   "tunes [pattern]",
		Short: "List or fuzzy-find tunes in the cross-reference table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSnapshot(cmd, func(snap *library.Snapshot) error {
				var rows []notation.TuneRef
				switch {
				case len(args) == 1:
					for _, m := range snap.FindTunes(args[0], limit) {
						rows = append(rows, m.TuneRef)
					}
				case hymn > 0:
					rows = snap.Tunes().ForHymn(hymn)
				default:
					rows = snap.Tunes().Rows()
				}
				if ctx.jsonOutput() {
					if rows == nil {
						rows = []notation.TuneRef{}
					}
					return writeJSON(cmd, rows)
				}
				table := make([][]string, 0, len(rows))
				for _, r := range rows {
					probable := ""
					if r.ProbableResult > 0 {
						probable = strconv.Itoa(r.ProbableResult)
					}
					table = append(table, []string{
						strconv.Itoa(r.HymnNumber),
						notation.DisplayTuneName(r.TuneName),
						notation.FormatPages(r.Pages),
						probable,
					})
				}
				writeRows(cmd, []string{"Hymn", "Tune", "Pages", "Probable"}, table, []columnAlignment{alignRight})
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&hymn, "hymn", 0, "Only list tunes recorded for this hymn")
	cmd.Flags().IntVar(&limit, "limit", defaultSuggestions, "Maximum fuzzy matches")
	return cmd
}

func parseHymn(raw string) (int, error) {
	hymn, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || hymn <= 0 {
		return 0, fmt.Errorf("invalid hymn number %q", raw)
	}
	return hymn, nil
}
