package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GLH08/TuneBot/internal/format"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var offset int
	var plain bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show download history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			entries, err := db.History(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No downloads yet.")
				return nil
			}

			if plain {
				for i, entry := range entries {
					fmt.Fprintln(cmd.OutOrStdout(), format.HistoryLine(
						offset+i+1, entry.Name, entry.Artist, entry.Quality))
				}
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				downloaded := ""
				if !entry.DownloadedAt.IsZero() {
					downloaded = entry.DownloadedAt.Local().Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{
					strconv.Itoa(offset + i + 1),
					entry.Name,
					entry.Artist,
					entry.Quality,
					cfg.PlatformName(entry.Platform),
					downloaded,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Title", "Artist", "Quality", "Platform", "Downloaded"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Rows to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	cmd.Flags().BoolVar(&plain, "plain", false, "Numbered lines instead of a table")
	return cmd
}
