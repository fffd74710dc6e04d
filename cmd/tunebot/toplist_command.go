package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GLH08/TuneBot/internal/format"
	"github.com/GLH08/TuneBot/internal/music"
)

func newToplistCommand(ctx *commandContext) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "toplist <platform> [chart-id]",
		Short: "List a platform's charts, or the songs on one chart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService()
			if err != nil {
				return err
			}
			platform := strings.ToLower(args[0])

			if len(args) == 1 {
				charts := service.Toplists(cmd.Context(), platform)
				if len(charts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No charts available.")
					return nil
				}
				if plain {
					for i, chart := range charts {
						fmt.Fprintln(cmd.OutOrStdout(), format.ToplistLine(i+1, chart.Name, chart.UpdateFrequency))
					}
					return nil
				}
				rows := make([][]string, 0, len(charts))
				for i, chart := range charts {
					rows = append(rows, []string{
						strconv.Itoa(i + 1), chart.Name, chart.UpdateFrequency, chart.ID,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Chart", "Updates", "ID"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			}

			return printSongList(cmd, ctx, platform,
				service.ToplistSongs(cmd.Context(), platform, args[1]), plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Numbered lines instead of a table")
	return cmd
}

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "playlist <platform> <playlist-id>",
		Short: "List the songs of a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService()
			if err != nil {
				return err
			}
			platform := strings.ToLower(args[0])
			return printSongList(cmd, ctx, platform,
				service.Playlist(cmd.Context(), platform, args[1]), plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Numbered lines instead of a table")
	return cmd
}

func printSongList(cmd *cobra.Command, ctx *commandContext, platform string, songs []music.SearchResult, plain bool) error {
	if len(songs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No songs found.")
		return nil
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if plain {
		for i, song := range songs {
			fmt.Fprintln(cmd.OutOrStdout(), format.SearchLine(
				i+1, song.Name, song.Artist, cfg.PlatformName(platform)))
		}
		return nil
	}
	rows := make([][]string, 0, len(songs))
	for i, song := range songs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), song.Name, song.Artist, song.Album,
			cfg.PlatformName(platform), song.ID,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "Title", "Artist", "Album", "Platform", "ID"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}
