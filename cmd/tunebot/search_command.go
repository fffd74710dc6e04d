package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GLH08/TuneBot/internal/format"
	"github.com/GLH08/TuneBot/internal/music"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var platform string
	var page int
	var limit int
	var plain bool

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search songs across the configured platforms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			keyword := strings.Join(args, " ")
			var results []music.SearchResult
			if platform != "" {
				results = service.Search(cmd.Context(), strings.ToLower(platform), keyword, page, limit)
			} else {
				results = service.AggregateSearch(cmd.Context(), keyword)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results.")
				return nil
			}

			if plain {
				for i, result := range results {
					fmt.Fprintln(cmd.OutOrStdout(), format.SearchLine(
						i+1, result.Name, result.Artist, cfg.PlatformName(result.Platform)))
				}
				return nil
			}

			rows := make([][]string, 0, len(results))
			for i, result := range results {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					result.Name,
					result.Artist,
					result.Album,
					cfg.PlatformName(result.Platform),
					result.ID,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Title", "Artist", "Album", "Platform", "ID"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Search a single platform instead of all")
	cmd.Flags().IntVar(&page, "page", 1, "Result page (single-platform search)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Results per page (single-platform search)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Numbered lines instead of a table")
	return cmd
}
