package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GLH08/TuneBot/internal/format"
)

func newFavCommand(ctx *commandContext) *cobra.Command {
	favCmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage saved songs",
	}
	favCmd.AddCommand(newFavAddCommand(ctx))
	favCmd.AddCommand(newFavRemoveCommand(ctx))
	favCmd.AddCommand(newFavListCommand(ctx))
	return favCmd
}

func newFavAddCommand(ctx *commandContext) *cobra.Command {
	var name string
	var artist string
	var album string

	cmd := &cobra.Command{
		Use:   "add <platform> <song-id>",
		Short: "Save a song to favorites",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			platform := strings.ToLower(args[0])
			songID := args[1]

			if name == "" {
				// Fill in metadata from the service when not supplied.
				if service, err := ctx.ensureService(); err == nil {
					resolution := service.ResolveAudio(cmd.Context(), platform, songID, "128k", true)
					if resolution.Success {
						name = resolution.Info.Name
						artist = resolution.Info.Artist
						album = resolution.Info.Album
					}
				}
			}

			added, err := db.AddFavorite(cmd.Context(), platform, songID, name, artist, album)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintln(cmd.OutOrStdout(), "Already in favorites.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Song title (resolved automatically when omitted)")
	cmd.Flags().StringVar(&artist, "artist", "", "Artist")
	cmd.Flags().StringVar(&album, "album", "", "Album")
	return cmd
}

func newFavRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <platform> <song-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a song from favorites",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			removed, err := db.RemoveFavorite(cmd.Context(), strings.ToLower(args[0]), args[1])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Not in favorites.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
			return nil
		},
	}
}

func newFavListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var offset int
	var plain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved songs",
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

			favorites, err := db.Favorites(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if len(favorites) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No favorites yet.")
				return nil
			}

			if plain {
				for i, fav := range favorites {
					fmt.Fprintln(cmd.OutOrStdout(), format.SearchLine(
						offset+i+1, fav.Name, fav.Artist, cfg.PlatformName(fav.Platform)))
				}
				return nil
			}

			rows := make([][]string, 0, len(favorites))
			for i, fav := range favorites {
				rows = append(rows, []string{
					strconv.Itoa(offset + i + 1),
					fav.Name,
					fav.Artist,
					cfg.PlatformName(fav.Platform),
					fav.SongID,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Title", "Artist", "Platform", "ID"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))

			total, err := db.FavoriteCount(cmd.Context())
			if err == nil && total > len(favorites) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d favorites shown\n", len(favorites), total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Rows to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	cmd.Flags().BoolVar(&plain, "plain", false, "Numbered lines instead of a table")
	return cmd
}
