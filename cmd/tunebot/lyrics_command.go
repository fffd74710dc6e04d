package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLyricsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lyrics <platform> <song-id>",
		Short: "Fetch and print a song's lyrics",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService()
			if err != nil {
				return err
			}

			lyrics := service.Lyrics(cmd.Context(), strings.ToLower(args[0]), args[1])
			if strings.TrimSpace(lyrics) == "" {
				return errors.New("no lyrics available for this song")
			}
			fmt.Fprintln(cmd.OutOrStdout(), lyrics)
			return nil
		},
	}
	return cmd
}
