package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/GLH08/TuneBot/internal/download"
	"github.com/GLH08/TuneBot/internal/format"
	"github.com/GLH08/TuneBot/internal/music"
	"github.com/GLH08/TuneBot/internal/store"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	var quality string
	var outputDir string
	var skipSizeCheck bool
	var force bool
	var withCover bool

	cmd := &cobra.Command{
		Use:   "get <platform> <song-id>",
		Short: "Resolve and download one song",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := strings.ToLower(args[0])
			songID := args[1]

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			service, err := ctx.ensureService()
			if err != nil {
				return err
			}
			db, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				if prior, err := db.FindHistoryBySong(cmd.Context(), platform, songID); err == nil && prior != nil {
					if _, statErr := os.Stat(prior.FilePath); statErr == nil {
						fmt.Fprintf(out, "Already downloaded: %s (use --force to re-download)\n", prior.FilePath)
						return nil
					}
				}
			}

			if quality == "" {
				quality = cfg.DefaultQuality
			}
			resolution := service.ResolveAudio(cmd.Context(), platform, songID, quality, skipSizeCheck)
			if !resolution.Success {
				if resolution.Error != "" {
					return fmt.Errorf("resolve %s/%s: %s", platform, songID, resolution.Error)
				}
				return fmt.Errorf("resolve %s/%s: no playable source", platform, songID)
			}
			if resolution.Downgraded {
				fmt.Fprintf(out, "Requested %s unavailable, using %s\n",
					resolution.RequestedQuality, resolution.ActualQuality)
			}

			payload := service.DownloadAudio(cmd.Context(), resolution.URL, progressPrinter(out, resolution.Size))
			if len(payload) == 0 {
				return errors.New("download failed")
			}

			dir := outputDir
			if dir == "" {
				dir = cfg.Download.Dir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create download directory: %w", err)
			}
			target := filepath.Join(dir, songFileName(resolution))
			if err := os.WriteFile(target, payload, 0o644); err != nil {
				return fmt.Errorf("write audio file: %w", err)
			}

			if withCover && resolution.Cover != "" {
				if art := service.DownloadBytes(cmd.Context(), resolution.Cover); len(art) > 0 {
					coverPath := strings.TrimSuffix(target, filepath.Ext(target)) + ".jpg"
					if err := os.WriteFile(coverPath, art, 0o644); err == nil {
						fmt.Fprintf(out, "Cover saved to %s\n", coverPath)
					}
				}
			}

			if _, err := db.AddHistory(cmd.Context(), store.HistoryEntry{
				Platform: platform,
				SongID:   songID,
				Name:     resolution.Info.Name,
				Artist:   resolution.Info.Artist,
				Album:    resolution.Info.Album,
				Quality:  resolution.ActualQuality,
				FilePath: target,
			}); err != nil {
				return fmt.Errorf("record history: %w", err)
			}

			caption := format.Caption{
				Name:     resolution.Info.Name,
				Artist:   resolution.Info.Artist,
				Album:    resolution.Info.Album,
				Quality:  resolution.ActualQuality,
				Size:     int64(len(payload)),
				Platform: cfg.PlatformName(platform),
			}
			if resolution.Downgraded {
				caption.Switched = fmt.Sprintf("%s downgraded from %s",
					cfg.PlatformName(platform), resolution.RequestedQuality)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, caption.String())
			if tags := format.Hashtags(resolution.Info.Name, resolution.Info.Artist, resolution.Info.Album, platform); tags != "" {
				fmt.Fprintln(out, tags)
			}
			fmt.Fprintf(out, "Saved to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&quality, "quality", "q", "", "Quality tier: flac24bit, flac, 320k, 128k")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Download directory (default from config)")
	cmd.Flags().BoolVar(&skipSizeCheck, "skip-size-check", false, "Ignore the configured file size ceiling")
	cmd.Flags().BoolVar(&force, "force", false, "Re-download even if the song is in history")
	cmd.Flags().BoolVar(&withCover, "cover", false, "Also download the album cover")
	return cmd
}

// progressPrinter reports download progress in place on a terminal and stays
// quiet otherwise.
func progressPrinter(out io.Writer, total int64) download.Progress {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil
	}
	return func(downloaded, expected int64) {
		if expected <= 0 {
			expected = total
		}
		if expected > 0 {
			fmt.Fprintf(out, "\rDownloading... %s / %s (%d%%)",
				format.FileSize(downloaded), format.FileSize(expected), downloaded*100/expected)
			return
		}
		fmt.Fprintf(out, "\rDownloading... %s", format.FileSize(downloaded))
	}
}

// songFileName derives a safe file name from the resolved metadata.
func songFileName(resolution music.AudioResolution) string {
	name := resolution.Info.Name
	if name == "" {
		name = "song"
	}
	base := name
	if resolution.Info.Artist != "" {
		base = name + " - " + resolution.Info.Artist
	}
	base = sanitizeFileName(base)

	ext := ".mp3"
	if strings.HasPrefix(resolution.ActualQuality, "flac") {
		ext = ".flac"
	}
	return base + ext
}

func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		return "song"
	}
	return cleaned
}
