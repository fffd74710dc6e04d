package music

import (
	"context"

	"github.com/GLH08/TuneBot/internal/script"
)

// Toplists returns the charts a platform offers.
func (s *Service) Toplists(ctx context.Context, platform string) []ToplistItem {
	records := s.execute(ctx, platform, "toplists", nil)
	items := make([]ToplistItem, 0, len(records))
	for _, record := range records {
		item := toplistItemFromRecord(record)
		if item.ID == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// ToplistSongs returns the songs on one chart.
func (s *Service) ToplistSongs(ctx context.Context, platform, listID string) []SearchResult {
	return s.songList(ctx, platform, "toplist", listID)
}

// Playlist returns the songs of a user playlist.
func (s *Service) Playlist(ctx context.Context, platform, playlistID string) []SearchResult {
	return s.songList(ctx, platform, "playlist", playlistID)
}

func (s *Service) songList(ctx context.Context, platform, operation, id string) []SearchResult {
	if id == "" {
		return nil
	}
	records := s.execute(ctx, platform, operation, script.Variables{"id": id})
	results := make([]SearchResult, 0, len(records))
	for _, record := range records {
		result := searchResultFromRecord(record, platform)
		if result.ID == "" {
			continue
		}
		results = append(results, result)
	}
	return results
}

// FetchLyrics downloads the lyrics document behind a parse-supplied URL.
func (s *Service) FetchLyrics(ctx context.Context, url string) string {
	return string(s.DownloadBytes(ctx, url))
}

// Lyrics resolves a song at the lowest tier, which is enough to learn its
// lyrics URL, and returns the lyrics text. Empty string signals failure.
func (s *Service) Lyrics(ctx context.Context, platform, songID string) string {
	resolution := s.ResolveAudio(ctx, platform, songID, "128k", true)
	if resolution.Lyrics == "" {
		return ""
	}
	return s.FetchLyrics(ctx, resolution.Lyrics)
}
