package format

import (
	"fmt"
	"strings"
)

const (
	unknownName   = "未知歌曲"
	unknownArtist = "未知歌手"
)

// FileSize renders a byte count in the unit a listener expects for audio
// payloads.
func FileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%dB", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
	}
}

// Caption describes a resolved song for display.
type Caption struct {
	Name     string
	Artist   string
	Album    string
	Quality  string
	Size     int64
	Platform string
	Switched string
}

// String renders the multi-line description attached to a delivered song.
func (c Caption) String() string {
	name := c.Name
	if name == "" {
		name = unknownName
	}
	artist := c.Artist
	if artist == "" {
		artist = unknownArtist
	}

	lines := []string{fmt.Sprintf("🎵 %s - %s", name, artist)}
	if c.Album != "" {
		lines = append(lines, "💿 "+c.Album)
	}

	var meta []string
	if c.Quality != "" {
		meta = append(meta, "🎧 "+c.Quality)
	}
	if c.Size > 0 {
		meta = append(meta, "📦 "+FileSize(c.Size))
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, " | "))
	}

	if c.Switched != "" {
		lines = append(lines, "🔄 "+c.Switched)
	} else if c.Platform != "" {
		lines = append(lines, "📍 "+c.Platform)
	}
	return strings.Join(lines, "\n")
}

// SearchLine renders one numbered search result row.
func SearchLine(index int, name, artist, platform string) string {
	if name == "" {
		name = unknownName
	}
	if artist == "" {
		artist = unknownArtist
	}
	return fmt.Sprintf("%d. %s - %s [%s]", index, name, artist, platform)
}

// HistoryLine renders one numbered download-history row.
func HistoryLine(index int, name, artist, quality string) string {
	if name == "" {
		name = unknownName
	}
	if artist == "" {
		artist = unknownArtist
	}
	return fmt.Sprintf("%d. %s - %s (%s)", index, name, artist, quality)
}

// ToplistLine renders one numbered chart row.
func ToplistLine(index int, name, updateFrequency string) string {
	if updateFrequency != "" {
		return fmt.Sprintf("%d. %s (%s)", index, name, updateFrequency)
	}
	return fmt.Sprintf("%d. %s", index, name)
}
