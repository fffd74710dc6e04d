package music

import (
	"strconv"

	"github.com/GLH08/TuneBot/internal/hub"
	"github.com/GLH08/TuneBot/internal/script"
)

// SearchResult is one row of an aggregated search.
type SearchResult struct {
	ID       string
	Name     string
	Artist   string
	Album    string
	Platform string
}

// ToplistItem is one chart entry offered by a platform.
type ToplistItem struct {
	ID              string
	Name            string
	Pic             string
	UpdateFrequency string
}

// AudioResolution is the outcome of quality resolution for one song.
type AudioResolution struct {
	Success          bool
	URL              string
	Size             int64
	RequestedQuality string
	ActualQuality    string
	Downgraded       bool
	Error            string

	Info   hub.SongInfo
	Cover  string
	Lyrics string
	Expire int64
}

const (
	unknownName   = "未知歌曲"
	unknownArtist = "未知歌手"
)

// recordString extracts a string field from a normalized record, converting
// scalar types and falling back to def when the field is absent or empty.
func recordString(record script.Record, key, def string) string {
	raw, ok := record[key]
	if !ok || raw == nil {
		return def
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return def
		}
		return v
	case float64:
		return trimFloat(v)
	case int64:
		return trimInt(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return def
	}
}

func trimFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func trimInt(v int64) string { return strconv.FormatInt(v, 10) }

func searchResultFromRecord(record script.Record, platform string) SearchResult {
	return SearchResult{
		ID:       recordString(record, "id", ""),
		Name:     recordString(record, "name", unknownName),
		Artist:   recordString(record, "artist", unknownArtist),
		Album:    recordString(record, "album", ""),
		Platform: platform,
	}
}

func toplistItemFromRecord(record script.Record) ToplistItem {
	return ToplistItem{
		ID:              recordString(record, "id", ""),
		Name:            recordString(record, "name", ""),
		Pic:             recordString(record, "pic", ""),
		UpdateFrequency: recordString(record, "updateFrequency", ""),
	}
}
