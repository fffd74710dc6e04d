package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SongInfo carries the display metadata attached to a parsed song.
type SongInfo struct {
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"`
}

// ParsedSong is one row of a /v1/parse response.
type ParsedSong struct {
	ID            string   `json:"id"`
	Success       bool     `json:"success"`
	Info          SongInfo `json:"info"`
	URL           string   `json:"url"`
	Cover         string   `json:"cover"`
	Lyrics        string   `json:"lyrics"`
	FileSize      int64    `json:"fileSize"`
	ActualQuality string   `json:"actualQuality"`
	WasDowngraded bool     `json:"wasDowngraded"`
	Expire        int64    `json:"expire"`
	Error         string   `json:"error"`
}

type parseRequest struct {
	Platform string `json:"platform"`
	IDs      string `json:"ids"`
	Quality  string `json:"quality"`
}

type parseData struct {
	Data  []ParsedSong `json:"data"`
	Error string       `json:"error"`
}

// Parse resolves playable URLs and metadata for the given song IDs at the
// requested quality tier.
func (c *Client) Parse(ctx context.Context, platform string, ids []string, quality string) ([]ParsedSong, error) {
	if len(ids) == 0 {
		return nil, errors.New("hub: parse requires at least one id")
	}
	endpoint := c.baseURL.JoinPath("v1", "parse")
	env, err := c.postJSON(ctx, endpoint, parseRequest{
		Platform: platform,
		IDs:      strings.Join(ids, ","),
		Quality:  quality,
	})
	if err != nil {
		return nil, err
	}
	var data parseData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("hub: decode parse response: %w", err)
	}
	if len(data.Data) == 0 {
		if data.Error != "" {
			return nil, fmt.Errorf("hub: parse failed: %s", data.Error)
		}
		return nil, errors.New("hub: parse returned no songs")
	}
	return data.Data, nil
}
