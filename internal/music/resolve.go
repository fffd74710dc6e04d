package music

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// QualityTiers lists the fallback chain from highest to lowest.
var QualityTiers = []string{"flac24bit", "flac", "320k", "128k"}

// ErrTierExhausted marks a resolution walk that found no usable tier.
var ErrTierExhausted = errors.New("music: no quality tier available")

func tierIndex(quality string) int {
	for i, tier := range QualityTiers {
		if tier == quality {
			return i
		}
	}
	return -1
}

// ResolveAudio resolves a playable URL for songID at the requested quality,
// walking the tier list downward when a tier is unavailable or its payload
// exceeds the configured size ceiling. skipSizeCheck disables the size
// trigger (used when a large-file upload path is available); availability
// fallback applies regardless.
//
// The walk is strictly sequential and never returns a tier higher than the
// one requested.
func (s *Service) ResolveAudio(ctx context.Context, platform, songID, quality string, skipSizeCheck bool) AudioResolution {
	requested := strings.ToLower(strings.TrimSpace(quality))
	start := tierIndex(requested)
	if start < 0 {
		requested = s.cfg.DefaultQuality
		if start = tierIndex(requested); start < 0 {
			start = tierIndex("320k")
		}
	}

	ceiling := s.cfg.MaxFileSizeBytes()
	var last AudioResolution
	for i := start; i < len(QualityTiers); i++ {
		tier := QualityTiers[i]
		result := s.resolveTier(ctx, platform, songID, tier)
		result.RequestedQuality = requested

		if result.Success {
			if !skipSizeCheck && ceiling > 0 && result.Size > ceiling {
				s.logger.Info("resolved audio exceeds size ceiling",
					slog.String("platform", platform),
					slog.String("tier", tier),
					slog.Int64("size", result.Size))
				result.Success = false
				result.Error = "file size exceeds limit"
				last = result
				continue
			}
			result.Downgraded = result.ActualQuality != requested
			return result
		}

		s.logger.Info("quality tier unavailable",
			slog.String("platform", platform),
			slog.String("tier", tier),
			slog.String("error", result.Error))
		last = result
	}
	if last.Error == "" {
		last.Error = ErrTierExhausted.Error()
	}
	return last
}

// resolveTier issues one resolve call for a single tier via the parse
// endpoint.
func (s *Service) resolveTier(ctx context.Context, platform, songID, tier string) AudioResolution {
	songs, err := s.hub.Parse(ctx, platform, []string{songID}, tier)
	if err != nil {
		return AudioResolution{ActualQuality: tier, Error: err.Error()}
	}
	song := songs[0]
	if !song.Success || song.URL == "" {
		message := song.Error
		if message == "" {
			message = "quality unavailable"
		}
		return AudioResolution{ActualQuality: tier, Error: message}
	}

	actual := song.ActualQuality
	if actual == "" {
		actual = tier
	}
	size := song.FileSize
	if size <= 0 {
		size = s.headContentLength(ctx, song.URL)
	}
	return AudioResolution{
		Success:       true,
		URL:           song.URL,
		Size:          size,
		ActualQuality: actual,
		Info:          song.Info,
		Cover:         song.Cover,
		Lyrics:        song.Lyrics,
		Expire:        song.Expire,
	}
}
