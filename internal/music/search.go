package music

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/GLH08/TuneBot/internal/script"
)

const (
	defaultSearchPage  = 1
	defaultSearchLimit = 20
)

// Search runs one platform's search operation. Failures yield an empty slice.
func (s *Service) Search(ctx context.Context, platform, keyword string, page, limit int) []SearchResult {
	keyword = norm.NFC.String(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	if page < 1 {
		page = defaultSearchPage
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}

	records := s.execute(ctx, platform, "search", script.Variables{
		"keyword": keyword,
		"page":    page,
		"limit":   limit,
	})
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

// AggregateSearch fans the search out across all configured platforms
// concurrently. A failing platform never affects the others; the merged list
// follows platform declaration order and is deduplicated by (platform, id),
// first occurrence winning.
func (s *Service) AggregateSearch(ctx context.Context, keyword string) []SearchResult {
	platforms := s.cfg.PlatformCodes()
	branches := make([][]SearchResult, len(platforms))

	var wg sync.WaitGroup
	for i, platform := range platforms {
		wg.Add(1)
		go func(i int, platform string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Warn("platform search panicked",
						slog.String("platform", platform),
						slog.Any("panic", r))
				}
			}()
			branches[i] = s.Search(ctx, platform, keyword, defaultSearchPage, defaultSearchLimit)
		}(i, platform)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var merged []SearchResult
	for _, branch := range branches {
		for _, result := range branch {
			key := result.Platform + "\x00" + result.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, result)
		}
	}
	return merged
}
