package music

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GLH08/TuneBot/internal/config"
	"github.com/GLH08/TuneBot/internal/download"
	"github.com/GLH08/TuneBot/internal/hub"
	"github.com/GLH08/TuneBot/internal/logging"
	"github.com/GLH08/TuneBot/internal/script"
)

func newTestService(t *testing.T, baseURL string, platforms ...string) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Hub.BaseURL = baseURL
	if len(platforms) > 0 {
		cfg.Platforms = nil
		for _, code := range platforms {
			cfg.Platforms = append(cfg.Platforms, config.Platform{Code: code, Name: code})
		}
	}

	hubClient, err := hub.New(hub.Config{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("hub.New failed: %v", err)
	}
	expander := script.NewExpander(nil, time.Second)
	sandbox := script.NewSandbox(nil, time.Second)
	return &Service{
		cfg:         &cfg,
		logger:      logging.NewNop(),
		hub:         hubClient,
		descriptors: hub.NewCache(hubClient),
		executor:    hub.NewExecutor(hubClient.HTTPClient(), expander, sandbox, nil),
		downloader:  download.New(nil, download.WithSleeper(func(time.Duration) {})),
	}
}

// searchHub serves descriptors and upstream search endpoints for a set of
// platforms. Platforms listed in broken get a failing descriptor fetch.
func searchHub(t *testing.T, results map[string][]map[string]any, broken map[string]bool) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/methods/"):
			platform := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/methods/"), "/search")
			if broken[platform] {
				_ = json.NewEncoder(w).Encode(map[string]any{"code": 500, "message": "unavailable"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": 0,
				"data": map[string]any{
					"url_template":     server.URL + "/" + platform + "/search?kw={{keyword}}",
					"http_method":      "GET",
					"transform_script": "response.songs",
				},
			})
		case strings.HasSuffix(r.URL.Path, "/search"):
			platform := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/search")
			_ = json.NewEncoder(w).Encode(map[string]any{"songs": results[platform]})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return server
}

func TestSearchProjectsRecords(t *testing.T) {
	server := searchHub(t, map[string][]map[string]any{
		"netease": {
			{"id": "1", "name": "Song A", "artist": "Artist A", "album": "Album A"},
			{"id": float64(2)},
		},
	}, nil)
	defer server.Close()

	s := newTestService(t, server.URL, "netease")
	results := s.Search(context.Background(), "netease", "  query ", 0, 0)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "Song A" || results[0].Platform != "netease" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].ID != "2" || results[1].Name != unknownName || results[1].Artist != unknownArtist {
		t.Fatalf("expected defaults for sparse record, got %+v", results[1])
	}
}

func TestSearchEmptyKeywordReturnsNothing(t *testing.T) {
	s := newTestService(t, "https://hub.invalid", "netease")
	if got := s.Search(context.Background(), "netease", "   ", 1, 10); got != nil {
		t.Fatalf("expected nil results, got %v", got)
	}
}

func TestAggregateSearchMergesInPlatformOrder(t *testing.T) {
	server := searchHub(t, map[string][]map[string]any{
		"netease": {{"id": "n1", "name": "N1"}},
		"kuwo":    {{"id": "k1", "name": "K1"}, {"id": "k2", "name": "K2"}},
	}, nil)
	defer server.Close()

	s := newTestService(t, server.URL, "netease", "kuwo")
	results := s.AggregateSearch(context.Background(), "query")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	if results[0].Platform != "netease" || results[1].Platform != "kuwo" || results[2].ID != "k2" {
		t.Fatalf("merge order broken: %+v", results)
	}
}

func TestAggregateSearchToleratesPlatformFailure(t *testing.T) {
	server := searchHub(t, map[string][]map[string]any{
		"kuwo": {{"id": "k1", "name": "K1"}},
	}, map[string]bool{"netease": true})
	defer server.Close()

	s := newTestService(t, server.URL, "netease", "kuwo")
	results := s.AggregateSearch(context.Background(), "query")
	if len(results) != 1 || results[0].ID != "k1" {
		t.Fatalf("expected surviving platform results, got %+v", results)
	}
}

func TestAggregateSearchDeduplicatesByPlatformAndID(t *testing.T) {
	server := searchHub(t, map[string][]map[string]any{
		"netease": {
			{"id": "dup", "name": "First"},
			{"id": "dup", "name": "Second"},
			{"id": "other", "name": "Other"},
		},
		"kuwo": {{"id": "dup", "name": "Kuwo Dup"}},
	}, nil)
	defer server.Close()

	s := newTestService(t, server.URL, "netease", "kuwo")
	results := s.AggregateSearch(context.Background(), "query")
	if len(results) != 3 {
		t.Fatalf("expected 3 results after dedupe, got %d: %+v", len(results), results)
	}
	if results[0].Name != "First" {
		t.Fatal("first occurrence must win")
	}
	seen := make(map[string]bool)
	for _, r := range results {
		key := r.Platform + "/" + r.ID
		if seen[key] {
			t.Fatalf("duplicate (platform, id) pair: %s", key)
		}
		seen[key] = true
	}
}
