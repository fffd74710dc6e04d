package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/GLH08/TuneBot/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = dir
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Download.Dir = filepath.Join(dir, "music")

	s, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddFavoriteIgnoresDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.AddFavorite(ctx, "netease", "42", "Song", "Artist", "Album")
	if err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if !added {
		t.Fatal("first add must report newly added")
	}

	added, err = s.AddFavorite(ctx, "netease", "42", "Song", "Artist", "Album")
	if err != nil {
		t.Fatalf("duplicate AddFavorite failed: %v", err)
	}
	if added {
		t.Fatal("duplicate add must not report newly added")
	}

	count, err := s.FavoriteCount(ctx)
	if err != nil {
		t.Fatalf("FavoriteCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 favorite, got %d", count)
	}
}

func TestFavoriteLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddFavorite(ctx, "kuwo", "7", "Song", "Artist", ""); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}

	saved, err := s.IsFavorite(ctx, "kuwo", "7")
	if err != nil {
		t.Fatalf("IsFavorite failed: %v", err)
	}
	if !saved {
		t.Fatal("expected song to be saved")
	}

	removed, err := s.RemoveFavorite(ctx, "kuwo", "7")
	if err != nil {
		t.Fatalf("RemoveFavorite failed: %v", err)
	}
	if !removed {
		t.Fatal("remove must report the row existed")
	}

	saved, err = s.IsFavorite(ctx, "kuwo", "7")
	if err != nil {
		t.Fatalf("IsFavorite after remove failed: %v", err)
	}
	if saved {
		t.Fatal("song must be gone after removal")
	}

	removed, err = s.RemoveFavorite(ctx, "kuwo", "7")
	if err != nil {
		t.Fatalf("second RemoveFavorite failed: %v", err)
	}
	if removed {
		t.Fatal("removing a missing row must report false")
	}
}

func TestFavoritesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		if _, err := s.AddFavorite(ctx, "netease", id, "Song "+id, "Artist", ""); err != nil {
			t.Fatalf("AddFavorite %s failed: %v", id, err)
		}
	}

	favorites, err := s.Favorites(ctx, 2, 0)
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if len(favorites) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(favorites))
	}
	if favorites[0].SongID != "3" || favorites[1].SongID != "2" {
		t.Fatalf("expected newest first, got %q then %q", favorites[0].SongID, favorites[1].SongID)
	}

	favorites, err = s.Favorites(ctx, 2, 2)
	if err != nil {
		t.Fatalf("Favorites offset failed: %v", err)
	}
	if len(favorites) != 1 || favorites[0].SongID != "1" {
		t.Fatalf("unexpected offset page: %+v", favorites)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddHistory(ctx, HistoryEntry{
		Platform: "qq",
		SongID:   "9",
		Name:     "Song",
		Artist:   "Artist",
		Quality:  "320k",
		FilePath: "/music/song.mp3",
	})
	if err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive history id, got %d", id)
	}

	entry, err := s.HistoryByID(ctx, id)
	if err != nil {
		t.Fatalf("HistoryByID failed: %v", err)
	}
	if entry == nil || entry.SongID != "9" || entry.Quality != "320k" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.DownloadedAt.IsZero() {
		t.Fatal("downloaded_at must be set")
	}

	missing, err := s.HistoryByID(ctx, id+1000)
	if err != nil {
		t.Fatalf("HistoryByID for missing id failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestFindHistoryBySongSkipsEntriesWithoutFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddHistory(ctx, HistoryEntry{Platform: "netease", SongID: "5", Quality: "128k"}); err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}
	if _, err := s.AddHistory(ctx, HistoryEntry{Platform: "netease", SongID: "5", Quality: "320k", FilePath: "/music/a.mp3"}); err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}

	entry, err := s.FindHistoryBySong(ctx, "netease", "5")
	if err != nil {
		t.Fatalf("FindHistoryBySong failed: %v", err)
	}
	if entry == nil || entry.FilePath != "/music/a.mp3" {
		t.Fatalf("expected the entry with a file path, got %+v", entry)
	}

	entry, err = s.FindHistoryBySong(ctx, "netease", "404")
	if err != nil {
		t.Fatalf("FindHistoryBySong for unknown song failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil for unknown song, got %+v", entry)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.AddHistory(ctx, HistoryEntry{Platform: "kuwo", SongID: id}); err != nil {
			t.Fatalf("AddHistory %s failed: %v", id, err)
		}
	}

	entries, err := s.History(ctx, 10, 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].SongID != "c" || entries[2].SongID != "a" {
		t.Fatalf("expected newest first, got %+v", entries)
	}

	count, err := s.HistoryCount(ctx)
	if err != nil {
		t.Fatalf("HistoryCount failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestOpenRefusesLockedDataDir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = dir
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Download.Dir = filepath.Join(dir, "music")

	first, err := Open(&cfg)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	defer first.Close()

	if _, err := Open(&cfg); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
