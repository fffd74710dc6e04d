package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Favorite is one saved song.
type Favorite struct {
	ID       int64
	Platform string
	SongID   string
	Name     string
	Artist   string
	Album    string
	AddedAt  time.Time
}

// AddFavorite saves a song, reporting whether it was newly added. Adding a
// song that is already saved is not an error.
func (s *Store) AddFavorite(ctx context.Context, platform, songID, name, artist, album string) (bool, error) {
	if platform == "" || songID == "" {
		return false, errors.New("favorite requires platform and song id")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT OR IGNORE INTO favorites (platform, song_id, name, artist, album, added_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		platform, songID, name, artist, album, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RemoveFavorite deletes a saved song, reporting whether it existed.
func (s *Store) RemoveFavorite(ctx context.Context, platform, songID string) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		"DELETE FROM favorites WHERE platform = ? AND song_id = ?",
		platform, songID,
	)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// IsFavorite reports whether a song is saved.
func (s *Store) IsFavorite(ctx context.Context, platform, songID string) (bool, error) {
	ctx = ensureContext(ctx)
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM favorites WHERE platform = ? AND song_id = ?",
		platform, songID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query favorite: %w", err)
	}
	return true, nil
}

// Favorites returns saved songs, most recently added first.
func (s *Store) Favorites(ctx context.Context, limit, offset int) ([]Favorite, error) {
	ctx = ensureContext(ctx)
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, platform, song_id, name, artist, album, added_at
         FROM favorites ORDER BY added_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var (
			fav     Favorite
			addedAt string
		)
		if err := rows.Scan(&fav.ID, &fav.Platform, &fav.SongID, &fav.Name, &fav.Artist, &fav.Album, &addedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		fav.AddedAt = parseTimestamp(addedAt)
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favorites, nil
}

// FavoriteCount returns the number of saved songs.
func (s *Store) FavoriteCount(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM favorites").Scan(&count); err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
