package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// HistoryEntry records one completed download.
type HistoryEntry struct {
	ID           int64
	Platform     string
	SongID       string
	Name         string
	Artist       string
	Album        string
	Quality      string
	FilePath     string
	DownloadedAt time.Time
}

// AddHistory records a completed download and returns the new entry's ID.
func (s *Store) AddHistory(ctx context.Context, entry HistoryEntry) (int64, error) {
	if entry.Platform == "" || entry.SongID == "" {
		return 0, errors.New("history entry requires platform and song id")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO history (platform, song_id, name, artist, album, quality, file_path, downloaded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Platform, entry.SongID, entry.Name, entry.Artist, entry.Album,
		entry.Quality, entry.FilePath, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// History returns download records, most recent first.
func (s *Store) History(ctx context.Context, limit, offset int) ([]HistoryEntry, error) {
	ctx = ensureContext(ctx)
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, platform, song_id, name, artist, album, quality, file_path, downloaded_at
         FROM history ORDER BY downloaded_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// HistoryCount returns the number of download records.
func (s *Store) HistoryCount(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&count); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

// HistoryByID returns one download record, or nil when the ID is unknown.
func (s *Store) HistoryByID(ctx context.Context, id int64) (*HistoryEntry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, platform, song_id, name, artist, album, quality, file_path, downloaded_at
         FROM history WHERE id = ?`, id)
	entry, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindHistoryBySong returns the latest download record for a song that still
// carries a file path, for reuse without re-downloading. Returns nil when no
// such record exists.
func (s *Store) FindHistoryBySong(ctx context.Context, platform, songID string) (*HistoryEntry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, platform, song_id, name, artist, album, quality, file_path, downloaded_at
         FROM history
         WHERE platform = ? AND song_id = ? AND file_path IS NOT NULL AND file_path != ''
         ORDER BY downloaded_at DESC, id DESC LIMIT 1`,
		platform, songID)
	entry, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (HistoryEntry, error) {
	var (
		entry        HistoryEntry
		downloadedAt string
	)
	err := row.Scan(&entry.ID, &entry.Platform, &entry.SongID, &entry.Name, &entry.Artist,
		&entry.Album, &entry.Quality, &entry.FilePath, &downloadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return HistoryEntry{}, err
	}
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("scan history: %w", err)
	}
	entry.DownloadedAt = parseTimestamp(downloadedAt)
	return entry, nil
}
