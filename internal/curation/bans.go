package curation

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Ban is an album URL the curator never wants offered again for an artist.
type Ban struct {
	ArtistID  string    `json:"artist_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// BanStore persists album bans per registry artist.
type BanStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewBanStore creates a BanStore over a migrated database.
func NewBanStore(db *sql.DB) *BanStore {
	return &BanStore{db: db, now: time.Now}
}

// Add bans url for the artist. Banning the same URL twice is not an error.
func (s *BanStore) Add(ctx context.Context, artistID, url string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO album_bans (artist_id, url, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(artist_id, url) DO NOTHING`,
		artistID, url, s.now().Unix())
	if err != nil {
		return fmt.Errorf("adding ban: %w", err)
	}
	return nil
}

// Remove lifts a ban. It reports whether the ban existed.
func (s *BanStore) Remove(ctx context.Context, artistID, url string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM album_bans WHERE artist_id = ? AND url = ?`, artistID, url)
	if err != nil {
		return false, fmt.Errorf("removing ban: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("removing ban: %w", err)
	}
	return n > 0, nil
}

// URLs returns the banned URLs of one artist, oldest first.
func (s *BanStore) URLs(ctx context.Context, artistID string) ([]string, error) {
	bans, err := s.list(ctx, `WHERE artist_id = ?`, artistID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(bans))
	for i, b := range bans {
		urls[i] = b.URL
	}
	return urls, nil
}

// All returns every ban, grouped by artist.
func (s *BanStore) All(ctx context.Context) ([]Ban, error) {
	return s.list(ctx, "")
}

func (s *BanStore) list(ctx context.Context, where string, args ...any) ([]Ban, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT artist_id, url, created_at FROM album_bans `+where+
			` ORDER BY artist_id, created_at, url`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bans: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var bans []Ban
	for rows.Next() {
		var (
			b       Ban
			created int64
		)
		if err := rows.Scan(&b.ArtistID, &b.URL, &created); err != nil {
			return nil, fmt.Errorf("scanning ban: %w", err)
		}
		b.CreatedAt = time.Unix(created, 0).UTC()
		bans = append(bans, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing bans: %w", err)
	}
	return bans, nil
}
