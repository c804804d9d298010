package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DefaultMaxAge is how long a cached URL answer stays valid.
const DefaultMaxAge = 7 * 24 * time.Hour

// Store persists URL to identifier answers in SQLite. A row with a NULL
// identifier records that the URL resolves to nothing.
type Store struct {
	db     *sql.DB
	maxAge time.Duration
	now    func() time.Time
}

// NewStore creates a Store over a migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, maxAge: DefaultMaxAge, now: time.Now}
}

// Get returns the cached answer for url. ok is false when nothing fresh is
// cached; a fresh negative answer returns an empty id with ok true.
func (s *Store) Get(ctx context.Context, url string) (id string, ok bool, err error) {
	var (
		ident     sql.NullString
		fetchedAt int64
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT identifier, fetched_at FROM url_identifiers WHERE url = ?`, url,
	).Scan(&ident, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cached identifier: %w", err)
	}
	if s.now().Sub(time.Unix(fetchedAt, 0)) > s.maxAge {
		return "", false, nil
	}
	return ident.String, true, nil
}

// Put records the answer for url. An empty id stores a negative answer.
func (s *Store) Put(ctx context.Context, url, id string) error {
	ident := sql.NullString{String: id, Valid: id != ""}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO url_identifiers (url, identifier, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET identifier = excluded.identifier, fetched_at = excluded.fetched_at`,
		url, ident, s.now().Unix())
	if err != nil {
		return fmt.Errorf("caching identifier: %w", err)
	}
	return nil
}

// Prune deletes expired answers and returns how many were removed.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.maxAge).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM url_identifiers WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning identifiers: %w", err)
	}
	return res.RowsAffected()
}
