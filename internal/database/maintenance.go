package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// countedTables are reported with their row counts in Stats.
var countedTables = []string{"url_identifiers", "album_bans"}

// Stats holds database size and content figures.
type Stats struct {
	FileSize      int64            `json:"file_size"`
	WALFileSize   int64            `json:"wal_file_size"`
	PageCount     int64            `json:"page_count"`
	PageSize      int64            `json:"page_size"`
	SchemaVersion int64            `json:"schema_version"`
	Rows          map[string]int64 `json:"rows"`
}

// ReadStats collects Stats for the database at dbPath.
func ReadStats(ctx context.Context, db *sql.DB, dbPath string) (*Stats, error) {
	st := &Stats{Rows: make(map[string]int64, len(countedTables))}

	if dbPath != Memory {
		if fi, err := os.Stat(dbPath); err == nil {
			st.FileSize = fi.Size()
		}
		if fi, err := os.Stat(dbPath + "-wal"); err == nil {
			st.WALFileSize = fi.Size()
		}
	}

	if err := db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&st.PageCount); err != nil {
		return nil, fmt.Errorf("reading page_count: %w", err)
	}
	if err := db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&st.PageSize); err != nil {
		return nil, fmt.Errorf("reading page_size: %w", err)
	}

	version, err := Version(ctx, db)
	if err != nil {
		return nil, err
	}
	st.SchemaVersion = version

	for _, table := range countedTables {
		var n int64
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil { //nolint:gosec // table names are constants
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		st.Rows[table] = n
	}
	return st, nil
}

// Optimize runs PRAGMA optimize followed by a WAL checkpoint.
func Optimize(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("PRAGMA optimize: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}

// Vacuum rebuilds the database file.
func Vacuum(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("VACUUM: %w", err)
	}
	return nil
}
