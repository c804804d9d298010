package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestReadStats(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mbmerge.db")
	db, err := OpenAndMigrate(ctx, path)
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx,
		`INSERT INTO album_bans (artist_id, url, created_at) VALUES ('a', 'u1', 0), ('a', 'u2', 0)`); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	st, err := ReadStats(ctx, db, path)
	if err != nil {
		t.Fatalf("ReadStats: %v", err)
	}
	if st.FileSize == 0 || st.PageSize == 0 || st.PageCount == 0 {
		t.Errorf("sizes = %+v", st)
	}
	if st.SchemaVersion != 1 {
		t.Errorf("schema version = %d", st.SchemaVersion)
	}
	if st.Rows["album_bans"] != 2 || st.Rows["url_identifiers"] != 0 {
		t.Errorf("rows = %v", st.Rows)
	}
}

func TestOptimizeAndVacuum(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mbmerge.db")
	db, err := OpenAndMigrate(ctx, path)
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	defer db.Close()

	if err := Vacuum(ctx, db); err != nil {
		t.Errorf("Vacuum: %v", err)
	}
	if err := Optimize(ctx, db); err != nil {
		t.Errorf("Optimize: %v", err)
	}
	st, err := ReadStats(ctx, db, path)
	if err != nil {
		t.Fatalf("ReadStats: %v", err)
	}
	if st.WALFileSize != 0 {
		t.Errorf("WAL not truncated: %d bytes", st.WALFileSize)
	}
}
