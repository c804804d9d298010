package curation

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/sydlexius/mbmerge/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(context.Background(), database.Memory)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBanStore(t *testing.T) {
	ctx := context.Background()
	s := NewBanStore(newTestDB(t))
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	for _, ban := range [][2]string{
		{"artist-1", "https://www.deezer.com/album/2"},
		{"artist-1", "https://www.deezer.com/album/1"},
		{"artist-1", "https://www.deezer.com/album/2"},
		{"artist-2", "https://www.discogs.com/release/9"},
	} {
		if err := s.Add(ctx, ban[0], ban[1]); err != nil {
			t.Fatalf("Add %v: %v", ban, err)
		}
	}

	urls, err := s.URLs(ctx, "artist-1")
	if err != nil {
		t.Fatalf("URLs: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://www.deezer.com/album/2" {
		t.Errorf("urls = %v, want oldest first without duplicates", urls)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 || all[2].ArtistID != "artist-2" {
		t.Errorf("all = %+v", all)
	}
	if all[0].CreatedAt.IsZero() {
		t.Error("expected created at to be set")
	}

	removed, err := s.Remove(ctx, "artist-1", "https://www.deezer.com/album/1")
	if err != nil || !removed {
		t.Errorf("Remove = %v, %v", removed, err)
	}
	removed, err = s.Remove(ctx, "artist-1", "https://www.deezer.com/album/1")
	if err != nil || removed {
		t.Errorf("second Remove = %v, %v", removed, err)
	}

	if urls, _ := s.URLs(ctx, "nobody"); len(urls) != 0 {
		t.Errorf("unknown artist urls = %v", urls)
	}
}
