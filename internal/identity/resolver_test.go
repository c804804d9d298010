package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

// fakeLookup answers from a fixed table and counts calls per URL.
type fakeLookup struct {
	answers map[string]string
	err     error

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeLookup) LookupURL(_ context.Context, url string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[url]++
	if f.err != nil {
		return "", false, f.err
	}
	id, ok := f.answers[url]
	return id, ok, nil
}

func (f *fakeLookup) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolverRemoteAndMemo(t *testing.T) {
	ctx := context.Background()
	lookup := &fakeLookup{answers: map[string]string{"https://www.deezer.com/artist/9": "mbid-9"}}
	r := NewResolver(nil, lookup, discardLogger())

	for i := 0; i < 3; i++ {
		id, ok := r.ResolveIdentifier(ctx, "https://www.deezer.com/artist/9/")
		if !ok || id != "mbid-9" {
			t.Fatalf("resolve = %q, %v", id, ok)
		}
	}
	if n := lookup.count("https://www.deezer.com/artist/9"); n != 1 {
		t.Errorf("remote asked %d times, want 1", n)
	}
}

func TestResolverCachesNegativeAnswers(t *testing.T) {
	ctx := context.Background()
	lookup := &fakeLookup{}
	r := NewResolver(nil, lookup, discardLogger())

	for i := 0; i < 2; i++ {
		if _, ok := r.ResolveIdentifier(ctx, "https://example.bandcamp.com"); ok {
			t.Fatal("expected no identifier")
		}
	}
	if n := lookup.count("https://example.bandcamp.com"); n != 1 {
		t.Errorf("remote asked %d times, want 1", n)
	}
}

func TestResolverDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	lookup := &fakeLookup{err: errors.New("unavailable")}
	r := NewResolver(nil, lookup, discardLogger())

	r.ResolveIdentifier(ctx, "https://example.bandcamp.com")
	r.ResolveIdentifier(ctx, "https://example.bandcamp.com")
	if n := lookup.count("https://example.bandcamp.com"); n != 2 {
		t.Errorf("remote asked %d times, want 2", n)
	}
	if r.Len() != 0 {
		t.Errorf("memo holds %d entries after failures", r.Len())
	}
}

func TestResolverRegistryArtistURL(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(nil, lookup, discardLogger())

	id, ok := r.ResolveIdentifier(context.Background(), "https://musicbrainz.org/artist/abc-123")
	if !ok || id != "abc-123" {
		t.Errorf("resolve = %q, %v", id, ok)
	}
	if n := lookup.count("https://musicbrainz.org/artist/abc-123"); n != 0 {
		t.Errorf("registry artist url should not be looked up, asked %d times", n)
	}
}

func TestResolverPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestDB(t))
	lookup := &fakeLookup{answers: map[string]string{"https://www.deezer.com/artist/9": "mbid-9"}}

	first := NewResolver(store, lookup, discardLogger())
	first.ResolveIdentifier(ctx, "https://www.deezer.com/artist/9")
	first.ResolveIdentifier(ctx, "https://example.bandcamp.com")

	second := NewResolver(store, lookup, discardLogger())
	if id, ok := second.ResolveIdentifier(ctx, "https://www.deezer.com/artist/9"); !ok || id != "mbid-9" {
		t.Errorf("stored answer = %q, %v", id, ok)
	}
	if _, ok := second.ResolveIdentifier(ctx, "https://example.bandcamp.com"); ok {
		t.Error("stored negative answer should resolve to nothing")
	}
	if n := lookup.count("https://www.deezer.com/artist/9"); n != 1 {
		t.Errorf("remote asked %d times, want 1", n)
	}
	if n := lookup.count("https://example.bandcamp.com"); n != 1 {
		t.Errorf("negative remote asked %d times, want 1", n)
	}
}

func TestResolverLearn(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestDB(t))
	lookup := &fakeLookup{}
	r := NewResolver(store, lookup, discardLogger())

	r.Learn("https://www.deezer.com/album/1/", "rel-1")
	r.Learn("https://ignored.example.com", "")

	if id, ok := r.ResolveIdentifier(ctx, "https://www.deezer.com/album/1"); !ok || id != "rel-1" {
		t.Errorf("learned answer = %q, %v", id, ok)
	}
	if id, ok, _ := store.Get(ctx, "https://www.deezer.com/album/1"); !ok || id != "rel-1" {
		t.Errorf("learned answer not stored: %q, %v", id, ok)
	}
	if lookup.count("https://www.deezer.com/album/1") != 0 {
		t.Error("learned url should not be looked up")
	}
}

func TestResolverEmptyURL(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(nil, lookup, discardLogger())
	if _, ok := r.ResolveIdentifier(context.Background(), "  "); ok {
		t.Error("empty url should not resolve")
	}
	if lookup.count("") != 0 {
		t.Error("empty url should not be looked up")
	}
}
