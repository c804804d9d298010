package deezer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sydlexius/mbmerge/internal/source"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("loading fixture %s: %v", name, err)
	}
	return data
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/artist/9/albums":
			w.Write(loadFixture(t, "albums_"+r.URL.Query().Get("index")+".json"))

		case r.URL.Path == "/artist/500/albums":
			w.WriteHeader(http.StatusInternalServerError)

		case strings.HasPrefix(r.URL.Path, "/album/") && strings.HasSuffix(r.URL.Path, "/tracks"):
			id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/album/"), "/tracks")
			w.Write(loadFixture(t, "album_"+id+"_tracks.json"))

		case strings.HasPrefix(r.URL.Path, "/album/"):
			w.Write(loadFixture(t, "album_"+strings.TrimPrefix(r.URL.Path, "/album/")+".json"))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestAdapter(t *testing.T, baseURL string) *Adapter {
	t.Helper()
	limiter := source.NewRateLimiterMap()
	limiter.SetLimit(source.NameDeezer, 0)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewWithBaseURL(limiter, logger, baseURL)
}

func TestName(t *testing.T) {
	a := newTestAdapter(t, "http://localhost")
	if a.Name() != source.NameDeezer {
		t.Errorf("expected %q, got %q", source.NameDeezer, a.Name())
	}
}

func TestRelevant(t *testing.T) {
	a := newTestAdapter(t, "http://localhost")
	tests := map[string]bool{
		"https://www.deezer.com/artist/9":     true,
		"https://www.deezer.com/en/artist/9/": true,
		"https://www.deezer.com/album/1":      false,
		"https://www.discogs.com/artist/9":    false,
	}
	for u, want := range tests {
		if got := a.Relevant(u); got != want {
			t.Errorf("Relevant(%q) = %v, want %v", u, got, want)
		}
	}
}

func TestFetchAlbums(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)

	albums, err := a.FetchAlbums(context.Background(), "https://www.deezer.com/artist/9")
	if err != nil {
		t.Fatalf("FetchAlbums: %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums over two pages, got %d", len(albums))
	}

	rec := albums[0]
	if rec.Source != "Deezer" {
		t.Errorf("source = %q", rec.Source)
	}
	if rec.URL != "https://www.deezer.com/album/1" {
		t.Errorf("url = %q, want query stripped", rec.URL)
	}
	if rec.Barcode != "0123456789012" {
		t.Errorf("barcode = %q", rec.Barcode)
	}
	if rec.ReleaseDate != "2020-05-09" {
		t.Errorf("release date = %q", rec.ReleaseDate)
	}
	if len(rec.URLTypes) != 1 || rec.URLTypes[0] != source.LinkFreeStreaming {
		t.Errorf("url types = %v", rec.URLTypes)
	}
	if len(rec.Genres) != 1 || rec.Genres[0] != "pop" {
		t.Errorf("genres = %v", rec.Genres)
	}
	if rec.Artist[0].Link != "https://www.deezer.com/artist/9" {
		t.Errorf("artist link = %q", rec.Artist[0].Link)
	}
	if len(rec.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(rec.Tracks))
	}
	if tr := rec.Tracks[1]; tr.LengthMS != 225000 || tr.Number != 2 || tr.DiscNumber() != 1 {
		t.Errorf("track 2 = %+v", tr)
	}
	if albums[1].Barcode != "" || albums[1].ExtraInfo != "(single)" {
		t.Errorf("single = %+v", albums[1])
	}
}

func TestFetchAlbumsRejectsNonNumericID(t *testing.T) {
	a := newTestAdapter(t, "http://localhost")
	_, err := a.FetchAlbums(context.Background(), "https://www.deezer.com/artist/abc")
	var nf *source.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchAlbumsServerError(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)

	_, err := a.FetchAlbums(context.Background(), "https://www.deezer.com/artist/500")
	var ue *source.ErrSourceUnavailable
	if !errors.As(err, &ue) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
