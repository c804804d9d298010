package source

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/sydlexius/mbmerge/internal/release"
)

// mockSource is a minimal Source for testing. It is relevant to every URL
// containing its host and returns one album per URL unless the URL is in
// fail.
type mockSource struct {
	name Name
	host string
	fail map[string]error

	mu      sync.Mutex
	fetched []string
}

func (m *mockSource) Name() Name { return m.name }

func (m *mockSource) Relevant(u string) bool { return strings.Contains(u, m.host) }

func (m *mockSource) FetchAlbums(ctx context.Context, u string) ([]*release.Album, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, u)
	m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.fail[u]; ok {
		return nil, err
	}
	return []*release.Album{{Source: m.name.DisplayName(), Title: "From " + u, URL: u + "/album"}}, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockSource{name: NameDeezer, host: "deezer.com"})

	got := reg.Get(NameDeezer)
	if got == nil {
		t.Fatal("expected to get deezer source")
	}
	if got.Name() != NameDeezer {
		t.Errorf("expected name deezer, got %s", got.Name())
	}
	if reg.Get(NameDiscogs) != nil {
		t.Error("expected nil for unregistered source")
	}
}

func TestRegistryAllInDisplayOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockSource{name: NameMusicBrainz})
	reg.Register(&mockSource{name: Name("unlisted")})
	reg.Register(&mockSource{name: NameDeezer})
	reg.Register(&mockSource{name: NameDiscogs})

	all := reg.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(all))
	}
	for i, want := range AllNames() {
		if all[i].Name() != want {
			t.Errorf("position %d = %s, want %s", i, all[i].Name(), want)
		}
	}
}

func TestRegistryAllEmpty(t *testing.T) {
	if all := NewRegistry().All(); len(all) != 0 {
		t.Errorf("expected no sources, got %d", len(all))
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[Name]string{
		NameDeezer:      "Deezer",
		NameDiscogs:     "Discogs",
		NameMusicBrainz: "MusicBrainz",
		Name("other"):   "other",
	}
	for n, want := range tests {
		if got := n.DisplayName(); got != want {
			t.Errorf("%s.DisplayName() = %q, want %q", n, got, want)
		}
	}
}
