package identity

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.deezer.com/album/1?utm_source=x", "https://www.deezer.com/album/1"},
		{"https://www.deezer.com/artist/9/", "https://www.deezer.com/artist/9"},
		{"  https://example.bandcamp.com/  ", "https://example.bandcamp.com"},
		{"https://www.youtube.com/watch?v=abc", "https://www.youtube.com/watch?v=abc"},
		{"https://music.apple.com/us/album/some-album/123456", "https://music.apple.com/album/123456"},
		{"https://music.apple.com/gb/artist/someone/42?l=en", "https://music.apple.com/artist/42"},
		{"https://www.discogs.com/release/100-Main-Artist-First-Album", "https://www.discogs.com/release/100"},
		{"https://www.discogs.com/artist/9-Main-Artist", "https://www.discogs.com/artist/9"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLastSegment(t *testing.T) {
	tests := map[string]string{
		"https://musicbrainz.org/artist/abc":  "abc",
		"https://musicbrainz.org/artist/abc/": "abc",
		"plain":                               "plain",
	}
	for in, want := range tests {
		if got := LastSegment(in); got != want {
			t.Errorf("LastSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
