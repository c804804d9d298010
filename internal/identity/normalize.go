package identity

import (
	"regexp"
	"strings"
)

var (
	appleCountry = regexp.MustCompile(`(music\.apple\.com/)[a-z]{2}/`)
	appleSlug    = regexp.MustCompile(`(music\.apple\.com/(?:album|artist|song)/)[^/]+/([0-9])`)
)

// NormalizeURL reduces a catalog URL to the form the registry stores, so
// that the same page reached through different links compares equal. Query
// strings are dropped except on YouTube, where they carry the identity. Apple
// Music loses its storefront and slug, Discogs its slug.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if !strings.Contains(u, "youtube.com") {
		u, _, _ = strings.Cut(u, "?")
	}
	u = strings.TrimRight(u, "/")
	switch {
	case strings.Contains(u, "music.apple.com"):
		u = appleCountry.ReplaceAllString(u, "$1")
		u = appleSlug.ReplaceAllString(u, "$1$2")
	case strings.Contains(u, "discogs.com"):
		u, _, _ = strings.Cut(u, "-")
	}
	return u
}

// registryArtistPrefix is how registry artist pages start.
const registryArtistPrefix = "https://musicbrainz.org/artist/"

// LastSegment returns the part of u after its final slash.
func LastSegment(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}
