package musicbrainz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/sydlexius/mbmerge/internal/identity"
	"github.com/sydlexius/mbmerge/internal/release"
	"github.com/sydlexius/mbmerge/internal/source"
)

const (
	defaultBaseURL = "https://musicbrainz.org/ws/2"
	siteURL        = "https://musicbrainz.org"
	pageSize       = 100
)

// Learner receives URL to identifier mappings discovered while fetching.
type Learner interface {
	Learn(url, id string)
}

// Artist is the part of a registry artist the curation workflow needs.
type Artist struct {
	ID   string
	Name string
	// URLs are the external pages linked from the artist.
	URLs []string
}

// Adapter implements source.Source for the MusicBrainz registry. Its
// albums are existing releases and carry their registry identifier.
type Adapter struct {
	client  *source.Client
	logger  *slog.Logger
	baseURL string
	learner Learner
}

// New creates a MusicBrainz adapter with the default base URL.
func New(limiter *source.RateLimiterMap, logger *slog.Logger) *Adapter {
	return NewWithBaseURL(limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a MusicBrainz adapter with a custom base URL (for testing).
func NewWithBaseURL(limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string) *Adapter {
	logger = logger.With(slog.String("source", string(source.NameMusicBrainz)))
	return &Adapter{
		client:  source.NewClient(source.NameMusicBrainz, limiter, logger),
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetUserAgent replaces the default User-Agent header.
func (a *Adapter) SetUserAgent(ua string) { a.client.SetHeader("User-Agent", ua) }

// SetLearner registers a receiver for URL mappings found in artist and
// release relations.
func (a *Adapter) SetLearner(l Learner) { a.learner = l }

// Name returns the source name.
func (a *Adapter) Name() source.Name { return source.NameMusicBrainz }

// Relevant reports whether u is a registry artist page.
func (a *Adapter) Relevant(u string) bool {
	return strings.Contains(u, "musicbrainz.org/artist/")
}

// ArtistURL returns the registry page of an artist.
func ArtistURL(mbid string) string { return siteURL + "/artist/" + mbid }

// ReleaseURL returns the registry page of a release.
func ReleaseURL(mbid string) string { return siteURL + "/release/" + mbid }

// GetArtist fetches an artist and its URL relations by MusicBrainz ID.
func (a *Adapter) GetArtist(ctx context.Context, mbid string) (*Artist, error) {
	params := url.Values{
		"inc": {"url-rels"},
		"fmt": {"json"},
	}
	reqURL := a.baseURL + "/artist/" + url.PathEscape(mbid) + "?" + params.Encode()

	var mb MBArtist
	if err := a.client.GetJSON(ctx, reqURL, &mb); err != nil {
		return nil, err
	}

	artist := &Artist{ID: mb.ID, Name: mb.Name}
	for _, rel := range mb.Relations {
		if rel.URL == nil || rel.URL.Resource == "" {
			continue
		}
		artist.URLs = append(artist.URLs, rel.URL.Resource)
		a.learn(rel.URL.Resource, mb.ID)
	}
	return artist, nil
}

// Releases returns every release credited to the artist, followed by the
// releases where the artist only appears on tracks. Each release appears
// once.
func (a *Adapter) Releases(ctx context.Context, mbid string) ([]MBRelease, error) {
	seen := make(map[string]bool)
	var all []MBRelease
	for _, by := range []string{"artist", "track_artist"} {
		releases, err := a.browseReleases(ctx, by, mbid)
		if err != nil {
			return nil, err
		}
		for _, r := range releases {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			all = append(all, r)
			for _, rel := range r.Relations {
				if rel.URL != nil && rel.URL.Resource != "" {
					a.learn(rel.URL.Resource, r.ID)
				}
			}
		}
	}
	return all, nil
}

func (a *Adapter) browseReleases(ctx context.Context, by, mbid string) ([]MBRelease, error) {
	var releases []MBRelease
	offset := 0
	for {
		params := url.Values{
			by:       {mbid},
			"inc":    {"recordings+url-rels+artist-credits+media"},
			"limit":  {strconv.Itoa(pageSize)},
			"offset": {strconv.Itoa(offset)},
			"fmt":    {"json"},
		}
		reqURL := a.baseURL + "/release?" + params.Encode()

		var page MBReleaseBrowseResponse
		if err := a.client.GetJSON(ctx, reqURL, &page); err != nil {
			return nil, fmt.Errorf("browsing releases by %s: %w", by, err)
		}
		releases = append(releases, page.Releases...)
		if len(page.Releases) == 0 || len(releases) >= page.ReleaseCount {
			return releases, nil
		}
		offset += len(page.Releases)
	}
}

// FetchAlbums returns the artist's existing releases as candidate albums.
func (a *Adapter) FetchAlbums(ctx context.Context, artistURL string) ([]*release.Album, error) {
	mbid := identity.LastSegment(artistURL)
	releases, err := a.Releases(ctx, mbid)
	if err != nil {
		return nil, err
	}
	albums := make([]*release.Album, 0, len(releases))
	for i := range releases {
		albums = append(albums, mapRelease(&releases[i]))
	}
	a.logger.Debug("releases mapped",
		slog.String("artist", mbid),
		slog.Int("albums", len(albums)))
	return albums, nil
}

// LookupURL finds the registry entity a URL is attached to. A URL related
// to exactly one artist maps to that artist; one related to exactly one
// release maps to that release, which takes precedence. Unknown URLs return
// false without an error.
func (a *Adapter) LookupURL(ctx context.Context, resource string) (string, bool, error) {
	params := url.Values{
		"resource": {resource},
		"inc":      {"artist-rels+release-rels"},
		"fmt":      {"json"},
	}
	reqURL := a.baseURL + "/url?" + params.Encode()

	var lookup MBURLLookup
	if err := a.client.GetJSON(ctx, reqURL, &lookup); err != nil {
		var nf *source.ErrNotFound
		if errors.As(err, &nf) {
			return "", false, nil
		}
		return "", false, err
	}

	var artists, releases []string
	for _, rel := range lookup.Relations {
		switch {
		case rel.Artist != nil:
			artists = append(artists, rel.Artist.ID)
		case rel.Release != nil:
			releases = append(releases, rel.Release.ID)
		}
	}
	target := ""
	if len(artists) == 1 {
		target = artists[0]
	}
	if len(releases) == 1 {
		target = releases[0]
	}
	return target, target != "", nil
}

func (a *Adapter) learn(u, id string) {
	if a.learner != nil {
		a.learner.Learn(u, id)
	}
}

// mapRelease converts a MusicBrainz release to a candidate album.
func mapRelease(r *MBRelease) *release.Album {
	album := &release.Album{
		Source:      source.NameMusicBrainz.DisplayName(),
		Title:       r.Title,
		URL:         ReleaseURL(r.ID),
		Artist:      mapCredit(r.ArtistCredit),
		ReleaseDate: r.Date,
		Barcode:     r.Barcode,
		Extra: map[string]string{
			release.ExtraMBID:           r.ID,
			release.ExtraReleaseCountry: r.Country,
		},
	}
	if album.ReleaseDate == "" {
		album.ReleaseDate = release.UnknownDate
	}
	if r.Country != "" {
		album.ExtraInfo = "(" + r.Country + ")"
	}

	for _, m := range r.Media {
		disc := m.Position
		if disc < 1 {
			disc = 1
		}
		for _, t := range m.Tracks {
			length := 0
			if t.Length != nil {
				length = *t.Length
			}
			album.Tracks = append(album.Tracks, &release.Track{
				Source:   album.Source,
				Title:    t.Title,
				Artist:   mapCredit(t.ArtistCredit),
				LengthMS: length,
				Number:   t.Position,
				Disc:     disc,
			})
		}
	}

	for _, rel := range r.Relations {
		if rel.URL != nil && rel.URL.Resource != "" {
			album.LinkedURLs = append(album.LinkedURLs, identity.NormalizeURL(rel.URL.Resource))
		}
	}
	return album
}

// mapCredit converts a MusicBrainz artist credit, linking every name to its
// registry artist page.
func mapCredit(credits []MBArtistCredit) release.Credit {
	var c release.Credit
	for _, ac := range credits {
		link := release.UnknownLink
		if ac.Artist.ID != "" {
			link = ArtistURL(ac.Artist.ID)
		}
		c = append(c, release.Named(ac.Name, link))
		if ac.JoinPhrase != "" {
			c = append(c, release.Literal(ac.JoinPhrase))
		}
	}
	return c
}
