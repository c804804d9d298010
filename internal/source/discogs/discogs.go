package discogs

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/sydlexius/mbmerge/internal/identity"
	"github.com/sydlexius/mbmerge/internal/release"
	"github.com/sydlexius/mbmerge/internal/source"
)

const (
	defaultBaseURL = "https://api.discogs.com"
	siteURL        = "https://www.discogs.com"
	pageSize       = 100
)

// disambiguation matches the " (2)" suffix Discogs appends to duplicate
// artist names.
var disambiguation = regexp.MustCompile(`\s+\(\d+\)$`)

// Adapter implements source.Source for Discogs. A personal access token is
// optional; without one Discogs applies a lower rate limit.
type Adapter struct {
	client  *source.Client
	logger  *slog.Logger
	baseURL string
}

// New creates a Discogs adapter with the default base URL.
func New(limiter *source.RateLimiterMap, token string, logger *slog.Logger) *Adapter {
	return NewWithBaseURL(limiter, token, logger, defaultBaseURL)
}

// NewWithBaseURL creates a Discogs adapter with a custom base URL (for testing).
func NewWithBaseURL(limiter *source.RateLimiterMap, token string, logger *slog.Logger, baseURL string) *Adapter {
	logger = logger.With(slog.String("source", string(source.NameDiscogs)))
	client := source.NewClient(source.NameDiscogs, limiter, logger)
	if token != "" {
		client.SetHeader("Authorization", "Discogs token="+token)
	}
	return &Adapter{
		client:  client,
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetUserAgent replaces the default User-Agent header.
func (a *Adapter) SetUserAgent(ua string) { a.client.SetHeader("User-Agent", ua) }

// Name returns the source name.
func (a *Adapter) Name() source.Name { return source.NameDiscogs }

// Relevant reports whether u is a Discogs artist page.
func (a *Adapter) Relevant(u string) bool {
	return strings.Contains(u, "discogs.com/artist")
}

// FetchAlbums lists the artist's releases, skipping masters, and fetches
// each release in full.
func (a *Adapter) FetchAlbums(ctx context.Context, artistURL string) ([]*release.Album, error) {
	id := identity.LastSegment(identity.NormalizeURL(artistURL))
	if _, err := strconv.Atoi(id); err != nil {
		return nil, &source.ErrNotFound{Source: source.NameDiscogs, ID: artistURL}
	}

	refs, err := a.artistReleases(ctx, id)
	if err != nil {
		return nil, err
	}

	var albums []*release.Album
	for _, ref := range refs {
		if ref.Type == "master" {
			continue
		}
		album, err := a.Release(ctx, strconv.Itoa(ref.ID))
		if err != nil {
			return nil, fmt.Errorf("release %d: %w", ref.ID, err)
		}
		albums = append(albums, album)
	}

	a.logger.Debug("releases fetched",
		slog.String("artist", id),
		slog.Int("listed", len(refs)),
		slog.Int("albums", len(albums)))
	return albums, nil
}

func (a *Adapter) artistReleases(ctx context.Context, id string) ([]ArtistRelease, error) {
	var refs []ArtistRelease
	for page := 1; ; page++ {
		params := url.Values{
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(pageSize)},
		}
		reqURL := fmt.Sprintf("%s/artists/%s/releases?%s", a.baseURL, url.PathEscape(id), params.Encode())

		var resp ArtistReleasesResponse
		if err := a.client.GetJSON(ctx, reqURL, &resp); err != nil {
			return nil, err
		}
		refs = append(refs, resp.Releases...)
		if len(resp.Releases) == 0 || page >= resp.Pagination.Pages {
			return refs, nil
		}
	}
}

// Release fetches one release by its Discogs ID.
func (a *Adapter) Release(ctx context.Context, id string) (*release.Album, error) {
	var detail ReleaseDetail
	if err := a.client.GetJSON(ctx, a.baseURL+"/releases/"+url.PathEscape(id), &detail); err != nil {
		return nil, err
	}
	return mapRelease(&detail), nil
}

func mapRelease(d *ReleaseDetail) *release.Album {
	name := source.NameDiscogs.DisplayName()
	album := &release.Album{
		Source:      name,
		Title:       d.Title,
		URL:         identity.NormalizeURL(d.URI),
		Artist:      credit(d.Artists),
		ReleaseDate: release.UnknownDate,
		Barcode:     barcode(d.Identifiers),
		Thumbnail:   d.Thumb,
		URLTypes:    []string{source.LinkDiscogs},
	}
	if album.URL == "" {
		album.URL = fmt.Sprintf("%s/release/%d", siteURL, d.ID)
	}
	if d.Year > 0 {
		album.ReleaseDate = strconv.Itoa(d.Year)
	}
	for _, g := range d.Genres {
		album.Genres = append(album.Genres, strings.ToLower(g))
	}
	if len(d.Formats) > 0 {
		album.ExtraInfo = "(" + d.Formats[0].Name + ")"
	}

	ordinal := 0
	for _, t := range d.Tracklist {
		if t.Type == "heading" {
			continue
		}
		ordinal++
		disc, number := parsePosition(t.Position, ordinal)
		artists := credit(t.Artists)
		if artists == nil {
			artists = album.Artist.Clone()
		}
		album.Tracks = append(album.Tracks, &release.Track{
			Source:   name,
			Title:    t.Title,
			Artist:   artists,
			LengthMS: parseDuration(t.Duration),
			Number:   number,
			Disc:     disc,
		})
	}
	return album
}

// credit builds an artist credit linking every name to its Discogs page.
// Join phrases are padded with spaces, except commas which only get one
// after.
func credit(artists []ArtistRef) release.Credit {
	var c release.Credit
	for _, ar := range artists {
		name := disambiguation.ReplaceAllString(ar.Name, "")
		c = append(c, release.Named(name, fmt.Sprintf("%s/artist/%d", siteURL, ar.ID)))
		switch join := strings.TrimSpace(ar.Join); join {
		case "":
		case ",":
			c = append(c, release.Literal(", "))
		default:
			c = append(c, release.Literal(" "+join+" "))
		}
	}
	return c
}

// barcode returns the first barcode identifier with spaces removed.
func barcode(ids []Identifier) string {
	for _, id := range ids {
		if id.Type == "Barcode" {
			return strings.ReplaceAll(id.Value, " ", "")
		}
	}
	return ""
}

// parsePosition reads "N" or "D-N" positions. Anything else, such as vinyl
// sides, is numbered by order of appearance on disc 1.
func parsePosition(pos string, ordinal int) (disc, number int) {
	if n, err := strconv.Atoi(pos); err == nil {
		return 1, n
	}
	if d, n, ok := strings.Cut(pos, "-"); ok {
		dn, derr := strconv.Atoi(d)
		nn, nerr := strconv.Atoi(n)
		if derr == nil && nerr == nil {
			return dn, nn
		}
	}
	return 1, ordinal
}

// parseDuration converts "m:ss" or "h:mm:ss" to milliseconds. Anything else
// is zero.
func parseDuration(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		nums[i] = n
	}
	switch len(nums) {
	case 2:
		return (nums[0]*60 + nums[1]) * 1000
	case 3:
		return (nums[0]*3600 + nums[1]*60 + nums[2]) * 1000
	}
	return 0
}
