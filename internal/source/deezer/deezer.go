package deezer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/sydlexius/mbmerge/internal/identity"
	"github.com/sydlexius/mbmerge/internal/release"
	"github.com/sydlexius/mbmerge/internal/source"
)

const (
	defaultBaseURL = "https://api.deezer.com"
	pageSize       = 100
)

// Adapter implements source.Source for Deezer's public API.
// No authentication is required.
type Adapter struct {
	client  *source.Client
	logger  *slog.Logger
	baseURL string
}

// New creates a Deezer adapter with the default base URL.
func New(limiter *source.RateLimiterMap, logger *slog.Logger) *Adapter {
	return NewWithBaseURL(limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a Deezer adapter with a custom base URL (for testing).
func NewWithBaseURL(limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string) *Adapter {
	logger = logger.With(slog.String("source", string(source.NameDeezer)))
	return &Adapter{
		client:  source.NewClient(source.NameDeezer, limiter, logger),
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetUserAgent replaces the default User-Agent header.
func (a *Adapter) SetUserAgent(ua string) { a.client.SetHeader("User-Agent", ua) }

// Name returns the source identifier.
func (a *Adapter) Name() source.Name { return source.NameDeezer }

// Relevant reports whether u is a Deezer artist page.
func (a *Adapter) Relevant(u string) bool {
	return strings.Contains(u, "deezer.com") && strings.Contains(u, "/artist/")
}

// FetchAlbums lists the artist's albums and fetches each one with its
// tracks.
func (a *Adapter) FetchAlbums(ctx context.Context, artistURL string) ([]*release.Album, error) {
	id := identity.LastSegment(identity.NormalizeURL(artistURL))
	if !isDeezerID(id) {
		return nil, &source.ErrNotFound{Source: source.NameDeezer, ID: artistURL}
	}

	refs, err := a.artistAlbums(ctx, id)
	if err != nil {
		return nil, err
	}

	albums := make([]*release.Album, 0, len(refs))
	for _, ref := range refs {
		album, err := a.album(ctx, strconv.Itoa(ref.ID))
		if err != nil {
			return nil, fmt.Errorf("album %d: %w", ref.ID, err)
		}
		albums = append(albums, album)
	}

	a.logger.Debug("albums fetched",
		slog.String("artist", id),
		slog.Int("albums", len(albums)))
	return albums, nil
}

func (a *Adapter) artistAlbums(ctx context.Context, id string) ([]albumRef, error) {
	var refs []albumRef
	for {
		params := url.Values{
			"index": {strconv.Itoa(len(refs))},
			"limit": {strconv.Itoa(pageSize)},
		}
		reqURL := fmt.Sprintf("%s/artist/%s/albums?%s", a.baseURL, url.PathEscape(id), params.Encode())

		var page albumsResponse
		if err := a.client.GetJSON(ctx, reqURL, &page); err != nil {
			return nil, err
		}
		refs = append(refs, page.Data...)
		if len(page.Data) == 0 || len(refs) >= page.Total {
			return refs, nil
		}
	}
}

func (a *Adapter) album(ctx context.Context, id string) (*release.Album, error) {
	var detail albumResult
	if err := a.client.GetJSON(ctx, a.baseURL+"/album/"+url.PathEscape(id), &detail); err != nil {
		return nil, err
	}

	tracks, err := a.albumTracks(ctx, id)
	if err != nil {
		return nil, err
	}

	name := source.NameDeezer.DisplayName()
	album := &release.Album{
		Source:      name,
		Title:       detail.Title,
		URL:         identity.NormalizeURL(detail.Link),
		Artist:      artistCredit(detail.Artist),
		ReleaseDate: detail.ReleaseDate,
		Barcode:     detail.UPC,
		Thumbnail:   detail.CoverMedium,
		URLTypes:    []string{source.LinkFreeStreaming},
	}
	if detail.RecordType != "" {
		album.ExtraInfo = "(" + detail.RecordType + ")"
	}
	for _, g := range detail.Genres.Data {
		album.Genres = append(album.Genres, strings.ToLower(g.Name))
	}
	for _, t := range tracks {
		album.Tracks = append(album.Tracks, &release.Track{
			Source:   name,
			Title:    t.Title,
			Artist:   artistCredit(t.Artist),
			LengthMS: t.Duration * 1000,
			Number:   t.TrackPosition,
			Disc:     t.DiskNumber,
		})
	}
	return album, nil
}

func (a *Adapter) albumTracks(ctx context.Context, id string) ([]trackResult, error) {
	var tracks []trackResult
	for {
		params := url.Values{
			"index": {strconv.Itoa(len(tracks))},
			"limit": {strconv.Itoa(pageSize)},
		}
		reqURL := fmt.Sprintf("%s/album/%s/tracks?%s", a.baseURL, url.PathEscape(id), params.Encode())

		var page tracksResponse
		if err := a.client.GetJSON(ctx, reqURL, &page); err != nil {
			return nil, err
		}
		tracks = append(tracks, page.Data...)
		if len(page.Data) == 0 || len(tracks) >= page.Total {
			return tracks, nil
		}
	}
}

// artistCredit links a Deezer artist by its normalized page URL.
func artistCredit(a artistRef) release.Credit {
	if a.Name == "" {
		return nil
	}
	link := release.UnknownLink
	if a.Link != "" {
		link = identity.NormalizeURL(a.Link)
	}
	return release.Credit{release.Named(a.Name, link)}
}

// isDeezerID reports whether id is a valid Deezer ID (all digits).
func isDeezerID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
