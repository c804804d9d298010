package source

import (
	"context"
	"fmt"
	"time"

	"github.com/sydlexius/mbmerge/internal/release"
)

// Name uniquely identifies a catalog source.
type Name string

// Known source names.
const (
	NameDeezer      Name = "deezer"
	NameDiscogs     Name = "discogs"
	NameMusicBrainz Name = "musicbrainz"
)

// AllNames returns all known source names in display order. The registry
// comes last: its albums are offered after every other source's.
func AllNames() []Name {
	return []Name{
		NameDeezer,
		NameDiscogs,
		NameMusicBrainz,
	}
}

// DisplayName returns a human-readable name for the source.
func (n Name) DisplayName() string {
	switch n {
	case NameDeezer:
		return "Deezer"
	case NameDiscogs:
		return "Discogs"
	case NameMusicBrainz:
		return "MusicBrainz"
	default:
		return string(n)
	}
}

// Release URL relationship types, as registry link type ids.
const (
	LinkPurchaseForDownload = "74"
	LinkDownloadForFree     = "75"
	LinkDiscogs             = "76"
	LinkFreeStreaming       = "85"
)

// Source is the interface all catalog adapters implement.
type Source interface {
	// Name returns the unique source identifier.
	Name() Name

	// Relevant reports whether an artist URL belongs to this source.
	Relevant(artistURL string) bool

	// FetchAlbums returns every album the source lists for the artist.
	FetchAlbums(ctx context.Context, artistURL string) ([]*release.Album, error)
}

// ErrSourceUnavailable indicates a transient failure (rate-limited, timeout, server error).
type ErrSourceUnavailable struct {
	Source     Name
	Cause      error
	RetryAfter time.Duration
}

func (e *ErrSourceUnavailable) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Cause)
}

func (e *ErrSourceUnavailable) Unwrap() error { return e.Cause }

// ErrNotFound indicates the source has nothing at the requested location.
type ErrNotFound struct {
	Source Name
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("source %s: %s not found", e.Source, e.ID)
}

// ErrAuthRequired indicates the source rejected the configured credentials.
type ErrAuthRequired struct {
	Source Name
}

func (e *ErrAuthRequired) Error() string {
	return fmt.Sprintf("source %s: credentials rejected", e.Source)
}
