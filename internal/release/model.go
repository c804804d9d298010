package release

import (
	"fmt"
	"strings"
)

// Status tracks where an album stands in the curation workflow.
type Status string

// Album lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusIgnored   Status = "ignored"
	StatusBanned    Status = "banned"
)

// Keys used in Album.Extra by the registry source.
const (
	ExtraMBID           = "mbid"
	ExtraReleaseCountry = "release_country"
)

// UnknownDate is the release date reported when a source has no date at all.
const UnknownDate = "Unknown"

// Track is one source's version of a track on an album.
type Track struct {
	Source   string `json:"source"`
	Title    string `json:"title"`
	Artist   Credit `json:"artist"`
	LengthMS int    `json:"length_ms"`
	Number   int    `json:"number"`
	Disc     int    `json:"disc,omitempty"`
}

// SourceName returns the display name of the source the track came from.
func (t *Track) SourceName() string { return t.Source }

// ArtistCredit returns the track's artist credit.
func (t *Track) ArtistCredit() Credit { return t.Artist }

// DiscNumber returns the disc number, defaulting to 1.
func (t *Track) DiscNumber() int {
	if t.Disc < 1 {
		return 1
	}
	return t.Disc
}

// Album is one source's version of a release.
type Album struct {
	Source      string            `json:"source"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Artist      Credit            `json:"artist"`
	ReleaseDate string            `json:"release_date"`
	Tracks      []*Track          `json:"tracks"`
	Barcode     string            `json:"barcode,omitempty"`
	Genres      []string          `json:"genres,omitempty"`
	Thumbnail   string            `json:"thumbnail,omitempty"`
	ExtraInfo   string            `json:"extra_info,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
	URLTypes    []string          `json:"url_types,omitempty"`
	LinkedURLs  []string          `json:"linked_urls,omitempty"`
	Status      Status            `json:"status,omitempty"`
}

// SourceName returns the display name of the source the album came from.
func (a *Album) SourceName() string { return a.Source }

// ArtistCredit returns the album's artist credit.
func (a *Album) ArtistCredit() Credit { return a.Artist }

// RegistryID returns the registry identifier when the album came from the
// registry itself, or an empty string.
func (a *Album) RegistryID() string {
	if a.Extra == nil {
		return ""
	}
	return a.Extra[ExtraMBID]
}

// IsRegistry reports whether the album is an existing registry release.
func (a *Album) IsRegistry() bool { return a.RegistryID() != "" }

// CurrentStatus returns the album status, treating the zero value as pending.
func (a *Album) CurrentStatus() Status {
	if a.Status == "" {
		return StatusPending
	}
	return a.Status
}

// Snippet summarizes the album for a chooser line.
func (a *Album) Snippet() string {
	var b strings.Builder
	b.WriteString("By ")
	b.WriteString(a.Artist.String())
	if a.ReleaseDate != "" {
		fmt.Fprintf(&b, ", released %s", a.ReleaseDate)
	}
	fmt.Fprintf(&b, ", %d tracks", len(a.Tracks))
	if a.Barcode != "" {
		fmt.Fprintf(&b, ", UPN %s", a.Barcode)
	}
	if a.ExtraInfo != "" {
		b.WriteString(" ")
		b.WriteString(a.ExtraInfo)
	}
	return b.String()
}
