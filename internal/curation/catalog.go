package curation

import (
	"slices"
	"sort"

	"github.com/sydlexius/mbmerge/internal/release"
	"github.com/sydlexius/mbmerge/internal/source"
)

// MinSimilarity is the lowest title similarity at which an album is offered
// as a candidate for a query.
const MinSimilarity = 0.7

// Catalog is everything one source listed for the artist, together with
// each album's curation status.
type Catalog struct {
	name   string
	albums []*release.Album
}

// NewCatalog creates a Catalog for the named source.
func NewCatalog(name string, albums []*release.Album) *Catalog {
	return &Catalog{name: name, albums: albums}
}

// CatalogsFromBatches turns collected batches into catalogs. The registry
// batch, when present, is returned separately.
func CatalogsFromBatches(batches []*source.Batch) (catalogs []*Catalog, registry *Catalog) {
	for _, b := range batches {
		c := NewCatalog(b.Source.Name().DisplayName(), b.Albums)
		if b.Source.Name() == source.NameMusicBrainz {
			registry = c
			continue
		}
		catalogs = append(catalogs, c)
	}
	return catalogs, registry
}

// Name returns the display name of the source.
func (c *Catalog) Name() string { return c.name }

// Albums returns the catalog's albums in source order.
func (c *Catalog) Albums() []*release.Album { return c.albums }

// NextPending returns the title key of the first pending album.
func (c *Catalog) NextPending() (string, bool) {
	for _, a := range c.albums {
		if a.CurrentStatus() == release.StatusPending {
			return release.TitleKey(a.Title), true
		}
	}
	return "", false
}

// IsDone reports whether the catalog has albums titled title and none of
// them is still pending.
func (c *Catalog) IsDone(title string) bool {
	key := release.TitleKey(title)
	found := false
	for _, a := range c.albums {
		if release.TitleKey(a.Title) != key {
			continue
		}
		if a.CurrentStatus() == release.StatusPending {
			return false
		}
		found = true
	}
	return found
}

// Ignore marks every pending album titled title as ignored and returns how
// many albums changed. Completed and banned albums keep their status.
func (c *Catalog) Ignore(title string) int {
	key := release.TitleKey(title)
	n := 0
	for _, a := range c.albums {
		if release.TitleKey(a.Title) == key && a.CurrentStatus() == release.StatusPending {
			a.Status = release.StatusIgnored
			n++
		}
	}
	return n
}

// Candidates returns the pending or ignored albums whose title is similar to
// query, best match first. Albums scoring the same keep catalog order.
func (c *Catalog) Candidates(query string) []*release.Album {
	type scored struct {
		album *release.Album
		score float64
	}
	var matches []scored
	for _, a := range c.albums {
		switch a.CurrentStatus() {
		case release.StatusPending, release.StatusIgnored:
		default:
			continue
		}
		if s := release.Similarity(query, a.Title); s >= MinSimilarity {
			matches = append(matches, scored{a, s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	out := make([]*release.Album, len(matches))
	for i, m := range matches {
		out[i] = m.album
	}
	return out
}

// MarkStatus sets status on every album whose URL is in urls and returns
// how many albums changed.
func (c *Catalog) MarkStatus(urls []string, status release.Status) int {
	n := 0
	for _, a := range c.albums {
		if a.CurrentStatus() != status && slices.Contains(urls, a.URL) {
			a.Status = status
			n++
		}
	}
	return n
}

// Count returns how many albums have status.
func (c *Catalog) Count(status release.Status) int {
	n := 0
	for _, a := range c.albums {
		if a.CurrentStatus() == status {
			n++
		}
	}
	return n
}
