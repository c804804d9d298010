package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/sydlexius/mbmerge/internal/release"
)

// Position is a track's place on a release.
type Position struct {
	Disc   int
	Number int
}

// Layout is the ordered list of track positions of a release.
type Layout []Position

// FormatLayout renders positions compactly, merging runs of consecutive
// track numbers on the same disc, e.g. "Disk 1: 1-3, Disk 2: 1".
func FormatLayout(layout Layout) string {
	var b strings.Builder
	started := false
	disc, start, end := 0, 0, 0

	flush := func() {
		if !started {
			return
		}
		if start == end {
			fmt.Fprintf(&b, "%d, ", start)
		} else {
			fmt.Fprintf(&b, "%d-%d, ", start, end)
		}
	}

	for _, p := range layout {
		switch {
		case !started || p.Disc != disc:
			flush()
			fmt.Fprintf(&b, "Disk %d: ", p.Disc)
			started = true
			disc, start, end = p.Disc, p.Number, p.Number
		case p.Number == end+1:
			end = p.Number
		default:
			flush()
			start, end = p.Number, p.Number
		}
	}
	flush()
	return strings.TrimSuffix(b.String(), ", ")
}

// FormatLength renders milliseconds as m:ss, with .mmm appended when the
// length is not a whole second.
func FormatLength(ms int) string {
	seconds := ms / 1000
	s := fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
	if rest := ms % 1000; rest != 0 {
		s += fmt.Sprintf(".%03d", rest)
	}
	return s
}

// FormatLengths renders a list of lengths joined by ", ".
func FormatLengths(lengths []int) string {
	parts := make([]string, len(lengths))
	for i, l := range lengths {
		parts[i] = FormatLength(l)
	}
	return strings.Join(parts, ", ")
}

// AlbumTitle extracts the album title.
func AlbumTitle(a *release.Album) (string, string) {
	return a.Title, a.Title
}

// TrackLayout extracts the disc/track numbering.
func TrackLayout(a *release.Album) (string, Layout) {
	layout := make(Layout, len(a.Tracks))
	for i, t := range a.Tracks {
		layout[i] = Position{Disc: t.DiscNumber(), Number: t.Number}
	}
	return FormatLayout(layout), layout
}

// TrackLengths extracts the track lengths in milliseconds.
func TrackLengths(a *release.Album) (string, []int) {
	lengths := make([]int, len(a.Tracks))
	for i, t := range a.Tracks {
		lengths[i] = t.LengthMS
	}
	return FormatLengths(lengths), lengths
}

// TrackTitles extracts the track titles.
func TrackTitles(a *release.Album) (string, []string) {
	titles := make([]string, len(a.Tracks))
	for i, t := range a.Tracks {
		titles[i] = t.Title
	}
	return strings.Join(titles, ", "), titles
}

// ReleaseDate extracts the release date.
func ReleaseDate(a *release.Album) (string, string) {
	return a.ReleaseDate, a.ReleaseDate
}

// Barcode extracts the barcode.
func Barcode(a *release.Album) (string, string) {
	return a.Barcode, a.Barcode
}

// Credited is a candidate that carries an artist credit.
type Credited interface {
	Candidate
	ArtistCredit() release.Credit
}

// ArtistCredit returns an extractor that resolves a candidate's artist
// credit and keys it by its display rendering.
func ArtistCredit[C Credited](ctx context.Context, resolver Resolver) Extractor[C, release.Credit] {
	return func(c C) (string, release.Credit) {
		return ResolveCredit(ctx, resolver, c.ArtistCredit())
	}
}
