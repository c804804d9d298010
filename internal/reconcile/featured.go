package reconcile

import (
	"regexp"
	"strings"

	"github.com/sydlexius/mbmerge/internal/release"
)

// featMarker matches "feat." or "ft." starting a word.
var featMarker = regexp.MustCompile(`(?i)\bf(?:ea)?t\.`)

// Join phrases added when featured artists are moved out of a title.
const (
	featPhrase  = " feat. "
	commaPhrase = ", "
)

// ExtractFeatured moves artists named after a "feat." marker in title into
// the credit. It returns the augmented credit and the cleaned title. The
// input credit is not modified; existing entries are never removed.
func ExtractFeatured(credit release.Credit, title string) (release.Credit, string) {
	loc := featMarker.FindStringIndex(title)
	if loc == nil {
		return credit, title
	}

	main := title[:loc[0]]
	featured := title[loc[1]:]

	if strings.HasSuffix(main, "(") {
		main = strings.TrimSpace(strings.TrimSuffix(main, "("))
		featured = strings.TrimSpace(strings.Replace(featured, ")", "", 1))
	}
	if open := strings.Index(featured, "("); open >= 0 && strings.Contains(featured, ")") {
		main = strings.TrimSpace(main) + " " + featured[open:]
		featured = featured[:open]
	}

	out := credit.Clone()
	hasFeat := false
	for _, e := range out {
		if !e.Pair && e.Text == featPhrase {
			hasFeat = true
			break
		}
	}

	for _, name := range strings.Split(strings.ReplaceAll(featured, "&", ","), ",") {
		name = strings.TrimSpace(name)
		if name == "" || credited(out, name) {
			continue
		}
		if hasFeat {
			out = append(out, release.Literal(commaPhrase))
		} else {
			out = append(out, release.Literal(featPhrase))
			hasFeat = true
		}
		out = append(out, release.Named(name, release.UnknownLink))
	}
	return out, strings.TrimSpace(main)
}

// credited reports whether any entry of the credit names the artist.
func credited(credit release.Credit, name string) bool {
	for _, e := range credit {
		if release.SameName(e.Text, name) {
			return true
		}
	}
	return false
}

// NormalizeFeatured rewrites the album title, album credit and every track
// title and credit in place with ExtractFeatured.
func NormalizeFeatured(a *release.Album) {
	a.Artist, a.Title = ExtractFeatured(a.Artist, a.Title)
	for _, t := range a.Tracks {
		t.Artist, t.Title = ExtractFeatured(t.Artist, t.Title)
	}
}
