package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sydlexius/mbmerge/internal/release"
)

// Submission actions.
const (
	ActionAdd  = "add"
	ActionEdit = "edit"
)

// DefaultAttribution is appended to every edit note.
const DefaultAttribution = "mbmerge"

// worldwide is the release country used when none is known.
const worldwide = "XW"

// Submission is an assembled field map together with what it applies to.
type Submission struct {
	Action   string
	TargetID string
	Fields   *Fields
	// Albums are the candidates that contributed to the submission.
	Albums []*release.Album
}

// Engine reconciles candidate albums into registry submissions.
type Engine struct {
	selector    Selector
	resolver    Resolver
	logger      *slog.Logger
	attribution string
}

// New creates an Engine. A nil resolver resolves nothing.
func New(selector Selector, resolver Resolver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		selector:    selector,
		resolver:    resolver,
		logger:      logger.With(slog.String("component", "reconcile")),
		attribution: DefaultAttribution,
	}
}

// SetAttribution replaces the text after "Added via"/"Matched via" in edit
// notes.
func (e *Engine) SetAttribution(text string) {
	e.attribution = text
}

// NewRelease reconciles albums into a submission creating a new release.
// Album titles and credits are rewritten in place by NormalizeFeatured.
// It returns an error wrapping ErrNoResult when an attribute cannot be
// determined or the curator cancels; no partial submission is returned.
func (e *Engine) NewRelease(ctx context.Context, albums []*release.Album) (*Submission, error) {
	s := NewSession(e.selector, e.resolver, e.logger)

	name, err := Reduce(ctx, s, "Select album title", albums, AlbumTitle)
	if err != nil {
		return nil, err
	}
	layout, err := Reduce(ctx, s, "Select track layout", albums, TrackLayout)
	if err != nil {
		return nil, err
	}
	albums, _ = matchingLayout(albums, layout)

	lengths, err := Reduce(ctx, s, "Select track lengths", albums, TrackLengths)
	if err != nil {
		return nil, err
	}
	for _, a := range albums {
		NormalizeFeatured(a)
	}
	titles, err := Reduce(ctx, s, "Select track titles", albums, TrackTitles)
	if err != nil {
		return nil, err
	}
	if len(titles) != len(layout) || len(lengths) != len(layout) {
		return nil, fmt.Errorf("track lists disagree with layout of %d tracks: %w", len(layout), ErrNoData)
	}
	artist, err := Reduce(ctx, s, "Select album artist", albums, ArtistCredit[*release.Album](ctx, s.resolver))
	if err != nil {
		return nil, err
	}
	date, err := Reduce(ctx, s, "Select release date", albums, ReleaseDate)
	if err != nil {
		return nil, err
	}
	barcode, err := optionalBarcode(ctx, s, albums)
	if err != nil {
		return nil, err
	}
	choice, err := s.choose(ctx, "Select release type", ReleaseTypes)
	if err != nil {
		return nil, err
	}
	releaseType := ReleaseTypes[choice]
	languageNames := make([]string, len(Languages))
	for i, l := range Languages {
		languageNames[i] = l.Name
	}
	choice, err = s.choose(ctx, "Select release language", languageNames)
	if err != nil {
		return nil, err
	}
	language := Languages[choice]

	f := NewFields()
	f.Set("name", name)
	for i, title := range titles {
		pos := layout[i]
		if pos.Number == 1 {
			f.Set(fmt.Sprintf("mediums.%d.format", pos.Disc-1), "Digital Media")
		}
		tracks := tracksAt(albums, i)
		credit, err := Reduce(ctx, s, "Select artist for track "+title, tracks, ArtistCredit[*release.Track](ctx, s.resolver))
		if err != nil {
			return nil, err
		}
		prefix := fmt.Sprintf("mediums.%d.track.%d", pos.Disc-1, pos.Number-1)
		f.Set(prefix+".name", title)
		f.Set(prefix+".number", strconv.Itoa(pos.Number))
		f.Set(prefix+".length", strconv.Itoa(lengths[i]))
		f.setCredit(prefix+".artist_credit", credit)
	}
	f.setURLs(albums)
	if barcode != "" {
		f.Set("barcode", barcode)
	}
	f.Set("type", releaseType)
	if language.Name != UnknownLanguage {
		f.Set("language", language.Code)
		f.Set("script", language.Script)
	}
	f.setCredit("artist_credit", artist)
	f.setDate(date)
	f.Set("events.0.country", worldwide)
	f.Set("edit_note", e.editNote(albums, "Added via"))
	f.Set("status", "official")

	e.logger.Info("release assembled",
		slog.String("title", name),
		slog.Int("sources", len(albums)),
		slog.Int("fields", f.Len()),
		slog.Int("decisions", s.Memo().Len()))
	return &Submission{Action: ActionAdd, Fields: f, Albums: albums}, nil
}

// Merge reconciles albums against the one existing registry release among
// them. Title, track titles and credits of the registry release are kept;
// only URL relations and date, barcode and country corrections are
// submitted. Albums must hold exactly one registry release and at least one
// other candidate, otherwise ErrNotMergeable is returned.
func (e *Engine) Merge(ctx context.Context, albums []*release.Album) (*Submission, error) {
	var registry *release.Album
	others := 0
	for _, a := range albums {
		if !a.IsRegistry() {
			others++
			continue
		}
		if registry != nil {
			return nil, fmt.Errorf("two registry releases %s and %s: %w", registry.RegistryID(), a.RegistryID(), ErrNotMergeable)
		}
		registry = a
	}
	if registry == nil || others == 0 {
		return nil, ErrNotMergeable
	}

	s := NewSession(e.selector, e.resolver, e.logger)

	layout, err := Reduce(ctx, s, "Select track layout", albums, TrackLayout)
	if err != nil {
		return nil, err
	}
	albums, dropped := matchingLayout(albums, layout)
	for _, a := range dropped {
		if a == registry {
			return nil, fmt.Errorf("registry release %s does not match the chosen track layout: %w", registry.RegistryID(), ErrNoResult)
		}
	}
	date, err := Reduce(ctx, s, "Select release date", albums, ReleaseDate)
	if err != nil {
		return nil, err
	}
	barcode, err := optionalBarcode(ctx, s, albums)
	if err != nil {
		return nil, err
	}

	f := NewFields()
	f.setURLs(albums)
	if barcode != "" {
		f.Set("barcode", barcode)
	}
	f.setDate(date)
	country := registry.Extra[release.ExtraReleaseCountry]
	if country == "" {
		country = worldwide
	}
	f.Set("events.0.country", country)
	f.Set("edit_note", e.editNote(albums, "Matched via"))

	e.logger.Info("merge assembled",
		slog.String("mbid", registry.RegistryID()),
		slog.Int("sources", len(albums)),
		slog.Int("fields", f.Len()))
	return &Submission{Action: ActionEdit, TargetID: registry.RegistryID(), Fields: f, Albums: albums}, nil
}

// matchingLayout keeps albums that have no tracks yet or exactly as many
// tracks as the layout. Only the count is compared.
func matchingLayout(albums []*release.Album, layout Layout) (kept, dropped []*release.Album) {
	for _, a := range albums {
		if len(a.Tracks) == 0 || len(a.Tracks) == len(layout) {
			kept = append(kept, a)
		} else {
			dropped = append(dropped, a)
		}
	}
	return kept, dropped
}

// optionalBarcode reduces the barcode, treating a lack of data as no barcode.
func optionalBarcode(ctx context.Context, s *Session, albums []*release.Album) (string, error) {
	barcode, err := Reduce(ctx, s, "Select barcode", albums, Barcode)
	if err != nil && !errors.Is(err, ErrNoData) {
		return "", err
	}
	return barcode, nil
}

// tracksAt returns the i-th track of every album that has tracks.
func tracksAt(albums []*release.Album, i int) []*release.Track {
	var tracks []*release.Track
	for _, a := range albums {
		if i < len(a.Tracks) {
			tracks = append(tracks, a.Tracks[i])
		}
	}
	return tracks
}

func (e *Engine) editNote(albums []*release.Album, verb string) string {
	var b strings.Builder
	for _, a := range albums {
		b.WriteString("Sourced from ")
		b.WriteString(a.URL)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(verb)
	b.WriteString(" ")
	b.WriteString(e.attribution)
	return b.String()
}
