package curation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sydlexius/mbmerge/internal/event"
	"github.com/sydlexius/mbmerge/internal/reconcile"
	"github.com/sydlexius/mbmerge/internal/release"
)

// Pick is the curator's answer when offered a source's candidates. A nil
// Album skips the source for this title. Ban asks for Album never to be
// offered again.
type Pick struct {
	Album *release.Album
	Ban   bool
}

// AlbumPicker shows one source's candidates for a title and returns the
// curator's pick. Returning reconcile.ErrCancelled is the same as skipping.
type AlbumPicker interface {
	PickAlbum(ctx context.Context, sourceName, query string, candidates []*release.Album) (Pick, error)
}

// Emitter hands a finished submission to the registry.
type Emitter interface {
	Emit(ctx context.Context, sub *reconcile.Submission) error
}

// Reconciler turns picked albums into submissions. *reconcile.Engine
// implements it.
type Reconciler interface {
	NewRelease(ctx context.Context, albums []*release.Album) (*reconcile.Submission, error)
	Merge(ctx context.Context, albums []*release.Album) (*reconcile.Submission, error)
}

// Summary counts the outcomes of a run.
type Summary struct {
	Added   int
	Merged  int
	Ignored int
	Banned  int
}

// Workflow walks the curator through every pending album of an artist.
type Workflow struct {
	engine  Reconciler
	picker  AlbumPicker
	emitter Emitter
	bans    *BanStore
	bus     *event.Bus
	logger  *slog.Logger
}

// NewWorkflow creates a Workflow. bans and bus may be nil.
func NewWorkflow(engine Reconciler, picker AlbumPicker, emitter Emitter, bans *BanStore, bus *event.Bus, logger *slog.Logger) *Workflow {
	return &Workflow{
		engine:  engine,
		picker:  picker,
		emitter: emitter,
		bans:    bans,
		bus:     bus,
		logger:  logger.With(slog.String("component", "curation")),
	}
}

// Run curates the catalogs of one registry artist. Albums already linked
// from a registry release are completed and banned albums are set aside
// first. Then, title by title, the curator picks an album from each source
// and, when the registry has a match, the release to merge into. Titles for
// which nothing was picked, or whose reconciliation was abandoned, are
// ignored. registry may be nil.
func (w *Workflow) Run(ctx context.Context, artistID string, catalogs []*Catalog, registry *Catalog) (Summary, error) {
	var sum Summary

	if err := w.applyBans(ctx, artistID, catalogs, registry); err != nil {
		return sum, err
	}
	if registry != nil {
		var linked []string
		for _, a := range registry.Albums() {
			linked = append(linked, a.LinkedURLs...)
		}
		for _, c := range catalogs {
			if n := c.MarkStatus(linked, release.StatusCompleted); n > 0 {
				w.logger.Info("albums already in registry", slog.String("source", c.Name()), slog.Int("albums", n))
			}
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		current, ok := nextPending(catalogs)
		if !ok {
			break
		}

		gathered, err := w.gather(ctx, artistID, current, catalogs, &sum)
		if err != nil {
			return sum, err
		}
		if len(gathered) == 0 {
			w.ignore(current, catalogs, &sum)
			continue
		}

		if registry != nil {
			if cands := registry.Candidates(current); len(cands) > 0 {
				pick, err := w.pick(ctx, registry, current, cands)
				if err != nil {
					return sum, err
				}
				switch {
				case pick.Album == nil:
				case pick.Ban:
					if err := w.ban(ctx, artistID, pick.Album); err != nil {
						return sum, err
					}
					sum.Banned++
				default:
					gathered = append(gathered, pick.Album)
				}
			}
		}

		if err := w.submit(ctx, gathered, &sum); err != nil {
			if !errors.Is(err, reconcile.ErrNoResult) && !errors.Is(err, reconcile.ErrNotMergeable) {
				return sum, err
			}
			w.logger.Info("reconciliation abandoned", slog.String("title", current), slog.String("reason", err.Error()))
			for _, a := range gathered {
				if !a.IsRegistry() {
					a.Status = release.StatusIgnored
				}
			}
			w.ignore(current, catalogs, &sum)
		}
	}

	w.publish(event.CurationCompleted, map[string]any{
		"artist":  artistID,
		"added":   sum.Added,
		"merged":  sum.Merged,
		"ignored": sum.Ignored,
		"banned":  sum.Banned,
	})
	return sum, nil
}

func nextPending(catalogs []*Catalog) (string, bool) {
	for _, c := range catalogs {
		if title, ok := c.NextPending(); ok {
			return title, true
		}
	}
	return "", false
}

// gather asks every source that still has work for current to pick one
// album.
func (w *Workflow) gather(ctx context.Context, artistID, current string, catalogs []*Catalog, sum *Summary) ([]*release.Album, error) {
	var gathered []*release.Album
	for _, c := range catalogs {
		if c.IsDone(current) {
			continue
		}
		cands := c.Candidates(current)
		if len(cands) == 0 {
			continue
		}
		pick, err := w.pick(ctx, c, current, cands)
		if err != nil {
			return nil, err
		}
		switch {
		case pick.Album == nil:
		case pick.Ban:
			if err := w.ban(ctx, artistID, pick.Album); err != nil {
				return nil, err
			}
			sum.Banned++
		default:
			gathered = append(gathered, pick.Album)
		}
	}
	return gathered, nil
}

func (w *Workflow) pick(ctx context.Context, c *Catalog, current string, cands []*release.Album) (Pick, error) {
	pick, err := w.picker.PickAlbum(ctx, c.Name(), current, cands)
	if errors.Is(err, reconcile.ErrCancelled) {
		return Pick{}, nil
	}
	if err != nil {
		return Pick{}, fmt.Errorf("picking %s album: %w", c.Name(), err)
	}
	return pick, nil
}

// submit reconciles the gathered albums, merging when one of them is an
// existing registry release, and emits the result.
func (w *Workflow) submit(ctx context.Context, gathered []*release.Album, sum *Summary) error {
	merge := false
	for _, a := range gathered {
		if a.IsRegistry() {
			merge = true
			break
		}
	}

	var (
		sub *reconcile.Submission
		err error
	)
	if merge {
		sub, err = w.engine.Merge(ctx, gathered)
	} else {
		sub, err = w.engine.NewRelease(ctx, gathered)
	}
	if err != nil {
		return err
	}

	if err := w.emitter.Emit(ctx, sub); err != nil {
		return fmt.Errorf("emitting submission: %w", err)
	}
	for _, a := range sub.Albums {
		a.Status = release.StatusCompleted
	}
	if merge {
		sum.Merged++
	} else {
		sum.Added++
	}

	w.logger.Info("release submitted",
		slog.String("action", sub.Action),
		slog.String("target", sub.TargetID),
		slog.Int("albums", len(sub.Albums)))
	w.publish(event.ReleaseSubmitted, map[string]any{
		"action": sub.Action,
		"target": sub.TargetID,
		"albums": len(sub.Albums),
	})
	return nil
}

func (w *Workflow) ignore(current string, catalogs []*Catalog, sum *Summary) {
	for _, c := range catalogs {
		c.Ignore(current)
	}
	sum.Ignored++
	w.publish(event.AlbumIgnored, map[string]any{"title": current})
}

func (w *Workflow) ban(ctx context.Context, artistID string, album *release.Album) error {
	album.Status = release.StatusBanned
	if w.bans != nil {
		if err := w.bans.Add(ctx, artistID, album.URL); err != nil {
			return err
		}
	}
	w.logger.Info("album banned", slog.String("url", album.URL))
	w.publish(event.AlbumBanned, map[string]any{"artist": artistID, "url": album.URL})
	return nil
}

func (w *Workflow) applyBans(ctx context.Context, artistID string, catalogs []*Catalog, registry *Catalog) error {
	if w.bans == nil {
		return nil
	}
	urls, err := w.bans.URLs(ctx, artistID)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	all := catalogs
	if registry != nil {
		all = append(all[:len(all):len(all)], registry)
	}
	for _, c := range all {
		if n := c.MarkStatus(urls, release.StatusBanned); n > 0 {
			w.logger.Debug("banned albums set aside", slog.String("source", c.Name()), slog.Int("albums", n))
		}
	}
	return nil
}

func (w *Workflow) publish(t event.Type, data map[string]any) {
	if w.bus != nil {
		w.bus.Publish(event.Event{Type: t, Data: data})
	}
}
