package source

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/sydlexius/mbmerge/internal/release"
)

// DefaultConcurrency bounds the number of artist URLs fetched at once.
const DefaultConcurrency = 4

// Batch is everything one source returned for an artist.
type Batch struct {
	Source Source
	URLs   []string
	Albums []*release.Album
	// Failed counts the artist URLs whose fetch returned an error.
	Failed int
}

// Collector fetches albums from every source relevant to an artist's URLs.
type Collector struct {
	registry    *Registry
	concurrency int
	logger      *slog.Logger
}

// NewCollector creates a Collector over the registry's sources. A
// concurrency below one uses DefaultConcurrency.
func NewCollector(registry *Registry, concurrency int, logger *slog.Logger) *Collector {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Collector{
		registry:    registry,
		concurrency: concurrency,
		logger:      logger.With(slog.String("component", "collector")),
	}
}

// Pair assigns every artist URL that is not banned to each source that
// finds it relevant. Sources without a relevant URL get no batch. Batches
// come back in registry order.
func (c *Collector) Pair(artistURLs, banned []string) []*Batch {
	var batches []*Batch
	for _, s := range c.registry.All() {
		b := &Batch{Source: s}
		for _, u := range artistURLs {
			if slices.Contains(banned, u) || slices.Contains(b.URLs, u) {
				continue
			}
			if s.Relevant(u) {
				b.URLs = append(b.URLs, u)
			}
		}
		if len(b.URLs) > 0 {
			batches = append(batches, b)
		}
	}
	return batches
}

// Collect pairs the URLs with sources and fetches all of them in parallel.
// A failing fetch is logged and counted, the rest of the batch is kept.
// Collect only returns an error when ctx is cancelled.
func (c *Collector) Collect(ctx context.Context, artistURLs, banned []string) ([]*Batch, error) {
	batches := c.Pair(artistURLs, banned)

	type job struct {
		batch *Batch
		url   string
	}
	var jobs []job
	for _, b := range batches {
		for _, u := range b.URLs {
			jobs = append(jobs, job{b, u})
		}
	}

	results := make([][]*release.Album, len(jobs))
	failed := make([]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			albums, err := j.batch.Source.FetchAlbums(gctx, j.url)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.logger.Warn("fetching albums failed",
					slog.String("source", string(j.batch.Source.Name())),
					slog.String("url", j.url),
					slog.String("error", err.Error()))
				failed[i] = true
				return nil
			}
			results[i] = albums
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, j := range jobs {
		if failed[i] {
			j.batch.Failed++
			continue
		}
		j.batch.Albums = append(j.batch.Albums, results[i]...)
	}
	for _, b := range batches {
		c.logger.Info("source fetched",
			slog.String("source", string(b.Source.Name())),
			slog.Int("urls", len(b.URLs)),
			slog.Int("albums", len(b.Albums)),
			slog.Int("failed", b.Failed))
	}
	return batches, nil
}
