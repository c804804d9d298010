package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sydlexius/mbmerge/internal/config"
	"github.com/sydlexius/mbmerge/internal/curation"
	"github.com/sydlexius/mbmerge/internal/event"
	"github.com/sydlexius/mbmerge/internal/identity"
	"github.com/sydlexius/mbmerge/internal/reconcile"
	"github.com/sydlexius/mbmerge/internal/release"
	"github.com/sydlexius/mbmerge/internal/source"
	"github.com/sydlexius/mbmerge/internal/source/deezer"
	"github.com/sydlexius/mbmerge/internal/source/discogs"
	"github.com/sydlexius/mbmerge/internal/source/musicbrainz"
	"github.com/sydlexius/mbmerge/internal/submit"
)

type runOptions struct {
	noHarmony  bool
	noBrowser  bool
	bannedURLs []string
	dumpDir    string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <artist-mbid|artist-url>",
		Short: "Curate an artist's releases across all sources",
		Long: "Fetches every release linked from the MusicBrainz artist, walks through\n" +
			"them title by title and opens a seeded MusicBrainz form for each match.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			applyRunOptions(cfg, opts)

			if err := ctx.acquireLock(); err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx.watchConfig(runCtx)

			return runSession(runCtx, cmd, ctx, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.noHarmony, "no-harmony", false, "Do not redirect to Harmony after submitting")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "Print submission URLs instead of opening a browser")
	cmd.Flags().StringArrayVar(&opts.bannedURLs, "banned-url", nil, "Artist URL to leave out (repeatable)")
	cmd.Flags().StringVar(&opts.dumpDir, "dump-dir", "", "Also write every submission as JSON into this directory")
	return cmd
}

func applyRunOptions(cfg *config.Config, opts runOptions) {
	if opts.noHarmony {
		cfg.Submit.Harmony = false
	}
	if opts.noBrowser {
		cfg.Submit.OpenBrowser = false
	}
	if opts.dumpDir != "" {
		cfg.Submit.DumpDir = opts.dumpDir
	}
	cfg.BannedURLs = append(cfg.BannedURLs, opts.bannedURLs...)
}

func runSession(ctx context.Context, cmd *cobra.Command, cc *commandContext, arg string) error {
	cfg, logger := cc.config, cc.logger

	db, err := cc.openDB(ctx)
	if err != nil {
		return err
	}

	limiter := source.NewRateLimiterMap()
	mb := musicbrainz.New(limiter, logger)
	dz := deezer.New(limiter, logger)
	dc := discogs.New(limiter, cfg.Sources.DiscogsToken, logger)
	if ua := cfg.Sources.UserAgent; ua != "" {
		mb.SetUserAgent(ua)
		dz.SetUserAgent(ua)
		dc.SetUserAgent(ua)
	}

	store := identity.NewStore(db)
	if n, err := store.Prune(ctx); err != nil {
		logger.Warn("pruning identifier cache", slog.String("error", err.Error()))
	} else if n > 0 {
		logger.Debug("identifier cache pruned", slog.Int64("entries", n))
	}
	resolver := identity.NewResolver(store, mb, logger)
	mb.SetLearner(resolver)

	artistID, err := resolveArtist(ctx, resolver, arg)
	if err != nil {
		return err
	}
	artist, err := mb.GetArtist(ctx, artistID)
	if err != nil {
		return fmt.Errorf("loading artist %s: %w", artistID, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Curating %s (%s)\n", artist.Name, artist.ID)

	bus := event.NewBus(logger, 64)
	bus.Subscribe(func(e event.Event) {
		logger.Debug("event", slog.Any("event", e))
	})
	bus.Start(ctx)
	defer bus.Close()

	registry := source.NewRegistry()
	registry.Register(dz)
	registry.Register(dc)
	registry.Register(mb)
	collector := source.NewCollector(registry, cfg.Sources.Concurrency, logger)

	urls := append([]string{musicbrainz.ArtistURL(artist.ID)}, artist.URLs...)
	batches, err := collector.Collect(ctx, urls, cfg.BannedURLs)
	if err != nil {
		return err
	}
	for _, b := range batches {
		bus.Publish(event.Event{Type: event.SourceFetched, Data: map[string]any{
			"source": string(b.Source.Name()),
			"albums": len(b.Albums),
			"failed": b.Failed,
		}})
	}
	catalogs, registryCatalog := curation.CatalogsFromBatches(batches)
	if len(catalogs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No releases found outside MusicBrainz.")
		return nil
	}

	server := submit.NewServer(cfg.Server.Port, logger)
	if err := server.Start(ctx); err != nil {
		return err
	}
	emitters := submit.Multi{submit.NewBrowserEmitter(server, cfg.Submit.Harmony, cfg.Submit.OpenBrowser, logger)}
	if cfg.Submit.DumpDir != "" {
		emitters = append(emitters, submit.NewDumpEmitter(cfg.Submit.DumpDir))
	}

	interactive, resume := cc.interactiveFor(cmd)
	engine := reconcile.New(interactive, resolver, logger)
	workflow := curation.NewWorkflow(engine, interactive, emitters, curation.NewBanStore(db), bus, logger)

	sum, err := workflow.Run(ctx, artist.ID, catalogs, registryCatalog)
	resume()
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), catalogs, sum)

	if sum.Added+sum.Merged > 0 {
		waitForSubmissions(ctx, cmd, server)
	}
	return nil
}

// resolveArtist accepts a bare MBID, a MusicBrainz artist URL or any
// artist URL linked from MusicBrainz.
func resolveArtist(ctx context.Context, r reconcile.Resolver, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if _, err := uuid.Parse(arg); err == nil {
		return arg, nil
	}
	if !strings.Contains(arg, "://") {
		return "", fmt.Errorf("%q is neither an MBID nor a URL", arg)
	}
	id, ok := r.ResolveIdentifier(ctx, arg)
	if !ok {
		return "", fmt.Errorf("no MusicBrainz artist is linked to %s", arg)
	}
	return id, nil
}

func printSummary(w io.Writer, catalogs []*curation.Catalog, sum curation.Summary) {
	rows := make([][]string, 0, len(catalogs))
	for _, c := range catalogs {
		rows = append(rows, []string{
			c.Name(),
			strconv.Itoa(len(c.Albums())),
			strconv.Itoa(c.Count(release.StatusCompleted)),
			strconv.Itoa(c.Count(release.StatusIgnored)),
			strconv.Itoa(c.Count(release.StatusBanned)),
		})
	}
	right := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(w, renderTable([]string{"Source", "Albums", "Completed", "Ignored", "Banned"}, rows, right))
	fmt.Fprintf(w, "%d added, %d merged, %d ignored, %d banned\n", sum.Added, sum.Merged, sum.Ignored, sum.Banned)
}

// waitForSubmissions keeps the form server up until the curator confirms
// that every browser tab has posted.
func waitForSubmissions(ctx context.Context, cmd *cobra.Command, server *submit.Server) {
	fmt.Fprintln(cmd.OutOrStdout(), "Press Enter once all submissions have been sent.")
	done := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		close(done)
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}
	_ = server.Shutdown(context.Background())
}
