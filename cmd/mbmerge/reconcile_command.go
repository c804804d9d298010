package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sydlexius/mbmerge/internal/identity"
	"github.com/sydlexius/mbmerge/internal/reconcile"
	"github.com/sydlexius/mbmerge/internal/release"
	"github.com/sydlexius/mbmerge/internal/selector"
	"github.com/sydlexius/mbmerge/internal/source"
	"github.com/sydlexius/mbmerge/internal/source/musicbrainz"
)

type reconcileOutput struct {
	Action   string            `json:"action"`
	TargetID string            `json:"target_id,omitempty"`
	Fields   *reconcile.Fields `json:"fields"`
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var (
		merge   bool
		answers string
		asJSON  bool
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile <candidates.json>",
		Short: "Reconcile albums from a JSON file and print the resulting fields",
		Long: "Reads a JSON array of albums, reconciles them as a new release (or, with\n" +
			"--merge, into the one existing MusicBrainz release among them) and prints\n" +
			"the form fields that would be submitted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			albums, err := readCandidates(args[0])
			if err != nil {
				return err
			}

			var sel reconcile.Selector
			if answers != "" {
				list, err := selector.ParseAnswers(answers)
				if err != nil {
					return err
				}
				sel = selector.NewScripted(list...)
			} else {
				interactive, resume := ctx.interactiveFor(cmd)
				defer resume()
				sel = interactive
			}

			if err := ctx.acquireLock(); err != nil {
				return err
			}
			db, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			var resolver *identity.Resolver
			if offline {
				resolver = identity.NewResolver(identity.NewStore(db), nil, ctx.logger)
			} else {
				mb := musicbrainz.New(source.NewRateLimiterMap(), ctx.logger)
				if ua := ctx.config.Sources.UserAgent; ua != "" {
					mb.SetUserAgent(ua)
				}
				resolver = identity.NewResolver(identity.NewStore(db), mb, ctx.logger)
			}

			engine := reconcile.New(sel, resolver, ctx.logger)
			var sub *reconcile.Submission
			if merge {
				sub, err = engine.Merge(cmd.Context(), albums)
			} else {
				sub, err = engine.NewRelease(cmd.Context(), albums)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, reconcileOutput{Action: sub.Action, TargetID: sub.TargetID, Fields: sub.Fields})
			}
			rows := make([][]string, 0, sub.Fields.Len())
			for _, k := range sub.Fields.Keys() {
				v, _ := sub.Fields.Get(k)
				rows = append(rows, []string{k, v})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Action: %s", sub.Action)
			if sub.TargetID != "" {
				fmt.Fprintf(out, " %s", sub.TargetID)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Merge into the existing MusicBrainz release among the candidates")
	cmd.Flags().StringVar(&answers, "answers", "", "Comma separated 0-based answers to replay instead of prompting (-1 skips)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&offline, "offline", false, "Only resolve artist URLs from the local cache")
	return cmd
}

func readCandidates(path string) ([]*release.Album, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidates: %w", err)
	}
	var albums []*release.Album
	if err := json.Unmarshal(data, &albums); err != nil {
		return nil, fmt.Errorf("parsing candidates: %w", err)
	}
	if len(albums) == 0 {
		return nil, fmt.Errorf("no albums in %s", path)
	}
	return albums, nil
}
