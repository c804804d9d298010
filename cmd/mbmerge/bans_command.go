package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sydlexius/mbmerge/internal/curation"
)

func newBansCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bans",
		Short: "Inspect and lift album bans",
	}
	cmd.AddCommand(newBansListCommand(ctx))
	cmd.AddCommand(newBansRemoveCommand(ctx))
	return cmd
}

func newBansListCommand(ctx *commandContext) *cobra.Command {
	var artist string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List banned album URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			store := curation.NewBanStore(db)

			all, err := store.All(cmd.Context())
			if err != nil {
				return err
			}
			bans := make([]curation.Ban, 0, len(all))
			for _, b := range all {
				if artist == "" || b.ArtistID == artist {
					bans = append(bans, b)
				}
			}

			if asJSON {
				return writeJSON(cmd, bans)
			}
			if len(bans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No banned albums.")
				return nil
			}
			rows := make([][]string, len(bans))
			for i, b := range bans {
				added := ""
				if !b.CreatedAt.IsZero() {
					added = b.CreatedAt.Local().Format(time.DateTime)
				}
				rows[i] = []string{b.ArtistID, b.URL, added}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Artist", "URL", "Added"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "Only show bans for this artist MBID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newBansRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <artist-mbid> <album-url>",
		Short: "Lift a ban so the album is offered again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.acquireLock(); err != nil {
				return err
			}
			db, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := curation.NewBanStore(db).Remove(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no ban for %s on artist %s", args[1], args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ban lifted for %s\n", args[1])
			return nil
		},
	}
}
