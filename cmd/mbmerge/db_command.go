package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sydlexius/mbmerge/internal/backup"
	"github.com/sydlexius/mbmerge/internal/database"
	"github.com/sydlexius/mbmerge/internal/identity"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Maintain the local database",
	}
	cmd.AddCommand(newDBStatusCommand(ctx))
	cmd.AddCommand(newDBOptimizeCommand(ctx))
	cmd.AddCommand(newDBBackupCommand(ctx))
	return cmd
}

func newDBStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database size and contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			st, err := database.ReadStats(cmd.Context(), db, ctx.config.Database.Path)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, st)
			}

			rows := [][]string{
				{"Path", ctx.config.Database.Path},
				{"Schema version", strconv.FormatInt(st.SchemaVersion, 10)},
				{"File size", strconv.FormatInt(st.FileSize, 10)},
				{"WAL size", strconv.FormatInt(st.WALFileSize, 10)},
				{"Pages", fmt.Sprintf("%d x %d", st.PageCount, st.PageSize)},
			}
			tables := make([]string, 0, len(st.Rows))
			for t := range st.Rows {
				tables = append(tables, t)
			}
			slices.Sort(tables)
			for _, t := range tables {
				rows = append(rows, []string{"Rows in " + t, strconv.FormatInt(st.Rows[t], 10)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Item", "Value"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newDBOptimizeCommand(ctx *commandContext) *cobra.Command {
	var vacuum bool
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Drop expired cache entries and optimize the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.acquireLock(); err != nil {
				return err
			}
			db, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			pruned, err := identity.NewStore(db).Prune(cmd.Context())
			if err != nil {
				return err
			}
			if vacuum {
				if err := database.Vacuum(cmd.Context(), db); err != nil {
					return err
				}
			}
			if err := database.Optimize(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired identifier entries.\n", pruned)
			return nil
		},
	}
	cmd.Flags().BoolVar(&vacuum, "vacuum", false, "Also rebuild the database file")
	return cmd
}

func newDBBackupCommand(ctx *commandContext) *cobra.Command {
	var (
		dir  string
		keep int
		list bool
	)
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the database, keeping the newest copies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			if dir == "" {
				dir = filepath.Join(ctx.config.DataDir(), "backups")
			}
			svc := backup.NewService(db, dir, keep, ctx.logger)

			if !list {
				info, err := svc.Backup(cmd.Context())
				if err != nil {
					return err
				}
				if _, err := svc.Prune(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filepath.Join(dir, info.Filename))
			}

			backups, err := svc.List()
			if err != nil {
				return err
			}
			rows := make([][]string, len(backups))
			for i, b := range backups {
				rows[i] = []string{b.Filename, strconv.FormatInt(b.Size, 10), b.CreatedAt.Local().Format(time.DateTime)}
			}
			right := []columnAlignment{alignLeft, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Backup", "Size", "Created"}, rows, right))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Backup directory (default <data dir>/backups)")
	cmd.Flags().IntVar(&keep, "keep", 5, "Number of backups to keep, 0 keeps all")
	cmd.Flags().BoolVar(&list, "list", false, "Only list existing backups")
	return cmd
}
