package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sydlexius/mbmerge/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "mbmerge %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
			return err
		},
	}
}
