package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sydlexius/mbmerge/internal/selector"
)

// interactiveFor picks the chooser matching the command's streams. When
// it is the full-screen chooser, console logging is suspended until the
// returned func is called; log files keep receiving records.
func (c *commandContext) interactiveFor(cmd *cobra.Command) (selector.Interactive, func()) {
	in, inOK := cmd.InOrStdin().(*os.File)
	out, outOK := cmd.OutOrStdout().(*os.File)
	if !inOK || !outOK {
		return selector.NewLine(cmd.InOrStdin(), cmd.OutOrStdout()), func() {}
	}
	sel := selector.Auto(in, out)
	if _, full := sel.(*selector.TUI); full && c.logManager != nil {
		return sel, c.logManager.SuspendConsole()
	}
	return sel, func() {}
}
