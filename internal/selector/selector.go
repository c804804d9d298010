// Package selector puts reconciliation conflicts and album choices to the
// curator. TUI runs a Bubble Tea chooser on a terminal. Line asks on plain
// streams; Scripted replays fixed answers for unattended runs.
package selector

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/sydlexius/mbmerge/internal/curation"
	"github.com/sydlexius/mbmerge/internal/reconcile"
	"github.com/sydlexius/mbmerge/internal/release"
)

// ErrInterrupted is returned when the curator aborts the whole session
// (ctrl+c) rather than dismissing one prompt.
var ErrInterrupted = errors.New("selection interrupted")

// Interactive answers both engine conflicts and per-source album picks.
type Interactive interface {
	reconcile.Selector
	curation.AlbumPicker
}

// Auto returns a TUI when both streams are terminals and a Line otherwise.
func Auto(in, out *os.File) Interactive {
	if isTerminal(in) && isTerminal(out) {
		return NewTUI(in, out)
	}
	return NewLine(in, out)
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// albumOptions describes candidate albums as chooser options.
func albumOptions(cands []*release.Album) []reconcile.Option {
	opts := make([]reconcile.Option, len(cands))
	for i, a := range cands {
		label := a.Title
		if a.CurrentStatus() == release.StatusIgnored {
			label += " (ignored)"
		}
		opts[i] = reconcile.Option{Label: label, Detail: a.Snippet() + ", " + a.URL}
	}
	return opts
}

func albumPrompt(sourceName, query string) string {
	return "Pick the " + sourceName + " album matching \"" + query + "\""
}
