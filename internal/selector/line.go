package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/sydlexius/mbmerge/internal/curation"
	"github.com/sydlexius/mbmerge/internal/reconcile"
	"github.com/sydlexius/mbmerge/internal/release"
)

// Line asks questions as numbered lists on plain streams. Answers are
// 1-based; an empty answer or "q" skips, "b<n>" bans when picking albums.
type Line struct {
	in    *bufio.Reader
	out   io.Writer
	width int
}

// NewLine creates a Line selector. When out is a terminal, printed options
// are truncated to its width.
func NewLine(in io.Reader, out io.Writer) *Line {
	l := &Line{in: bufio.NewReader(in), out: out}
	if f, ok := out.(*os.File); ok && isTerminal(f) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			l.width = w
		}
	}
	return l
}

// SetWidth overrides the truncation width. Zero disables truncation.
func (l *Line) SetWidth(w int) { l.width = w }

// SelectOne implements reconcile.Selector.
func (l *Line) SelectOne(ctx context.Context, title string, options []reconcile.Option) (int, error) {
	a, err := l.ask(ctx, title, options, false)
	if err != nil {
		return 0, err
	}
	if a.index < 0 {
		return 0, reconcile.ErrCancelled
	}
	return a.index, nil
}

// PickAlbum implements curation.AlbumPicker.
func (l *Line) PickAlbum(ctx context.Context, sourceName, query string, cands []*release.Album) (curation.Pick, error) {
	a, err := l.ask(ctx, albumPrompt(sourceName, query), albumOptions(cands), true)
	if err != nil {
		return curation.Pick{}, err
	}
	if a.index < 0 {
		return curation.Pick{}, nil
	}
	return curation.Pick{Album: cands[a.index], Ban: a.ban}, nil
}

type answer struct {
	index int
	ban   bool
}

func (l *Line) ask(ctx context.Context, title string, options []reconcile.Option, allowBan bool) (answer, error) {
	if len(options) == 0 {
		return answer{index: -1}, nil
	}
	l.render(title, options, allowBan)
	for {
		if err := ctx.Err(); err != nil {
			return answer{}, err
		}
		fmt.Fprint(l.out, "> ")
		text, err := l.in.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return answer{}, fmt.Errorf("reading answer: %w", err)
			}
			if strings.TrimSpace(text) == "" {
				return answer{}, ErrInterrupted
			}
		}
		a, ok := parseAnswer(strings.TrimSpace(text), len(options), allowBan)
		if ok {
			return a, nil
		}
		fmt.Fprintf(l.out, "Please answer with a number between 1 and %d.\n", len(options))
	}
}

func (l *Line) render(title string, options []reconcile.Option, allowBan bool) {
	fmt.Fprintln(l.out, l.truncate(title))
	for i, opt := range options {
		fmt.Fprintln(l.out, l.truncate(fmt.Sprintf("%3d) %s", i+1, opt.Label)))
		if opt.Detail != "" {
			fmt.Fprintln(l.out, l.truncate("     "+opt.Detail))
		}
	}
	hint := "Enter a number, or nothing to skip."
	if allowBan {
		hint = "Enter a number, b<number> to ban, or nothing to skip."
	}
	fmt.Fprintln(l.out, hint)
}

func (l *Line) truncate(s string) string {
	if l.width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(l.width).Render(s)
}

// parseAnswer reads "", "q", "N" or, when bans are allowed, "bN".
func parseAnswer(text string, n int, allowBan bool) (answer, bool) {
	if text == "" || strings.EqualFold(text, "q") {
		return answer{index: -1}, true
	}
	ban := false
	if allowBan && (text[0] == 'b' || text[0] == 'B') {
		ban = true
		text = strings.TrimSpace(text[1:])
	}
	i, err := strconv.Atoi(text)
	if err != nil || i < 1 || i > n {
		return answer{}, false
	}
	return answer{index: i - 1, ban: ban}, true
}
