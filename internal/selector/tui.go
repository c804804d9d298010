package selector

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sydlexius/mbmerge/internal/curation"
	"github.com/sydlexius/mbmerge/internal/reconcile"
	"github.com/sydlexius/mbmerge/internal/release"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D")).
			PaddingLeft(4)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D")).
			MarginTop(1)
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Ban    key.Binding
	Skip   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose"),
	),
	Ban: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "ban"),
	),
	Skip: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "skip"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// chooser is the Bubble Tea model behind TUI.
type chooser struct {
	title    string
	options  []reconcile.Option
	allowBan bool

	cursor      int
	chosen      int
	ban         bool
	interrupted bool
	width       int
}

func newChooser(title string, options []reconcile.Option, allowBan bool) chooser {
	return chooser{title: title, options: options, allowBan: allowBan, chosen: -1}
}

func (m chooser) Init() tea.Cmd { return nil }

func (m chooser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.interrupted = true
			return m, tea.Quit
		case key.Matches(msg, keys.Skip):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Choose):
			m.chosen = m.cursor
			return m, tea.Quit
		case m.allowBan && key.Matches(msg, keys.Ban):
			m.chosen = m.cursor
			m.ban = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m chooser) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	line := lipgloss.NewStyle()
	if m.width > 0 {
		line = line.MaxWidth(m.width)
	}
	for i, opt := range m.options {
		prefix := "  "
		label := opt.Label
		if i == m.cursor {
			prefix = "> "
			label = cursorStyle.Render(label)
		}
		b.WriteString(line.Render(prefix + label))
		b.WriteString("\n")
		if opt.Detail != "" {
			b.WriteString(line.Render(detailStyle.Render(opt.Detail)))
			b.WriteString("\n")
		}
	}

	help := []key.Binding{keys.Up, keys.Down, keys.Choose, keys.Skip}
	if m.allowBan {
		help = append(help, keys.Ban)
	}
	parts := make([]string, len(help))
	for i, h := range help {
		parts[i] = h.Help().Key + " " + h.Help().Desc
	}
	b.WriteString(helpStyle.Render(strings.Join(parts, " • ")))
	b.WriteString("\n")
	return b.String()
}

// TUI is a full-screen chooser for interactive terminals.
type TUI struct {
	in  io.Reader
	out io.Writer
}

// NewTUI creates a TUI reading keys from in and drawing on out.
func NewTUI(in io.Reader, out io.Writer) *TUI {
	return &TUI{in: in, out: out}
}

// SelectOne implements reconcile.Selector.
func (t *TUI) SelectOne(ctx context.Context, title string, options []reconcile.Option) (int, error) {
	m, err := t.run(ctx, newChooser(title, options, false))
	if err != nil {
		return 0, err
	}
	if m.chosen < 0 {
		return 0, reconcile.ErrCancelled
	}
	return m.chosen, nil
}

// PickAlbum implements curation.AlbumPicker. Pressing b bans the
// highlighted album.
func (t *TUI) PickAlbum(ctx context.Context, sourceName, query string, cands []*release.Album) (curation.Pick, error) {
	m, err := t.run(ctx, newChooser(albumPrompt(sourceName, query), albumOptions(cands), true))
	if err != nil {
		return curation.Pick{}, err
	}
	if m.chosen < 0 {
		return curation.Pick{}, nil
	}
	return curation.Pick{Album: cands[m.chosen], Ban: m.ban}, nil
}

func (t *TUI) run(ctx context.Context, m chooser) (chooser, error) {
	if len(m.options) == 0 {
		return m, reconcile.ErrCancelled
	}
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return m, ctxErr
	}
	if err != nil {
		return m, fmt.Errorf("running chooser: %w", err)
	}
	result, ok := final.(chooser)
	if !ok {
		return m, fmt.Errorf("unexpected chooser model %T", final)
	}
	if result.interrupted {
		return result, ErrInterrupted
	}
	return result, nil
}
