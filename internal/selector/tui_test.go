package selector

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sydlexius/mbmerge/internal/reconcile"
)

var threeOptions = []reconcile.Option{
	{Label: "First", Detail: "from Deezer"},
	{Label: "Second"},
	{Label: "Third", Detail: "from Discogs"},
}

func press(t *testing.T, m chooser, msgs ...tea.KeyMsg) (chooser, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(chooser)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyB     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}}
	keyJ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
)

func TestChooserNavigation(t *testing.T) {
	tests := []struct {
		name   string
		keys   []tea.KeyMsg
		cursor int
	}{
		{"start", nil, 0},
		{"down", []tea.KeyMsg{keyDown}, 1},
		{"vim down", []tea.KeyMsg{keyJ, keyJ}, 2},
		{"clamped bottom", []tea.KeyMsg{keyDown, keyDown, keyDown, keyDown}, 2},
		{"clamped top", []tea.KeyMsg{keyUp}, 0},
		{"down up", []tea.KeyMsg{keyDown, keyDown, keyUp}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(t, newChooser("title", threeOptions, false), tt.keys...)
			if m.cursor != tt.cursor {
				t.Errorf("cursor = %d, want %d", m.cursor, tt.cursor)
			}
			if isQuit(cmd) {
				t.Error("navigation should not quit")
			}
		})
	}
}

func TestChooserChoose(t *testing.T) {
	m, cmd := press(t, newChooser("title", threeOptions, false), keyDown, keyEnter)
	if !isQuit(cmd) {
		t.Fatal("enter should quit")
	}
	if m.chosen != 1 || m.ban {
		t.Errorf("chosen = %d, ban = %v", m.chosen, m.ban)
	}
}

func TestChooserSkip(t *testing.T) {
	m, cmd := press(t, newChooser("title", threeOptions, false), keyDown, keyEsc)
	if !isQuit(cmd) {
		t.Fatal("esc should quit")
	}
	if m.chosen != -1 || m.interrupted {
		t.Errorf("chosen = %d, interrupted = %v", m.chosen, m.interrupted)
	}
}

func TestChooserInterrupt(t *testing.T) {
	m, cmd := press(t, newChooser("title", threeOptions, false), keyCtrlC)
	if !isQuit(cmd) || !m.interrupted {
		t.Errorf("ctrl+c should quit and interrupt, interrupted = %v", m.interrupted)
	}
}

func TestChooserBan(t *testing.T) {
	m, cmd := press(t, newChooser("title", threeOptions, true), keyDown, keyDown, keyB)
	if !isQuit(cmd) {
		t.Fatal("b should quit when bans are allowed")
	}
	if m.chosen != 2 || !m.ban {
		t.Errorf("chosen = %d, ban = %v", m.chosen, m.ban)
	}

	m, cmd = press(t, newChooser("title", threeOptions, false), keyB)
	if isQuit(cmd) || m.ban {
		t.Error("b should do nothing when bans are not allowed")
	}
}

func TestChooserView(t *testing.T) {
	m, _ := press(t, newChooser("Pick one", threeOptions, false), keyDown)
	view := m.View()
	for _, want := range []string{"Pick one", "First", "from Deezer", "> ", "Third", "esc skip"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "b ban") {
		t.Error("ban help shown without bans")
	}
	if !strings.Contains(newChooser("Pick", threeOptions, true).View(), "b ban") {
		t.Error("ban help missing")
	}
}

func TestTUIEmptyOptions(t *testing.T) {
	tui := NewTUI(strings.NewReader(""), &strings.Builder{})
	if _, err := tui.SelectOne(context.Background(), "nothing", nil); !errors.Is(err, reconcile.ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
}
