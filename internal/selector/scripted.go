package selector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/sydlexius/mbmerge/internal/curation"
	"github.com/sydlexius/mbmerge/internal/reconcile"
	"github.com/sydlexius/mbmerge/internal/release"
)

// Skip is the scripted answer that dismisses a prompt.
const Skip = -1

// ErrScriptExhausted is returned once every scripted answer has been used.
var ErrScriptExhausted = errors.New("no scripted answers left")

// Scripted replays a fixed list of 0-based answers, one per prompt, in
// order. Skip dismisses the prompt.
type Scripted struct {
	mu      sync.Mutex
	answers []int
	asked   []string
}

// NewScripted creates a Scripted selector.
func NewScripted(answers ...int) *Scripted {
	return &Scripted{answers: answers}
}

// ParseAnswers reads a comma separated answer list such as "0,2,-1".
func ParseAnswers(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var answers []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid answer %q: %w", part, err)
		}
		if n < Skip {
			return nil, fmt.Errorf("invalid answer %d: must be %d or more", n, Skip)
		}
		answers = append(answers, n)
	}
	return answers, nil
}

// Asked returns the prompt titles seen so far.
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

// Remaining returns how many answers have not been used.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

func (s *Scripted) next(title string, n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, title)
	if len(s.answers) == 0 {
		return 0, fmt.Errorf("%w at %q", ErrScriptExhausted, title)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if a >= n {
		return 0, fmt.Errorf("scripted answer %d out of range for %q (%d options)", a, title, n)
	}
	return a, nil
}

// SelectOne implements reconcile.Selector.
func (s *Scripted) SelectOne(ctx context.Context, title string, options []reconcile.Option) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	a, err := s.next(title, len(options))
	if err != nil {
		return 0, err
	}
	if a == Skip {
		return 0, reconcile.ErrCancelled
	}
	return a, nil
}

// PickAlbum implements curation.AlbumPicker. Scripted picks never ban.
func (s *Scripted) PickAlbum(ctx context.Context, sourceName, query string, cands []*release.Album) (curation.Pick, error) {
	if err := ctx.Err(); err != nil {
		return curation.Pick{}, err
	}
	a, err := s.next(albumPrompt(sourceName, query), len(cands))
	if err != nil {
		return curation.Pick{}, err
	}
	if a == Skip {
		return curation.Pick{}, nil
	}
	return curation.Pick{Album: cands[a]}, nil
}
