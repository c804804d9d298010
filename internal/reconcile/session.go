package reconcile

import (
	"log/slog"
	"slices"
	"strings"
)

// Memo remembers which key the curator chose for a given set of
// alternatives, so the same conflict is only asked once per session. It is
// keyed by the set of alternative keys, not by attribute, so two attributes
// that happen to disagree in exactly the same way share one decision.
type Memo struct {
	choices map[string]string
}

// NewMemo creates an empty Memo.
func NewMemo() *Memo {
	return &Memo{choices: make(map[string]string)}
}

// signature returns the order-independent identity of a set of keys.
func signature(keys []string) string {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x1f")
}

// Lookup returns the key chosen earlier for the same set of alternatives.
func (m *Memo) Lookup(keys []string) (string, bool) {
	choice, ok := m.choices[signature(keys)]
	return choice, ok
}

// Record stores the chosen key for a set of alternatives.
func (m *Memo) Record(keys []string, chosen string) {
	m.choices[signature(keys)] = chosen
}

// Len returns the number of remembered decisions.
func (m *Memo) Len() int { return len(m.choices) }

// Session is the state of one top-level reconciliation: the collaborators it
// asks and the decisions taken so far. A Session must not be shared between
// concurrent reconciliations.
type Session struct {
	selector Selector
	resolver Resolver
	memo     *Memo
	logger   *slog.Logger
}

// NewSession creates a Session with an empty Memo. A nil resolver resolves
// nothing.
func NewSession(selector Selector, resolver Resolver, logger *slog.Logger) *Session {
	if resolver == nil {
		resolver = noResolver{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		selector: selector,
		resolver: resolver,
		memo:     NewMemo(),
		logger:   logger,
	}
}

// Memo returns the session's decision memo.
func (s *Session) Memo() *Memo { return s.memo }
