package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Candidate is anything a source produced that can vote in a reduction.
type Candidate interface {
	SourceName() string
}

// Extractor maps one candidate to its comparison key and canonical value.
// An empty key means the candidate has no value and does not vote.
type Extractor[C Candidate, T any] = func(C) (string, T)

// group collects the candidates that rendered to the same key.
type group[T any] struct {
	key     string
	value   T
	sources []string
}

// Reduce picks one canonical value for an attribute out of the candidates'
// competing values. Candidates are grouped by comparison key; a single group
// wins outright, otherwise the groups are offered to the curator ordered by
// support. A choice made for the same set of alternatives earlier in the
// session is reused without asking.
//
// Reduce returns an error wrapping ErrNoResult when no candidate has a value
// or the curator cancels.
func Reduce[C Candidate, T any](ctx context.Context, s *Session, title string, candidates []C, extract Extractor[C, T]) (T, error) {
	var zero T

	var groups []*group[T]
	index := make(map[string]*group[T])
	for _, c := range candidates {
		key, value := extract(c)
		if key == "" {
			continue
		}
		g, ok := index[key]
		if !ok {
			g = &group[T]{key: key, value: value}
			index[key] = g
			groups = append(groups, g)
		}
		g.sources = append(g.sources, c.SourceName())
	}

	switch len(groups) {
	case 0:
		return zero, fmt.Errorf("%s: %w", title, ErrNoData)
	case 1:
		return groups[0].value, nil
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].sources) > len(groups[j].sources)
	})

	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.key
	}

	if chosen, ok := s.memo.Lookup(keys); ok {
		if g := index[chosen]; g != nil {
			s.logger.Debug("reusing earlier decision",
				slog.String("prompt", title),
				slog.String("choice", chosen))
			return g.value, nil
		}
	}

	options := make([]Option, len(groups))
	for i, g := range groups {
		options[i] = Option{
			Label:  fmt.Sprintf("%s (%d)", g.key, len(g.sources)),
			Detail: strings.Join(g.sources, ", "),
		}
	}

	choice, err := s.selector.SelectOne(ctx, title, options)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", title, err)
	}
	if choice < 0 || choice >= len(groups) {
		return zero, fmt.Errorf("%s: selector returned option %d of %d", title, choice, len(groups))
	}

	chosen := groups[choice]
	s.memo.Record(keys, chosen.key)
	s.logger.Debug("decision recorded",
		slog.String("prompt", title),
		slog.String("choice", chosen.key),
		slog.Int("support", len(chosen.sources)),
		slog.Int("alternatives", len(groups)))
	return chosen.value, nil
}

// choose asks the curator to pick one of a fixed list of labels. It does not
// consult the memo.
func (s *Session) choose(ctx context.Context, title string, labels []string) (int, error) {
	options := make([]Option, len(labels))
	for i, l := range labels {
		options[i] = Option{Label: l}
	}
	choice, err := s.selector.SelectOne(ctx, title, options)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", title, err)
	}
	if choice < 0 || choice >= len(labels) {
		return 0, fmt.Errorf("%s: selector returned option %d of %d", title, choice, len(labels))
	}
	return choice, nil
}
